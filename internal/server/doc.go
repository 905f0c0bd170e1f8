// Package server provides HTTP routing, middleware, and handlers for the
// dashboard bundle and OAuth relays.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Static Dashboard
//
// [StaticHandler] serves the built single-page dashboard from a dist
// directory. Existing files are served directly; every other path falls back
// to index.html so client-side routes survive a page reload. Paths escaping
// the dist directory are rejected.
//
// # OAuth Callback Relay
//
// [CallbackHandler] receives the authorization-code redirect during the
// YouTube connect flow. The handler validates the state parameter (CSRF
// protection) and sends the captured code through a channel; the backend
// performs the actual token exchange. It only processes one callback to
// prevent replay attacks.
//
// When the user runs the connect command, a temporary HTTP server starts on
// localhost, handles the redirect, and shuts down after relaying the code.
package server
