// package api implements the typed HTTP client for the Relevant backend.
//
// One method per endpoint; every call attaches the stored credential as a
// bearer token. A 401 response surfaces as [ErrUnauthorized] — the client
// never clears credentials or navigates on its own, that policy belongs to
// the session layer.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/sandwipshanto/relevant/internal/shared"
)

// ErrUnauthorized is returned for 401 responses. Callers that own the
// session react by clearing the credential and returning to the login view.
var ErrUnauthorized = errors.New("unauthorized")

// Error is a server-reported failure carrying the HTTP status and the
// backend's message envelope. Callers translate it for users.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// Client is the gateway to the Relevant REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     oauth2.TokenSource
	limiter    *rate.Limiter
}

// Options configures a [Client].
type Options struct {
	BaseURL string
	// Tokens supplies the bearer credential per request. A nil source or an
	// erroring source sends the request unauthenticated (register/login).
	Tokens     oauth2.TokenSource
	HTTPClient *http.Client
	Timeout    time.Duration
	// RequestsPerSec throttles read operations so background refresh cannot
	// stampede the backend. Zero disables throttling.
	RequestsPerSec float64
}

// New creates a Client for the given backend.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:5000"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Timeout > 0 {
		opts.HTTPClient.Timeout = opts.Timeout
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSec), 1)
	}

	return &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		tokens:     opts.Tokens,
		limiter:    limiter,
	}
}

// SetTokens replaces the credential source (after login or logout).
func (c *Client) SetTokens(tokens oauth2.TokenSource) {
	c.tokens = tokens
}

// envelope is the backend's standard response wrapper.
type envelope struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
}

// get performs a rate-limited read.
func (c *Client) get(ctx context.Context, path string, result any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
	}
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// do performs an authenticated request with a JSON body and decodes the
// response into result when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body any, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		if tok, err := c.tokens.Token(); err == nil && tok.AccessToken != "" {
			tok.SetAuthHeader(req)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s", ErrUnauthorized, serverMessage(data))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Status: resp.StatusCode, Message: serverMessage(data)}
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func serverMessage(data []byte) string {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return ""
	}
	return env.Msg
}
