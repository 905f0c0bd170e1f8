package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// StaticHandler serves a built single-page dashboard bundle from a dist
// directory. Requests for files that exist are served directly; every other
// path falls back to index.html so client-side routes resolve after a page
// reload.
//
// Implements the [Handler] interface for registration with a [Router].
type StaticHandler struct {
	dist string
}

// NewStaticHandler creates a handler serving the given dist directory.
func NewStaticHandler(dist string) *StaticHandler {
	return &StaticHandler{dist: dist}
}

// Routes returns the HTTP routes this handler serves.
func (h *StaticHandler) Routes() []string {
	return []string{"/"}
}

// ServeHTTP serves the requested asset, falling back to index.html.
//
// Paths escaping the dist directory are rejected before touching the
// filesystem.
func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	clean := filepath.Clean("/" + r.URL.Path)
	if strings.Contains(clean, "..") {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	target := filepath.Join(h.dist, clean)
	if !strings.HasPrefix(target, filepath.Clean(h.dist)+string(os.PathSeparator)) && target != filepath.Clean(h.dist) {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	info, err := os.Stat(target)
	if err == nil && !info.IsDir() {
		http.ServeFile(w, r, target)
		return
	}

	index := filepath.Join(h.dist, "index.html")
	if _, err := os.Stat(index); err != nil {
		http.Error(w, "Dashboard bundle not found", http.StatusNotFound)
		return
	}
	http.ServeFile(w, r, index)
}
