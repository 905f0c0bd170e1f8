package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"

	"github.com/sandwipshanto/relevant/internal/shared"
)

// TokenStore persists the session credential to a single file readable only
// by the owning user.
type TokenStore struct {
	path string
}

func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Load reads the stored credential. A missing file is not an error; it
// returns an empty token.
func (s *TokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading credential: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the credential, creating parent directories as needed.
func (s *TokenStore) Save(token string) error {
	if token == "" {
		return fmt.Errorf("%w: empty token", shared.ErrInvalidInput)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating credential dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing credential: %w", err)
	}
	return nil
}

// Clear removes the stored credential. Clearing an absent credential is fine.
func (s *TokenStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing credential: %w", err)
	}
	return nil
}

// tokenSource adapts the store to oauth2.TokenSource, re-reading the file on
// each request so an external login or logout takes effect immediately.
type tokenSource struct {
	store *TokenStore
}

func (ts tokenSource) Token() (*oauth2.Token, error) {
	tok, err := ts.store.Load()
	if err != nil {
		return nil, err
	}
	if tok == "" {
		return nil, shared.ErrNoCredential
	}
	return &oauth2.Token{AccessToken: tok, TokenType: "Bearer"}, nil
}

// TokenSource returns a live view of the stored credential.
func (s *TokenStore) TokenSource() oauth2.TokenSource {
	return tokenSource{store: s}
}
