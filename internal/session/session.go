// Package session owns authentication state: the persisted credential, the
// current user identity, and the single policy point for credential expiry.
//
// The lifecycle is Uninitialized -> Loading -> Authenticated or
// Unauthenticated. Every consumer that hits a credential rejection routes it
// through [Session.HandleUnauthorized] instead of deciding locally; the
// session clears the credential once and fires the expiry hook exactly once
// no matter how many in-flight requests fail together.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/sandwipshanto/relevant/internal/api"
	"github.com/sandwipshanto/relevant/internal/models"
	"github.com/sandwipshanto/relevant/internal/shared"
)

// State is the authentication lifecycle state.
type State int

const (
	Uninitialized State = iota
	Loading
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Session tracks who is signed in and reacts to credential expiry.
type Session struct {
	mu        sync.Mutex
	state     State
	user      *models.User
	store     *TokenStore
	client    *api.Client
	logger    *log.Logger
	onExpired func()
	// expiredFired guards the expiry hook so a burst of rejected requests
	// produces one notification. Reset by the next successful login.
	expiredFired bool
	// returnTo remembers where the user was headed when authentication got
	// in the way, so a successful login can resume there.
	returnTo string
}

// Options configures a [Session].
type Options struct {
	Store  *TokenStore
	Client *api.Client
	Logger *log.Logger
	// OnExpired runs once when a stored credential is rejected mid-session.
	OnExpired func()
}

func New(opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &Session{
		state:     Uninitialized,
		store:     opts.Store,
		client:    opts.Client,
		logger:    opts.Logger,
		onExpired: opts.OnExpired,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User returns the signed-in identity, or nil when unauthenticated.
func (s *Session) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Load restores the session from the persisted credential. A missing
// credential resolves to Unauthenticated without error; a rejected one is
// cleared so the next start does not retry it.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	s.state = Loading
	s.mu.Unlock()

	token, err := s.store.Load()
	if err != nil {
		s.setUnauthenticated()
		return err
	}
	if token == "" {
		s.setUnauthenticated()
		return nil
	}

	s.client.SetTokens(s.store.TokenSource())

	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			s.logger.Debug("stored credential rejected, clearing")
			if clearErr := s.store.Clear(); clearErr != nil {
				s.logger.Warn("could not clear credential", "err", clearErr)
			}
			s.setUnauthenticated()
			return nil
		}
		// Backend unreachable: keep the credential, report the failure.
		s.setUnauthenticated()
		return fmt.Errorf("restoring session: %w", err)
	}

	s.mu.Lock()
	s.state = Authenticated
	s.user = user
	s.expiredFired = false
	s.mu.Unlock()
	return nil
}

// Login authenticates with email and password and persists the credential.
func (s *Session) Login(ctx context.Context, email, password string) (*models.User, error) {
	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return nil, fmt.Errorf("%w: invalid email or password", shared.ErrAuthFailed)
		}
		return nil, err
	}
	return s.establish(resp)
}

// Register creates an account and signs in with the returned credential.
func (s *Session) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	resp, err := s.client.Register(ctx, email, password, name)
	if err != nil {
		return nil, err
	}
	return s.establish(resp)
}

func (s *Session) establish(resp *api.AuthResponse) (*models.User, error) {
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: server returned no token", shared.ErrAuthFailed)
	}
	if err := s.store.Save(resp.Token); err != nil {
		return nil, err
	}
	s.client.SetTokens(s.store.TokenSource())

	s.mu.Lock()
	s.state = Authenticated
	user := resp.User
	s.user = &user
	s.expiredFired = false
	s.mu.Unlock()
	return &user, nil
}

// Logout discards the credential and identity.
func (s *Session) Logout() error {
	err := s.store.Clear()
	s.setUnauthenticated()
	return err
}

// UpdateUser replaces the cached identity after a profile-shaped write.
func (s *Session) UpdateUser(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Authenticated {
		s.user = user
	}
}

// HandleUnauthorized inspects an operation error. When the credential was
// rejected it clears the session, fires the expiry hook once, and reports
// true so the caller can stop; any other error reports false and is the
// caller's to handle.
func (s *Session) HandleUnauthorized(err error) bool {
	if !errors.Is(err, api.ErrUnauthorized) {
		return false
	}

	s.mu.Lock()
	alreadyFired := s.expiredFired
	s.expiredFired = true
	wasAuthenticated := s.state == Authenticated
	s.state = Unauthenticated
	s.user = nil
	s.mu.Unlock()

	if wasAuthenticated {
		if clearErr := s.store.Clear(); clearErr != nil {
			s.logger.Warn("could not clear credential", "err", clearErr)
		}
	}
	if !alreadyFired && s.onExpired != nil {
		s.onExpired()
	}
	return true
}

// SetReturnTo remembers the destination a signed-out user was trying to
// reach.
func (s *Session) SetReturnTo(dest string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.returnTo = dest
}

// ConsumeReturnTo returns the remembered destination and forgets it.
func (s *Session) ConsumeReturnTo() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	dest := s.returnTo
	s.returnTo = ""
	return dest
}

func (s *Session) setUnauthenticated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Unauthenticated
	s.user = nil
}
