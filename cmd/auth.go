package main

import (
	"context"
	"fmt"

	"github.com/sandwipshanto/relevant/internal/session"
	"github.com/sandwipshanto/relevant/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin signs in with email and password and stores the bearer token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")
	if email == "" || password == "" {
		return fmt.Errorf("%w: --email and --password are required", shared.ErrMissingArgument)
	}

	user, err := r.session.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	r.writePlainln("✓ Logged in as %s (%s)", user.Name, user.Email)
	return nil
}

// AuthRegister creates an account and stores the returned token.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")
	name := cmd.String("name")
	if email == "" || password == "" {
		return fmt.Errorf("%w: --email and --password are required", shared.ErrMissingArgument)
	}

	user, err := r.session.Register(ctx, email, password, name)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	r.writePlainln("✓ Account created for %s", user.Email)
	return nil
}

// AuthLogout clears the stored credential.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.session.Logout(); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	r.writePlainln("✓ Logged out")
	return nil
}

// AuthWhoami validates the stored credential and prints the account.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if err := r.session.Load(ctx); err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	user := r.session.User()
	if user == nil {
		return fmt.Errorf("%w: run 'relevant auth login'", shared.ErrNotAuthenticated)
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Account")
	r.writePlain("Name:  %s\n", user.Name)
	r.writePlain("Email: %s\n", user.Email)
	if user.Connection != nil && user.Connection.Connected {
		r.writePlain("YouTube: connected (%s)\n", user.Connection.ChannelTitle)
	} else {
		r.writePlain("YouTube: not connected\n")
	}
	return nil
}

// AuthStatus reports session state without failing when signed out.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.session.Load(ctx); err != nil {
		r.writePlainln("Session: unreachable (%v)", err)
		return nil
	}

	state := r.session.State()
	r.writePlainln("Session: %s", state)
	if state == session.Authenticated {
		r.writePlain("Account: %s\n", r.session.User().Email)
	}
	return nil
}

// AuthImport extracts a bearer token from a browser cURL capture and
// stores it after validating it against the backend.
func (r *Runner) AuthImport(ctx context.Context, cmd *cli.Command) error {
	var token string
	var err error

	switch {
	case cmd.String("curl-file") != "":
		token, err = shared.ParseCurlFile(cmd.String("curl-file"))
	case cmd.String("curl") != "":
		token, err = shared.ParseCurlToken([]byte(cmd.String("curl")))
	default:
		return fmt.Errorf("%w: provide --curl or --curl-file", shared.ErrMissingArgument)
	}
	if err != nil {
		return fmt.Errorf("failed to extract token: %w", err)
	}

	if err := r.store.Save(token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	if err := r.session.Load(ctx); err != nil {
		return fmt.Errorf("token stored but could not be verified: %w", err)
	}
	if r.session.User() == nil {
		return fmt.Errorf("%w: the imported token was rejected", shared.ErrAuthFailed)
	}

	r.writePlainln("✓ Token imported for %s", r.session.User().Email)
	return nil
}
