package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sandwipshanto/relevant/internal/api"
	"github.com/sandwipshanto/relevant/internal/query"
	"github.com/sandwipshanto/relevant/internal/session"
	"github.com/sandwipshanto/relevant/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	client  *api.Client
	store   *session.TokenStore
	session *session.Session
	cache   *query.Cache
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Client  *api.Client
	Store   *session.TokenStore
	Session *session.Session
	Cache   *query.Cache
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Store == nil {
		opts.Store = session.NewTokenStore(opts.Config.ResolveTokenPath())
	}
	if opts.Client == nil {
		opts.Client = api.New(api.Options{
			BaseURL:        opts.Config.API.BaseURL,
			Tokens:         opts.Store.TokenSource(),
			Timeout:        time.Duration(opts.Config.API.TimeoutSecs) * time.Second,
			RequestsPerSec: opts.Config.API.RequestsPerSec,
		})
	}
	if opts.Session == nil {
		opts.Session = session.New(session.Options{
			Store:  opts.Store,
			Client: opts.Client,
			Logger: opts.Logger,
		})
	}
	if opts.Cache == nil {
		opts.Cache = query.NewCache(query.Options{
			Retries: opts.Config.API.RetryCount,
			RetryIf: retryableRequest,
			Logger:  opts.Logger,
		})
	}

	return &Runner{
		config:  opts.Config,
		client:  opts.Client,
		store:   opts.Store,
		session: opts.Session,
		cache:   opts.Cache,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

// retryableRequest keeps the cache from retrying requests the backend
// rejected on purpose. Auth failures and other 4xx responses are final;
// transport errors and 5xx responses are worth another attempt.
func retryableRequest(err error) bool {
	if errors.Is(err, api.ErrUnauthorized) {
		return false
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, feedCommand, savedCommand, searchCommand,
		profileCommand, sourcesCommand, interestsCommand, youtubeCommand,
		adminCommand, localCommand, serveCommand, tuiCommand,
	} {
		cmd := fn(r)
		r.wrapCredentialCheck(cmd)
		commands = append(commands, cmd)
	}

	return commands
}

// wrapCredentialCheck routes every action's error through checkCredential,
// covering the whole subcommand tree.
func (r *Runner) wrapCredentialCheck(cmd *cli.Command) {
	if action := cmd.Action; action != nil {
		cmd.Action = func(ctx context.Context, c *cli.Command) error {
			return r.checkCredential(action(ctx, c))
		}
	}
	for _, sub := range cmd.Commands {
		r.wrapCredentialCheck(sub)
	}
}

// checkCredential clears a stored credential the backend rejected. One-shot
// commands hit the backend without loading the session first, so the session
// alone never learns a credential file exists to clear.
func (r *Runner) checkCredential(err error) error {
	if err == nil || !errors.Is(err, api.ErrUnauthorized) {
		return err
	}

	r.session.HandleUnauthorized(err)
	if clearErr := r.store.Clear(); clearErr != nil {
		r.logger.Warn("could not clear credential", "err", clearErr)
	}
	return fmt.Errorf("%w: run 'relevant auth login' to sign in again", err)
}

// SetLogger swaps the runner's logger. The TUI uses this to redirect command
// logging to a file so it cannot corrupt the rendered screen.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// staleAfter is the cache freshness window for read commands.
func (r *Runner) staleAfter() time.Duration {
	secs := r.config.Feed.StaleSecs
	if secs <= 0 {
		secs = 60
	}
	return time.Duration(secs) * time.Second
}

// openDatabase opens the local content database, running migrations on
// first use.
func (r *Runner) openDatabase() (*sql.DB, error) {
	path := r.config.ResolveDatabasePath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}
	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
