package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sandwipshanto/relevant/internal/api"
	"github.com/sandwipshanto/relevant/internal/query"
	"github.com/sandwipshanto/relevant/internal/server"
	"github.com/sandwipshanto/relevant/internal/shared"
	"github.com/urfave/cli/v3"
)

// YouTubeConnect runs the OAuth2 connect flow with a local relay server.
//
// The backend builds the authorization URL and owns the token exchange;
// the local server only captures the redirect and relays the code back.
func (r *Runner) YouTubeConnect(ctx context.Context, cmd *cli.Command) error {
	authURL, err := r.client.YouTubeAuthURL(ctx)
	if err != nil {
		return fmt.Errorf("failed to get authorization URL: %w", err)
	}

	state, err := stateParam(authURL)
	if err != nil {
		return err
	}

	callbackHandler := server.NewCallbackHandler(state)
	router := server.NewBasicRouter()
	router.Handler(callbackHandler)

	serverAddr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth relay server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for YouTube authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.CallbackResult

	select {
	case result = <-callbackHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return fmt.Errorf("authorization failed: %w", result.Error())
	}

	err = r.cache.Mutate(ctx, query.ConnectionInvalidates(), func(ctx context.Context) error {
		return r.client.YouTubeCallback(ctx, result.Code, result.State)
	})
	if err != nil {
		return fmt.Errorf("failed to complete connection: %w", err)
	}

	r.writePlainln("✓ YouTube account connected")
	return nil
}

// YouTubeStatus reports the external account connection state.
func (r *Runner) YouTubeStatus(ctx context.Context, cmd *cli.Command) error {
	status, err := query.FetchAs(ctx, r.cache, query.YouTubeStatusKey(), r.staleAfter(),
		func(ctx context.Context) (*api.ConnectionStatusResponse, error) {
			return r.client.YouTubeStatus(ctx)
		})
	if err != nil {
		return fmt.Errorf("failed to fetch connection status: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, cmd.Bool("pretty"))
	}

	if status.Connected {
		r.writePlainln("✓ Connected as %s (%s)", status.ChannelTitle, status.ChannelID)
	} else {
		r.writePlainln("Not connected. Run 'relevant youtube connect'.")
	}
	return nil
}

// YouTubeSync imports subscriptions from the connected account as sources.
func (r *Runner) YouTubeSync(ctx context.Context, cmd *cli.Command) error {
	var result *api.SyncResponse
	err := r.cache.Mutate(ctx, query.ProfileInvalidates(), func(ctx context.Context) error {
		var err error
		result, err = r.client.YouTubeSync(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	r.writePlainln("✓ Imported %d subscriptions", result.SubscriptionsAdded)
	return nil
}

// YouTubeDisconnect unlinks the external account.
func (r *Runner) YouTubeDisconnect(ctx context.Context, cmd *cli.Command) error {
	err := r.cache.Mutate(ctx, query.ConnectionInvalidates(), func(ctx context.Context) error {
		return r.client.YouTubeDisconnect(ctx)
	})
	if err != nil {
		return fmt.Errorf("disconnect failed: %w", err)
	}

	r.writePlainln("✓ YouTube account disconnected")
	return nil
}

// stateParam extracts the CSRF state token the backend embedded in the
// authorization URL.
func stateParam(authURL string) (string, error) {
	parsed, err := url.Parse(authURL)
	if err != nil {
		return "", fmt.Errorf("%w: malformed authorization URL", shared.ErrAPIRequest)
	}
	state := parsed.Query().Get("state")
	if state == "" {
		return "", fmt.Errorf("%w: authorization URL carries no state token", shared.ErrAPIRequest)
	}
	return state, nil
}
