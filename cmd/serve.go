package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sandwipshanto/relevant/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the static file server for the dashboard bundle.
//
// Port resolution order: --port flag, PORT environment variable (a .env
// file in the working directory is loaded first), then the config file.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := godotenv.Load(); err != nil {
		r.logger.Debug("no .env file loaded", "error", err)
	}

	port := r.config.Server.Port
	if env := os.Getenv("PORT"); env != "" {
		parsed, err := strconv.Atoi(env)
		if err != nil {
			r.logger.Warn("ignoring invalid PORT value", "value", env)
		} else {
			port = parsed
		}
	}
	if cmd.IsSet("port") {
		port = int(cmd.Int("port"))
	}

	dist := r.config.Server.Dist
	if cmd.IsSet("dist") {
		dist = cmd.String("dist")
	}
	if _, err := os.Stat(dist); err != nil {
		return fmt.Errorf("dist directory not found at %s: %w", dist, err)
	}

	router := server.NewBasicRouter()
	router.Use(server.Recover(r.logger), server.Logging(r.logger))
	router.Handler(server.NewStaticHandler(dist))

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("serving %s at http://%s", dist, addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
		r.logger.Info("shutting down")
	case <-ctx.Done():
		r.logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
