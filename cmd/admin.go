package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sandwipshanto/relevant/internal/models"
	"github.com/sandwipshanto/relevant/internal/query"
	"github.com/sandwipshanto/relevant/internal/tasks"
	"github.com/urfave/cli/v3"
)

// AdminProcessing prints the content pipeline status.
func (r *Runner) AdminProcessing(ctx context.Context, cmd *cli.Command) error {
	status, err := query.FetchAs(ctx, r.cache, query.ProcessingKey(), r.staleAfter(),
		func(ctx context.Context) (*models.ProcessingStatus, error) {
			return r.client.ProcessingStatus(ctx)
		})
	if err != nil {
		return fmt.Errorf("failed to fetch processing status: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Processing")
	r.writePlain("Active jobs: %d\n", status.ActiveJobs)
	r.writePlain("Queued jobs: %d\n", status.QueuedJobs)
	r.writePlain("Last update: %s\n", status.LastUpdate)
	return nil
}

// AdminTrigger kicks off a content processing run, optionally waiting for
// the pipeline to drain.
func (r *Runner) AdminTrigger(ctx context.Context, cmd *cli.Command) error {
	err := r.cache.Mutate(ctx, []query.Key{query.ProcessingKey()}, func(ctx context.Context) error {
		return r.client.TriggerProcessing(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to trigger processing: %w", err)
	}
	r.writePlainln("✓ Processing triggered")

	if !cmd.Bool("wait") {
		return nil
	}

	progress := r.progressPrinter()
	defer close(progress)

	engine := tasks.NewRefreshEngine(r.client, nil)
	status, err := engine.WaitForProcessing(ctx, progress, tasks.WaitOpts{
		Interval: time.Duration(cmd.Int("poll-secs")) * time.Second,
		Timeout:  time.Duration(cmd.Int("timeout-secs")) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("wait failed: %w", err)
	}

	r.writePlainln("✓ Pipeline idle (last update %s)", status.LastUpdate)
	return nil
}

// AdminDiagnostics dumps backend diagnostics as JSON.
func (r *Runner) AdminDiagnostics(ctx context.Context, cmd *cli.Command) error {
	diag, err := r.client.AdminDiagnostics(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch diagnostics: %w", err)
	}
	return r.writeJSON(diag, cmd.Bool("pretty"))
}
