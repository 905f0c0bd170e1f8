package main

import (
	"context"
	"fmt"

	"github.com/sandwipshanto/relevant/internal/api"
	"github.com/sandwipshanto/relevant/internal/models"
	"github.com/sandwipshanto/relevant/internal/query"
	"github.com/sandwipshanto/relevant/internal/shared"
	"github.com/sandwipshanto/relevant/internal/tasks"
	"github.com/urfave/cli/v3"
)

// FeedList prints a page of the personalized feed, served from the query
// cache when fresh.
func (r *Runner) FeedList(ctx context.Context, cmd *cli.Command) error {
	page := int(cmd.Int("page"))
	limit := r.pageSize(cmd)
	minRelevance := cmd.Float("min-relevance")
	if minRelevance == 0 {
		minRelevance = r.config.Feed.MinRelevance
	}

	result, err := query.FetchAs(ctx, r.cache, query.FeedKey(page, minRelevance), r.staleAfter(),
		func(ctx context.Context) (*api.ContentPage, error) {
			return r.client.Feed(ctx, api.FeedParams{Page: page, Limit: limit, MinRelevance: minRelevance})
		})
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Feed (page %d of %d items)", page, result.Pagination.TotalItems))
	r.printContent(result.Items)
	if result.Pagination.HasMore {
		r.writePlain("\nMore available: --page %d\n", page+1)
	}
	return nil
}

// SearchContent runs a keyword search over the user's content.
func (r *Runner) SearchContent(ctx context.Context, cmd *cli.Command) error {
	q := cmd.StringArg("query")
	if q == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}
	page := int(cmd.Int("page"))
	limit := r.pageSize(cmd)

	result, err := query.FetchAs(ctx, r.cache, query.SearchKey(q, page), r.staleAfter(),
		func(ctx context.Context) (*api.ContentPage, error) {
			return r.client.Search(ctx, q, page, limit)
		})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Results for %q (%d total)", q, result.Pagination.TotalItems))
	r.printContent(result.Items)
	return nil
}

// FeedView fetches one content record, marking it viewed.
func (r *Runner) FeedView(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: content id", shared.ErrMissingArgument)
	}

	item, err := query.FetchAs(ctx, r.cache, query.ContentKey(id), r.staleAfter(),
		func(ctx context.Context) (*models.Content, error) {
			return r.client.Get(ctx, id)
		})
	if err != nil {
		return fmt.Errorf("failed to fetch content: %w", err)
	}

	err = r.cache.Mutate(ctx, query.ViewInvalidates(id), func(ctx context.Context) error {
		_, err := r.client.View(ctx, id)
		return err
	})
	if err != nil {
		r.logger.Warnf("failed to record view: %v", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(item, cmd.Bool("pretty"))
	}

	r.writePlainHeader(item.Title)
	r.writePlain("Channel:   %s\n", item.SourceChannel.Name)
	r.writePlain("Published: %s\n", item.PublishedAt)
	r.writePlain("Duration:  %s\n", shared.FormatDuration(item.Duration))
	r.writePlain("Relevance: %.0f%%\n", item.Relevance()*100)
	r.writePlain("URL:       %s\n", item.URL)
	if item.Summary != "" {
		r.writePlain("\n%s\n", item.Summary)
	}
	for _, h := range item.Highlights {
		r.writePlain("- %s\n", h)
	}
	return nil
}

// FeedLike toggles the like flag on a content record.
func (r *Runner) FeedLike(ctx context.Context, cmd *cli.Command) error {
	return r.interact(ctx, cmd, "like", query.LikeInvalidates, func(ctx context.Context, id string) error {
		_, err := r.client.Like(ctx, id, !cmd.Bool("undo"))
		return err
	})
}

// FeedSave toggles the save flag on a content record.
func (r *Runner) FeedSave(ctx context.Context, cmd *cli.Command) error {
	return r.interact(ctx, cmd, "save", query.SaveInvalidates, func(ctx context.Context, id string) error {
		_, err := r.client.Save(ctx, id, !cmd.Bool("undo"))
		return err
	})
}

// FeedDismiss hides a content record from future feed pages.
func (r *Runner) FeedDismiss(ctx context.Context, cmd *cli.Command) error {
	return r.interact(ctx, cmd, "dismiss", query.DismissInvalidates, func(ctx context.Context, id string) error {
		_, err := r.client.Dismiss(ctx, id)
		return err
	})
}

// interact runs one content interaction through the mutation path so the
// affected listings are refetched on next read.
func (r *Runner) interact(ctx context.Context, cmd *cli.Command, action string, invalidates func(string) []query.Key, fn func(ctx context.Context, id string) error) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: content id", shared.ErrMissingArgument)
	}

	err := r.cache.Mutate(ctx, invalidates(id), func(ctx context.Context) error {
		return fn(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("%s failed: %w", action, err)
	}

	r.writePlainln("✓ %s recorded for %s", action, id)
	return nil
}

// FeedExport pulls listings from the backend and writes them to disk in
// every requested format.
func (r *Runner) FeedExport(ctx context.Context, cmd *cli.Command) error {
	listings := cmd.StringSlice("listing")
	if len(listings) == 0 {
		listings = []string{"feed"}
	}

	progress := r.progressPrinter()
	defer close(progress)

	engine := tasks.NewRefreshEngine(r.client, nil)
	result, err := engine.BulkExport(ctx, progress, listings, tasks.BulkExportOpts{
		Formats:   cmd.StringSlice("format"),
		OutputDir: cmd.String("output"),
		MaxPages:  int(cmd.Int("pages")),
		PageSize:  r.pageSize(cmd),
	})
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlainln("✓ Exported %d/%d files to %s", result.SuccessfulExports, result.TotalJobs, result.OutputDirectory)
	for _, job := range result.Results {
		if !job.Success {
			r.writePlain("  ✗ %s (%s): %v\n", job.Listing, job.Format, job.Error)
		}
	}
	return nil
}

// pageSize resolves the page size from flag or config default.
func (r *Runner) pageSize(cmd *cli.Command) int {
	if limit := int(cmd.Int("limit")); limit > 0 {
		return limit
	}
	if r.config.Feed.PageSize > 0 {
		return r.config.Feed.PageSize
	}
	return 10
}

// printContent renders a compact content listing.
func (r *Runner) printContent(items []models.Content) {
	if len(items) == 0 {
		r.writePlain("(no content)\n")
		return
	}
	for _, item := range items {
		marker := " "
		if item.IsSaved() {
			marker = "★"
		}
		r.writePlain("%s %-26s %-50s %6s  %3.0f%%\n",
			marker, shared.Truncate(item.SourceChannel.Name, 24), shared.Truncate(item.Title, 48),
			shared.FormatDuration(item.Duration), item.Relevance()*100)
		r.writePlain("  id: %s\n", item.ID)
	}
}

// progressPrinter drains task progress updates onto the logger.
func (r *Runner) progressPrinter() chan tasks.ProgressUpdate {
	progress := make(chan tasks.ProgressUpdate, 64)
	go func() {
		for update := range progress {
			r.logger.Debugf("[%s] %s", update.Phase, update.Message)
		}
	}()
	return progress
}
