package main

import (
	"context"
	"fmt"

	"github.com/sandwipshanto/relevant/internal/api"
	"github.com/sandwipshanto/relevant/internal/query"
	"github.com/urfave/cli/v3"
)

// SavedList prints a page of the saved-content listing.
func (r *Runner) SavedList(ctx context.Context, cmd *cli.Command) error {
	page := int(cmd.Int("page"))
	limit := r.pageSize(cmd)

	result, err := query.FetchAs(ctx, r.cache, query.SavedKey(page), r.staleAfter(),
		func(ctx context.Context) (*api.ContentPage, error) {
			return r.client.Saved(ctx, api.PageParams{Page: page, Limit: limit})
		})
	if err != nil {
		return fmt.Errorf("failed to fetch saved content: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Saved (page %d of %d items)", page, result.Pagination.TotalItems))
	r.printContent(result.Items)
	if result.Pagination.HasMore {
		r.writePlain("\nMore available: --page %d\n", page+1)
	}
	return nil
}
