// package tasks implements long-running content operations against the backend.
//
// The core abstraction is RefreshEngine, which pulls the personalized feed and
// saved listing into the local cache and polls backend processing state.
// Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/sandwipshanto/relevant/internal/api"
	"github.com/sandwipshanto/relevant/internal/models"
	"github.com/sandwipshanto/relevant/internal/shared"
)

// ContentAPI defines the backend reads the engine depends on.
// This abstraction allows for easier testing and decoupling from the concrete client.
type ContentAPI interface {
	Profile(ctx context.Context) (*models.User, error)
	Feed(ctx context.Context, params api.FeedParams) (*api.ContentPage, error)
	Saved(ctx context.Context, params api.PageParams) (*api.ContentPage, error)
	ProcessingStatus(ctx context.Context) (*models.ProcessingStatus, error)
}

// ContentCacher stores normalized content records locally.
type ContentCacher interface {
	CacheContent(content models.Content) error
}

// RefreshResult summarizes a completed cache refresh.
type RefreshResult struct {
	User         *models.User // Profile fetched at the start of the run
	FeedPages    int          // Feed pages fetched
	SavedPages   int          // Saved-listing pages fetched
	ItemsFetched int          // Content records pulled from the backend
	ItemsCached  int          // Records stored or refreshed locally
	CacheErrors  int          // Records that failed to cache
}

// RefreshOpts configures a cache refresh run.
type RefreshOpts struct {
	MaxPages     int     // Pages to pull per listing (default: 5)
	PageSize     int     // Items per page (default: 10)
	MinRelevance float64 // Feed relevance floor
	RateLimit    float64 // Requests per second against the backend (default: 5)
}

// RefreshEngine pulls remote content state into the local cache.
type RefreshEngine struct {
	api   ContentAPI
	cache ContentCacher
}

// NewRefreshEngine creates a RefreshEngine with the provided backend client and cache.
func NewRefreshEngine(apiClient ContentAPI, cache ContentCacher) *RefreshEngine {
	return &RefreshEngine{api: apiClient, cache: cache}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *RefreshEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run refreshes the local cache: profile first, then feed pages, then the
// saved listing. Fetches are rate limited; individual cache failures are
// counted, not fatal.
func (e *RefreshEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, opts RefreshOpts) (*RefreshResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: api client not initialized", shared.ErrServiceUnavailable)
	}

	if opts.MaxPages <= 0 {
		opts.MaxPages = 5
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	result := &RefreshResult{}

	e.sendProgress(progress, fetchProfileUpdate(1, 1))
	if err := limiter.Wait(ctx); err != nil {
		return nil, err
	}
	user, err := e.api.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	result.User = user

	feedPage := func(ctx context.Context, page int) (*api.ContentPage, error) {
		return e.api.Feed(ctx, api.FeedParams{Page: page, Limit: opts.PageSize, MinRelevance: opts.MinRelevance})
	}
	savedPage := func(ctx context.Context, page int) (*api.ContentPage, error) {
		return e.api.Saved(ctx, api.PageParams{Page: page, Limit: opts.PageSize})
	}

	pages, err := e.pullListing(ctx, progress, limiter, FetchFeed, feedPage, opts.MaxPages, result)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	result.FeedPages = pages

	pages, err = e.pullListing(ctx, progress, limiter, FetchSaved, savedPage, opts.MaxPages, result)
	if err != nil {
		return nil, fmt.Errorf("fetching saved items: %w", err)
	}
	result.SavedPages = pages

	e.sendProgress(progress, cachedItemsUpdate(1, 1, result.ItemsCached))
	return result, nil
}

// pullListing walks one paginated listing, caching every item.
func (e *RefreshEngine) pullListing(
	ctx context.Context,
	progress chan<- ProgressUpdate,
	limiter *rate.Limiter,
	phase Phase,
	fetch func(ctx context.Context, page int) (*api.ContentPage, error),
	maxPages int,
	result *RefreshResult,
) (int, error) {
	fetched := 0
	for page := 1; page <= maxPages; page++ {
		if phase == FetchFeed {
			e.sendProgress(progress, fetchFeedUpdate(page, maxPages))
		} else {
			e.sendProgress(progress, fetchSavedUpdate(page, maxPages))
		}

		if err := limiter.Wait(ctx); err != nil {
			return fetched, err
		}

		cp, err := fetch(ctx, page)
		if err != nil {
			return fetched, err
		}
		fetched++

		for _, item := range cp.Items {
			result.ItemsFetched++
			if e.cache == nil {
				continue
			}
			if err := e.cache.CacheContent(item); err != nil {
				result.CacheErrors++
				continue
			}
			result.ItemsCached++
		}

		if !cp.Pagination.HasMore {
			break
		}
	}
	return fetched, nil
}

// WaitOpts configures processing-status polling.
type WaitOpts struct {
	Interval time.Duration // Poll interval (default: 2s)
	Timeout  time.Duration // Give up after this long (default: 2m)
}

// WaitForProcessing polls the backend until no content jobs remain active or
// queued, the timeout elapses, or ctx is cancelled. Returns the final status.
func (e *RefreshEngine) WaitForProcessing(ctx context.Context, progress chan<- ProgressUpdate, opts WaitOpts) (*models.ProcessingStatus, error) {
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for {
		status, err := e.api.ProcessingStatus(ctx)
		if err != nil {
			return nil, fmt.Errorf("polling processing status: %w", err)
		}

		if status.ActiveJobs == 0 && status.QueuedJobs == 0 {
			return status, nil
		}
		e.sendProgress(progress, pollProcessingUpdate(status.ActiveJobs, status.QueuedJobs))

		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return status, fmt.Errorf("%w: content still processing", shared.ErrTimeout)
			}
			return status, ctx.Err()
		case <-ticker.C:
		}
	}
}
