package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sandwipshanto/relevant/internal/api"
	"github.com/sandwipshanto/relevant/internal/models"
)

// fakeAPI implements ContentAPI over canned pages.
type fakeAPI struct {
	feedPages  []*api.ContentPage
	savedPages []*api.ContentPage
	statuses   []models.ProcessingStatus
	feedCalls  atomic.Int32
	savedCalls atomic.Int32
	statusCall atomic.Int32
	profileErr error
	feedErr    error
}

func (f *fakeAPI) Profile(ctx context.Context) (*models.User, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return &models.User{ID: "user-1", Email: "testuser@relevant.com"}, nil
}

func (f *fakeAPI) Feed(ctx context.Context, params api.FeedParams) (*api.ContentPage, error) {
	f.feedCalls.Add(1)
	if f.feedErr != nil {
		return nil, f.feedErr
	}
	return pageAt(f.feedPages, params.Page), nil
}

func (f *fakeAPI) Saved(ctx context.Context, params api.PageParams) (*api.ContentPage, error) {
	f.savedCalls.Add(1)
	return pageAt(f.savedPages, params.Page), nil
}

func (f *fakeAPI) ProcessingStatus(ctx context.Context) (*models.ProcessingStatus, error) {
	i := int(f.statusCall.Add(1)) - 1
	if i >= len(f.statuses) {
		i = len(f.statuses) - 1
	}
	if i < 0 {
		return &models.ProcessingStatus{}, nil
	}
	status := f.statuses[i]
	return &status, nil
}

func pageAt(pages []*api.ContentPage, n int) *api.ContentPage {
	if n < 1 || n > len(pages) {
		return &api.ContentPage{Items: []models.Content{}}
	}
	return pages[n-1]
}

// fakeCacher records cached content and can fail on demand.
type fakeCacher struct {
	cached  []models.Content
	failIDs map[string]bool
}

func (c *fakeCacher) CacheContent(content models.Content) error {
	if c.failIDs[content.ID] {
		return errors.New("cache failure")
	}
	c.cached = append(c.cached, content)
	return nil
}

func contentPage(hasMore bool, ids ...string) *api.ContentPage {
	items := make([]models.Content, len(ids))
	for i, id := range ids {
		items[i] = models.Content{ID: id, Title: "Item " + id, Source: "youtube", URL: "https://example.com/" + id}
	}
	return &api.ContentPage{
		Items:      items,
		Pagination: models.Pagination{HasMore: hasMore, TotalItems: len(ids)},
	}
}

func TestRefreshEngineRun(t *testing.T) {
	ctx := context.Background()

	t.Run("PullsFeedAndSaved", func(t *testing.T) {
		backend := &fakeAPI{
			feedPages: []*api.ContentPage{
				contentPage(true, "f1", "f2"),
				contentPage(false, "f3"),
			},
			savedPages: []*api.ContentPage{
				contentPage(false, "s1"),
			},
		}
		cache := &fakeCacher{}
		engine := NewRefreshEngine(backend, cache)

		result, err := engine.Run(ctx, nil, RefreshOpts{RateLimit: 1000})
		if err != nil {
			t.Fatal(err)
		}

		if result.User == nil || result.User.ID != "user-1" {
			t.Errorf("user = %+v", result.User)
		}
		if result.FeedPages != 2 || result.SavedPages != 1 {
			t.Errorf("pages = feed %d, saved %d", result.FeedPages, result.SavedPages)
		}
		if result.ItemsFetched != 4 || result.ItemsCached != 4 {
			t.Errorf("items = fetched %d, cached %d", result.ItemsFetched, result.ItemsCached)
		}
		if len(cache.cached) != 4 {
			t.Errorf("cache holds %d items", len(cache.cached))
		}
	})

	t.Run("StopsAtMaxPages", func(t *testing.T) {
		endless := make([]*api.ContentPage, 10)
		for i := range endless {
			endless[i] = contentPage(true, fmt.Sprintf("f%d", i))
		}
		backend := &fakeAPI{feedPages: endless, savedPages: []*api.ContentPage{contentPage(false)}}
		engine := NewRefreshEngine(backend, &fakeCacher{})

		result, err := engine.Run(ctx, nil, RefreshOpts{MaxPages: 3, RateLimit: 1000})
		if err != nil {
			t.Fatal(err)
		}
		if result.FeedPages != 3 {
			t.Errorf("feed pages = %d, want 3", result.FeedPages)
		}
	})

	t.Run("CacheFailuresAreCounted", func(t *testing.T) {
		backend := &fakeAPI{
			feedPages:  []*api.ContentPage{contentPage(false, "f1", "f2", "f3")},
			savedPages: []*api.ContentPage{contentPage(false)},
		}
		cache := &fakeCacher{failIDs: map[string]bool{"f2": true}}
		engine := NewRefreshEngine(backend, cache)

		result, err := engine.Run(ctx, nil, RefreshOpts{RateLimit: 1000})
		if err != nil {
			t.Fatal(err)
		}
		if result.ItemsCached != 2 || result.CacheErrors != 1 {
			t.Errorf("cached %d, errors %d", result.ItemsCached, result.CacheErrors)
		}
	})

	t.Run("ProfileFailureAborts", func(t *testing.T) {
		backend := &fakeAPI{profileErr: errors.New("unreachable")}
		engine := NewRefreshEngine(backend, &fakeCacher{})

		if _, err := engine.Run(ctx, nil, RefreshOpts{RateLimit: 1000}); err == nil {
			t.Error("expected error when profile fetch fails")
		}
		if n := backend.feedCalls.Load(); n != 0 {
			t.Errorf("feed fetched %d times after profile failure", n)
		}
	})

	t.Run("ProgressNeverBlocks", func(t *testing.T) {
		backend := &fakeAPI{
			feedPages:  []*api.ContentPage{contentPage(false, "f1")},
			savedPages: []*api.ContentPage{contentPage(false)},
		}
		engine := NewRefreshEngine(backend, &fakeCacher{})

		// Unbuffered channel that nobody reads: updates must be dropped,
		// not deadlock the run.
		progress := make(chan ProgressUpdate)
		done := make(chan struct{})
		go func() {
			defer close(done)
			engine.Run(ctx, progress, RefreshOpts{RateLimit: 1000})
		}()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("run blocked on progress channel")
		}
	})
}

func TestWaitForProcessing(t *testing.T) {
	ctx := context.Background()

	t.Run("ImmediatelyIdle", func(t *testing.T) {
		backend := &fakeAPI{statuses: []models.ProcessingStatus{{}}}
		engine := NewRefreshEngine(backend, nil)

		status, err := engine.WaitForProcessing(ctx, nil, WaitOpts{Interval: time.Millisecond})
		if err != nil {
			t.Fatal(err)
		}
		if status.ActiveJobs != 0 {
			t.Errorf("status = %+v", status)
		}
		if n := backend.statusCall.Load(); n != 1 {
			t.Errorf("polled %d times, want 1", n)
		}
	})

	t.Run("PollsUntilIdle", func(t *testing.T) {
		backend := &fakeAPI{statuses: []models.ProcessingStatus{
			{ActiveJobs: 2, QueuedJobs: 1},
			{ActiveJobs: 1},
			{},
		}}
		engine := NewRefreshEngine(backend, nil)

		_, err := engine.WaitForProcessing(ctx, nil, WaitOpts{Interval: time.Millisecond})
		if err != nil {
			t.Fatal(err)
		}
		if n := backend.statusCall.Load(); n != 3 {
			t.Errorf("polled %d times, want 3", n)
		}
	})

	t.Run("TimesOut", func(t *testing.T) {
		backend := &fakeAPI{statuses: []models.ProcessingStatus{{ActiveJobs: 1}}}
		engine := NewRefreshEngine(backend, nil)

		status, err := engine.WaitForProcessing(ctx, nil, WaitOpts{
			Interval: time.Millisecond,
			Timeout:  20 * time.Millisecond,
		})
		if err == nil {
			t.Fatal("expected timeout")
		}
		if status == nil || status.ActiveJobs != 1 {
			t.Errorf("final status = %+v", status)
		}
	})
}
