package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sandwipshanto/relevant/internal/models"
)

func pageOfContent(page, limit, total int) (*models.Pagination, []models.Content) {
	start := (page - 1) * limit
	items := []models.Content{}
	for i := start; i < start+limit && i < total; i++ {
		items = append(items, models.Content{ID: string(rune('a' + i)), Title: "Item"})
	}
	return &models.Pagination{
		CurrentPage: page,
		TotalItems:  total,
		HasMore:     start+limit < total,
	}, items
}

func TestPager(t *testing.T) {
	ctx := context.Background()

	t.Run("LoadReplacesThenLoadMoreAppends", func(t *testing.T) {
		fetch := func(ctx context.Context, page, limit int) (*models.Pagination, []models.Content, error) {
			pg, items := pageOfContent(page, limit, 5)
			return pg, items, nil
		}

		p := NewPager(fetch, 2)
		if err := p.Load(ctx); err != nil {
			t.Fatal(err)
		}
		if got := p.Items(); len(got) != 2 || got[0].ID != "a" {
			t.Fatalf("after load: %v", got)
		}

		if err := p.LoadMore(ctx); err != nil {
			t.Fatal(err)
		}
		got := p.Items()
		if len(got) != 4 {
			t.Fatalf("after load more: %d items", len(got))
		}
		for i, want := range []string{"a", "b", "c", "d"} {
			if got[i].ID != want {
				t.Errorf("item %d: got %q, want %q", i, got[i].ID, want)
			}
		}
		if !p.HasMore() {
			t.Error("page 3 still exists")
		}

		if err := p.LoadMore(ctx); err != nil {
			t.Fatal(err)
		}
		if p.HasMore() {
			t.Error("all pages consumed, HasMore should be false")
		}
		if got := p.Items(); len(got) != 5 {
			t.Errorf("expected 5 items total, got %d", len(got))
		}
	})

	t.Run("NoAdvanceWhileInFlight", func(t *testing.T) {
		var pages []int
		var mu sync.Mutex
		started := make(chan struct{})
		release := make(chan struct{})

		fetch := func(ctx context.Context, page, limit int) (*models.Pagination, []models.Content, error) {
			mu.Lock()
			pages = append(pages, page)
			mu.Unlock()
			if page == 1 {
				close(started)
				<-release
			}
			pg, items := pageOfContent(page, limit, 10)
			return pg, items, nil
		}

		p := NewPager(fetch, 2)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.Load(ctx); err != nil {
				t.Errorf("load: %v", err)
			}
		}()

		<-started
		// Page 1 is still in flight: these must all be no-ops.
		for i := 0; i < 3; i++ {
			if err := p.LoadMore(ctx); err != nil {
				t.Errorf("load more: %v", err)
			}
		}
		close(release)
		wg.Wait()

		mu.Lock()
		defer mu.Unlock()
		if len(pages) != 1 || pages[0] != 1 {
			t.Errorf("expected a single page-1 request, got %v", pages)
		}
	})

	t.Run("LoadMoreBeforeLoadIsNoop", func(t *testing.T) {
		var calls atomic.Int32
		fetch := func(ctx context.Context, page, limit int) (*models.Pagination, []models.Content, error) {
			calls.Add(1)
			pg, items := pageOfContent(page, limit, 10)
			return pg, items, nil
		}

		p := NewPager(fetch, 2)
		if err := p.LoadMore(ctx); err != nil {
			t.Fatal(err)
		}
		if n := calls.Load(); n != 0 {
			t.Errorf("load more before first load must not fetch, got %d calls", n)
		}
	})

	t.Run("NoFetchPastLastPage", func(t *testing.T) {
		var calls atomic.Int32
		fetch := func(ctx context.Context, page, limit int) (*models.Pagination, []models.Content, error) {
			calls.Add(1)
			pg, items := pageOfContent(page, limit, 2)
			return pg, items, nil
		}

		p := NewPager(fetch, 2)
		if err := p.Load(ctx); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 3; i++ {
			if err := p.LoadMore(ctx); err != nil {
				t.Fatal(err)
			}
		}
		if n := calls.Load(); n != 1 {
			t.Errorf("expected no fetches past the last page, got %d calls", n)
		}
	})

	t.Run("ErrorKeepsAccumulatedItems", func(t *testing.T) {
		fail := false
		fetch := func(ctx context.Context, page, limit int) (*models.Pagination, []models.Content, error) {
			if fail {
				return nil, nil, errors.New("backend down")
			}
			pg, items := pageOfContent(page, limit, 10)
			return pg, items, nil
		}

		p := NewPager(fetch, 2)
		if err := p.Load(ctx); err != nil {
			t.Fatal(err)
		}

		fail = true
		if err := p.LoadMore(ctx); err == nil {
			t.Fatal("expected error from failed page fetch")
		}
		if got := p.Items(); len(got) != 2 {
			t.Errorf("failed page must not disturb accumulated items, got %d", len(got))
		}

		// Retryable: the next attempt fetches the same page again.
		fail = false
		if err := p.LoadMore(ctx); err != nil {
			t.Fatal(err)
		}
		if got := p.Items(); len(got) != 4 {
			t.Errorf("expected page 2 appended after retry, got %d items", len(got))
		}
	})

	t.Run("ResetStartsOver", func(t *testing.T) {
		var pages []int
		fetch := func(ctx context.Context, page, limit int) (*models.Pagination, []models.Content, error) {
			pages = append(pages, page)
			pg, items := pageOfContent(page, limit, 10)
			return pg, items, nil
		}

		p := NewPager(fetch, 2)
		p.Load(ctx)
		p.LoadMore(ctx)
		p.Reset()
		p.Load(ctx)

		want := []int{1, 2, 1}
		if len(pages) != len(want) {
			t.Fatalf("pages = %v", pages)
		}
		for i := range want {
			if pages[i] != want[i] {
				t.Errorf("request %d: page %d, want %d", i, pages[i], want[i])
			}
		}
		if got := p.Items(); len(got) != 2 {
			t.Errorf("reset then load should hold one page, got %d items", len(got))
		}
	})
}
