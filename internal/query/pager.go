package query

import (
	"context"
	"sync"

	"github.com/sandwipshanto/relevant/internal/models"
)

// PageFunc fetches one page of content from the backend.
type PageFunc func(ctx context.Context, page, limit int) (*models.Pagination, []models.Content, error)

// Pager accumulates pages of content for incremental display. Page 1
// replaces the accumulated list; later pages append. Advancing is gated
// by an in-flight flag and the server's has-more signal so a page is
// never requested twice.
type Pager struct {
	mu       sync.Mutex
	fetch    PageFunc
	limit    int
	items    []models.Content
	page     int
	hasMore  bool
	inFlight bool
	loaded   bool
}

func NewPager(fetch PageFunc, limit int) *Pager {
	return &Pager{fetch: fetch, limit: limit, hasMore: true}
}

// Reset discards accumulated items so the next Load starts at page 1.
func (p *Pager) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = nil
	p.page = 0
	p.hasMore = true
	p.loaded = false
}

// Items returns a copy of the accumulated content in display order.
func (p *Pager) Items() []models.Content {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Content, len(p.items))
	copy(out, p.items)
	return out
}

// HasMore reports whether the server indicated further pages exist.
func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Loading reports whether a page request is currently in flight.
func (p *Pager) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight
}

// Patch overwrites the interaction overlay on one accumulated item after a
// mutation round trip confirmed new server state.
func (p *Pager) Patch(id string, uc *models.UserContent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.items {
		if p.items[i].ID == id {
			p.items[i].UserContent = uc
			return
		}
	}
}

// Remove drops one accumulated item, keeping display order.
func (p *Pager) Remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.items {
		if p.items[i].ID == id {
			p.items = append(p.items[:i], p.items[i+1:]...)
			return
		}
	}
}

// Load fetches the first page, replacing any accumulated items.
func (p *Pager) Load(ctx context.Context) error {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return nil
	}
	p.inFlight = true
	p.mu.Unlock()

	pg, items, err := p.fetch(ctx, 1, p.limit)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight = false
	if err != nil {
		return err
	}
	p.items = items
	p.page = 1
	p.loaded = true
	p.hasMore = pg != nil && pg.HasMore
	return nil
}

// LoadMore fetches the next page and appends its items. It is a no-op
// when a request is already in flight, when no pages remain, or when
// Load has not yet succeeded.
func (p *Pager) LoadMore(ctx context.Context) error {
	p.mu.Lock()
	if p.inFlight || !p.hasMore || !p.loaded {
		p.mu.Unlock()
		return nil
	}
	p.inFlight = true
	next := p.page + 1
	p.mu.Unlock()

	pg, items, err := p.fetch(ctx, next, p.limit)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight = false
	if err != nil {
		return err
	}
	p.items = append(p.items, items...)
	p.page = next
	p.hasMore = pg != nil && pg.HasMore
	return nil
}
