package query

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/sandwipshanto/relevant/internal/shared"
)

// FetchFunc performs the remote read for one query identity.
type FetchFunc func(ctx context.Context) (any, error)

// RetryPredicate reports whether a failed read should be retried.
type RetryPredicate func(error) bool

type entry struct {
	value     any
	hasValue  bool
	fetchedAt time.Time
	// appliedSeq is the issue number of the fetch that produced value.
	// latestSeq is the issue number handed to the most recent fetch. A
	// resolution with a sequence at or below appliedSeq lost the race to a
	// later fetch and is discarded.
	appliedSeq uint64
	latestSeq  uint64
}

// Cache is the request cache keyed by query identity.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group
	retries int
	retryIf RetryPredicate
	logger  *log.Logger

	// ctx bounds background refreshes so they die with the cache, not with
	// whichever consumer happened to trigger them.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Options configures a [Cache].
type Options struct {
	// Retries is the fixed retry count for failed reads. Applies to reads
	// only; mutations never retry.
	Retries int
	// RetryIf filters which errors are worth retrying. Defaults to retrying
	// everything except context cancellation.
	RetryIf RetryPredicate
	Logger  *log.Logger
}

// NewCache creates a Cache. Call Close to stop background refreshes.
func NewCache(opts Options) *Cache {
	if opts.RetryIf == nil {
		opts.RetryIf = func(err error) bool {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Cache{
		entries: make(map[string]*entry),
		retries: opts.Retries,
		retryIf: opts.RetryIf,
		logger:  opts.Logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Close cancels background refreshes and waits for them to finish.
func (c *Cache) Close() {
	c.cancel()
	c.wg.Wait()
}

// Fetch returns the cached value for key when younger than ttl. A stale value
// is returned immediately while a background refetch runs. With no cached
// value the fetch blocks; concurrent fetches for the same identity share one
// request.
func (c *Cache) Fetch(ctx context.Context, key Key, ttl time.Duration, fn FetchFunc) (any, error) {
	id := key.String()

	c.mu.Lock()
	e, ok := c.entries[id]
	if !ok {
		e = &entry{}
		c.entries[id] = e
	}

	if e.hasValue {
		age := time.Since(e.fetchedAt)
		value := e.value
		stale := ttl > 0 && age >= ttl
		c.mu.Unlock()

		if stale {
			c.refreshInBackground(key, fn)
		}
		return value, nil
	}

	seq := e.latestSeq + 1
	e.latestSeq = seq
	c.mu.Unlock()

	return c.fetch(ctx, id, seq, fn)
}

// Invalidate drops the value of every entry under the given key prefixes,
// forcing a refetch on next access. Mutation callers enumerate here every
// query their write could have changed.
//
// The entry itself survives so its sequence counters keep working: every
// fetch issued before the invalidation is marked superseded, and the
// in-flight singleflight call is forgotten, so a read arriving after the
// invalidation can never be served pre-mutation data.
func (c *Cache) Invalidate(prefixes ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, e := range c.entries {
		key := parseKey(id)
		for _, prefix := range prefixes {
			if key.HasPrefix(prefix) {
				e.value = nil
				e.hasValue = false
				e.appliedSeq = e.latestSeq
				c.group.Forget(id)
				break
			}
		}
	}
}

// Mutate runs a write operation and, on success, invalidates the declared
// key prefixes. Mutations are never retried.
func (c *Cache) Mutate(ctx context.Context, invalidates []Key, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	c.Invalidate(invalidates...)
	return nil
}

// fetch performs the deduplicated read and applies the result under the
// sequence guard.
func (c *Cache) fetch(ctx context.Context, id string, seq uint64, fn FetchFunc) (any, error) {
	value, err, _ := c.group.Do(id, func() (any, error) {
		return c.fetchWithRetry(ctx, fn)
	})
	if err != nil {
		return nil, err
	}

	c.apply(id, seq, value)
	return value, nil
}

func (c *Cache) fetchWithRetry(ctx context.Context, fn FetchFunc) (any, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		value, err := fn(ctx)
		if err == nil {
			return value, nil
		}
		lastErr = err
		if !c.retryIf(err) {
			break
		}
	}
	return nil, fmt.Errorf("read failed after retries: %w", lastErr)
}

// apply stores a fetch result unless a later fetch already resolved.
func (c *Cache) apply(id string, seq uint64, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		e = &entry{latestSeq: seq}
		c.entries[id] = e
	}

	if seq <= e.appliedSeq {
		c.logger.Debug("discarding superseded response", "key", id, "seq", seq, "applied", e.appliedSeq)
		return
	}

	e.value = value
	e.hasValue = true
	e.fetchedAt = time.Now()
	e.appliedSeq = seq
}

func (c *Cache) refreshInBackground(key Key, fn FetchFunc) {
	id := key.String()

	c.mu.Lock()
	e, ok := c.entries[id]
	if !ok {
		c.mu.Unlock()
		return
	}
	seq := e.latestSeq + 1
	e.latestSeq = seq
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if _, err := c.fetch(c.ctx, id, seq, fn); err != nil {
			c.logger.Debug("background refresh failed", "key", id, "err", err)
		}
	}()
}

// parseKey reverses Key.String for prefix matching of stored identities.
func parseKey(id string) Key {
	parts := strings.Split(id, keySep)
	return Key{Name: parts[0], Params: parts[1:]}
}

// FetchAs is the typed wrapper over [Cache.Fetch].
func FetchAs[T any](ctx context.Context, c *Cache, key Key, ttl time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	value, err := c.Fetch(ctx, key, ttl, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cached value for %q has unexpected type %T", key.String(), value)
	}
	return typed, nil
}
