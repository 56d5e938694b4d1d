package inventory

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/landscape-community/landscape-mcp/pkg/models"
)

// DefaultTTL is how long a snapshot is served before it is refetched.
const DefaultTTL = 5 * time.Minute

// Snapshot is one complete fetch of the fleet. It is never modified after
// creation; readers may share it freely.
type Snapshot struct {
	Machines  []models.Machine `json:"machines"`
	FetchedAt time.Time        `json:"fetched_at"`
}

// FetchFunc retrieves the full machine list from the remote source.
type FetchFunc func(ctx context.Context) ([]models.Machine, error)

// Cache serves a snapshot of the fleet, refetching it once it is older
// than the TTL. Concurrent misses share a single fetch. A failed fetch is
// returned to every waiting caller and nothing is stored.
type Cache struct {
	fetch   FetchFunc
	ttl     time.Duration
	now     func() time.Time
	onFetch func(d time.Duration, err error)

	current atomic.Pointer[Snapshot]
	group   singleflight.Group
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithTTL overrides DefaultTTL. Non-positive values disable caching.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) { c.ttl = ttl }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

// WithFetchHook is called after every fetch with its duration and result.
func WithFetchHook(fn func(d time.Duration, err error)) CacheOption {
	return func(c *Cache) { c.onFetch = fn }
}

// NewCache returns a cache over fetch.
func NewCache(fetch FetchFunc, opts ...CacheOption) *Cache {
	c := &Cache{
		fetch: fetch,
		ttl:   DefaultTTL,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the current snapshot if it is still fresh, and fetches a new
// one otherwise.
func (c *Cache) Get(ctx context.Context) (*Snapshot, error) {
	if s := c.current.Load(); s != nil && c.fresh(s) {
		return s, nil
	}

	v, err, _ := c.group.Do("snapshot", func() (any, error) {
		// Another caller may have refreshed while we waited.
		if s := c.current.Load(); s != nil && c.fresh(s) {
			return s, nil
		}

		start := c.now()
		machines, err := c.fetch(ctx)
		if c.onFetch != nil {
			c.onFetch(c.now().Sub(start), err)
		}
		if err != nil {
			return nil, err
		}

		s := &Snapshot{Machines: machines, FetchedAt: c.now()}
		c.current.Store(s)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Peek returns the stored snapshot without fetching, or nil.
func (c *Cache) Peek() *Snapshot {
	return c.current.Load()
}

// Invalidate drops the stored snapshot so the next Get refetches.
func (c *Cache) Invalidate() {
	c.current.Store(nil)
}

func (c *Cache) fresh(s *Snapshot) bool {
	return c.ttl > 0 && c.now().Sub(s.FetchedAt) < c.ttl
}
