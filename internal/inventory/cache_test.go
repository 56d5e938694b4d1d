package inventory_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landscape-community/landscape-mcp/internal/inventory"
	"github.com/landscape-community/landscape-mcp/pkg/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCacheServesSnapshotUntilTTL(t *testing.T) {
	clock := &fakeClock{now: scenarioNow}
	var calls atomic.Int32
	cache := inventory.NewCache(func(context.Context) ([]models.Machine, error) {
		calls.Add(1)
		return []models.Machine{{ID: "1", Hostname: "prod-web-01"}}, nil
	}, inventory.WithClock(clock.Now))

	first, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, scenarioNow, first.FetchedAt)

	clock.Advance(inventory.DefaultTTL - time.Second)
	second, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.EqualValues(t, 1, calls.Load())

	clock.Advance(time.Second)
	third, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.EqualValues(t, 2, calls.Load())
}

func TestCacheDoesNotStoreFailures(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	var hooked []error
	cache := inventory.NewCache(func(context.Context) ([]models.Machine, error) {
		if fail.Load() {
			return nil, errors.New("connection refused")
		}
		return []models.Machine{{ID: "1"}}, nil
	}, inventory.WithFetchHook(func(_ time.Duration, err error) { hooked = append(hooked, err) }))

	_, err := cache.Get(context.Background())
	require.EqualError(t, err, "connection refused")
	assert.Nil(t, cache.Peek())

	fail.Store(false)
	snap, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Machines, 1)
	require.Len(t, hooked, 2)
	assert.Error(t, hooked[0])
	assert.NoError(t, hooked[1])
}

func TestCacheInvalidate(t *testing.T) {
	var calls atomic.Int32
	cache := inventory.NewCache(func(context.Context) ([]models.Machine, error) {
		calls.Add(1)
		return nil, nil
	})

	_, err := cache.Get(context.Background())
	require.NoError(t, err)
	cache.Invalidate()
	_, err = cache.Get(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())
}

func TestCacheCollapsesConcurrentMisses(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	cache := inventory.NewCache(func(context.Context) ([]models.Machine, error) {
		calls.Add(1)
		<-release
		return []models.Machine{{ID: "1"}}, nil
	})

	const callers = 8
	var wg sync.WaitGroup
	snaps := make([]*inventory.Snapshot, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := cache.Get(context.Background())
			assert.NoError(t, err)
			snaps[i] = s
		}()
	}

	// Give the callers time to pile up on the in-flight fetch.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
	for _, s := range snaps {
		assert.Same(t, snaps[0], s)
	}
}
