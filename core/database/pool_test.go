package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var errUnknownEnv = errors.New("unknown environment")

type mapResolver map[string]Config

func (m mapResolver) Resolve(name string) (Config, error) {
	cfg, ok := m[name]
	if !ok {
		return Config{}, fmt.Errorf("%w: %s", errUnknownEnv, name)
	}
	return cfg, nil
}

type countingConnector struct {
	mu    sync.Mutex
	calls map[string]int
}

func (c *countingConnector) connect(cfg Config) (*gorm.DB, error) {
	c.mu.Lock()
	if c.calls == nil {
		c.calls = make(map[string]int)
	}
	c.calls[cfg.Name]++
	c.mu.Unlock()
	return Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
}

func (c *countingConnector) count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[name]
}

// fakeClock returns strictly increasing times.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(time.Second)
	return f.now
}

func newTestPool(t *testing.T, size int) (*Pool, *countingConnector) {
	resolver := mapResolver{
		"dev":  {Driver: DriverSQLite, Name: "dev"},
		"qa":   {Driver: DriverSQLite, Name: "qa"},
		"prod": {Driver: DriverSQLite, Name: "prod"},
	}
	conn := &countingConnector{}
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	pool := NewPool(resolver, PoolOptions{
		Size:    size,
		Connect: conn.connect,
		Now:     clock.Now,
	})
	t.Cleanup(func() { _ = pool.Close() })
	return pool, conn
}

func TestPool_ReusesHandle(t *testing.T) {
	pool, conn := newTestPool(t, 2)
	ctx := context.Background()

	first, err := pool.Acquire(ctx, "dev")
	require.NoError(t, err)
	pool.Release("dev", first)

	second, err := pool.Acquire(ctx, "dev")
	require.NoError(t, err)
	pool.Release("dev", second)

	assert.Same(t, first, second)
	assert.Equal(t, 1, conn.count("dev"))
	assert.Equal(t, 1, pool.Len())
}

func TestPool_EvictsLeastRecentlyUsed(t *testing.T) {
	pool, conn := newTestPool(t, 2)
	ctx := context.Background()

	use := func(name string) {
		db, err := pool.Acquire(ctx, name)
		require.NoError(t, err)
		pool.Release(name, db)
	}

	use("dev")
	use("qa")
	use("dev") // qa is now the least recently used
	use("prod")

	assert.Equal(t, 2, pool.Len())
	assert.True(t, pool.Has("dev"))
	assert.False(t, pool.Has("qa"))
	assert.True(t, pool.Has("prod"))

	use("qa")
	assert.Equal(t, 2, conn.count("qa"), "evicted environment reconnects")
}

func TestPool_DoesNotEvictInUse(t *testing.T) {
	pool, _ := newTestPool(t, 1)
	ctx := context.Background()

	dev, err := pool.Acquire(ctx, "dev")
	require.NoError(t, err)
	qa, err := pool.Acquire(ctx, "qa")
	require.NoError(t, err)

	assert.Equal(t, 2, pool.Len())

	pool.Release("dev", dev)
	pool.Release("qa", qa)

	prod, err := pool.Acquire(ctx, "prod")
	require.NoError(t, err)
	pool.Release("prod", prod)
	assert.Equal(t, 1, pool.Len())
	assert.True(t, pool.Has("prod"))
}

func TestPool_ReconnectsAfterFailedPing(t *testing.T) {
	pool, conn := newTestPool(t, 2)
	ctx := context.Background()

	stale, err := pool.Acquire(ctx, "dev")
	require.NoError(t, err)
	pool.Release("dev", stale)

	require.NoError(t, Close(stale))

	fresh, err := pool.Acquire(ctx, "dev")
	require.NoError(t, err)
	pool.Release("dev", fresh)

	assert.NotSame(t, stale, fresh)
	assert.Equal(t, 2, conn.count("dev"))
	assert.NoError(t, Ping(ctx, fresh))
}

func TestPool_DiscardKeepsSharedHandleOpen(t *testing.T) {
	pool, conn := newTestPool(t, 2)
	ctx := context.Background()

	shared, err := pool.Acquire(ctx, "dev")
	require.NoError(t, err)
	entry := pool.entries["dev"]
	entry.inUse++ // a second caller holds the same handle

	pool.discard("dev", entry)
	assert.False(t, pool.Has("dev"))
	assert.NoError(t, Ping(ctx, shared), "handle still in use must stay open")

	fresh, err := pool.Acquire(ctx, "dev")
	require.NoError(t, err)
	assert.NotSame(t, shared, fresh)
	assert.Equal(t, 2, conn.count("dev"))

	pool.Release("dev", fresh)
	assert.NoError(t, Ping(ctx, shared), "releasing the fresh handle leaves the old one alone")

	pool.Release("dev", shared)
	assert.Error(t, Ping(ctx, shared))
	assert.NoError(t, Ping(ctx, fresh))
	assert.Empty(t, pool.retired)
}

func TestPool_DiscardClosesUnsharedHandle(t *testing.T) {
	pool, _ := newTestPool(t, 2)
	ctx := context.Background()

	db, err := pool.Acquire(ctx, "dev")
	require.NoError(t, err)

	pool.discard("dev", pool.entries["dev"])
	assert.Error(t, Ping(ctx, db))
	assert.Empty(t, pool.retired)

	pool.Release("dev", db)
	assert.Equal(t, 0, pool.Len())
}

func TestPool_UnknownEnvironment(t *testing.T) {
	pool, _ := newTestPool(t, 2)

	_, err := pool.Acquire(context.Background(), "staging")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errUnknownEnv))
	assert.Equal(t, 0, pool.Len())
}

func TestPool_ConnectError(t *testing.T) {
	pool := NewPool(mapResolver{"dev": {}}, PoolOptions{
		Connect: func(Config) (*gorm.DB, error) { return nil, errors.New("refused") },
	})

	_, err := pool.Acquire(context.Background(), "dev")
	require.Error(t, err)
	assert.Equal(t, "environment dev: refused", err.Error())
}

func TestPool_Close(t *testing.T) {
	pool, _ := newTestPool(t, 2)
	ctx := context.Background()

	db, err := pool.Acquire(ctx, "dev")
	require.NoError(t, err)
	pool.Release("dev", db)

	require.NoError(t, pool.Close())
	assert.Equal(t, 0, pool.Len())
	assert.Error(t, Ping(ctx, db))

	_, err = pool.Acquire(ctx, "dev")
	assert.True(t, errors.Is(err, ErrPoolClosed))
}

func TestPool_ConcurrentAcquire(t *testing.T) {
	pool, _ := newTestPool(t, 3)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 30)
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := []string{"dev", "qa", "prod"}[i%3]
			db, err := pool.Acquire(ctx, name)
			if err != nil {
				errs <- err
				return
			}
			pool.Release(name, db)
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected error: %v", err)
	}
	assert.Equal(t, 3, pool.Len())
}
