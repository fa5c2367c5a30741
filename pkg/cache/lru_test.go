package cache_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekeeper/pkg/cache"
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

func TestLRUCache_Basic(t *testing.T) {
	t.Parallel()

	t.Run("put and get", func(t *testing.T) {
		t.Parallel()

		c := cache.NewLRUCache[string, int](3)
		c.Put("a", 1)
		c.Put("b", 2)

		val, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 1, val)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("update returns previous value", func(t *testing.T) {
		t.Parallel()

		c := cache.NewLRUCache[string, int](3)
		c.Put("a", 1)
		old, existed := c.Put("a", 2)

		assert.True(t, existed)
		assert.Equal(t, 1, old)

		val, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 2, val)
	})

	t.Run("panics on non-positive capacity", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() { cache.NewLRUCache[string, int](0) })
	})
}

func TestLRUCache_Eviction(t *testing.T) {
	t.Parallel()

	c := cache.NewLRUCache[string, int](2)
	c.Put("a", 1)
	c.Put("b", 2)
	_, _ = c.Get("a") // "b" becomes least recently used
	c.Put("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())

	removed, ok := c.Remove("a")
	assert.True(t, ok)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, c.Len())

	_, ok = c.Remove("a")
	assert.False(t, ok)
}

func TestLRUCache_TTL(t *testing.T) {
	t.Parallel()

	t.Run("expired entries are absent", func(t *testing.T) {
		t.Parallel()

		clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
		c := cache.NewLRUCache(10,
			cache.WithTTL[string, int](time.Minute),
			cache.WithClock[string, int](clock.Now),
		)

		c.Put("a", 1)
		clock.Advance(59 * time.Second)
		_, ok := c.Get("a")
		require.True(t, ok)

		clock.Advance(time.Second)
		_, ok = c.Get("a")
		assert.False(t, ok)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("zero ttl never expires", func(t *testing.T) {
		t.Parallel()

		clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
		c := cache.NewLRUCache(10, cache.WithClock[string, int](clock.Now))

		c.Put("a", 1)
		clock.Advance(24 * time.Hour)
		_, ok := c.Get("a")
		assert.True(t, ok)
	})

	t.Run("expired entries are not returned by Remove", func(t *testing.T) {
		t.Parallel()

		clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
		c := cache.NewLRUCache(10,
			cache.WithTTL[string, int](time.Minute),
			cache.WithClock[string, int](clock.Now),
		)

		c.Put("a", 1)
		clock.Advance(2 * time.Minute)
		_, ok := c.Remove("a")
		assert.False(t, ok)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("overwriting an expired entry reports no previous value", func(t *testing.T) {
		t.Parallel()

		clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
		c := cache.NewLRUCache(10,
			cache.WithTTL[string, int](time.Minute),
			cache.WithClock[string, int](clock.Now),
		)

		c.Put("a", 1)
		clock.Advance(time.Hour)
		_, existed := c.Put("a", 2)
		assert.False(t, existed)
	})
}

func TestLRUCache_Concurrent(t *testing.T) {
	t.Parallel()

	c := cache.NewLRUCache[int, int](50)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 100 {
				c.Put(n*100+j, j)
				c.Get(n*100 + j)
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 50)
}
