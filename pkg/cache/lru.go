package cache

import (
	"container/list"
	"sync"
	"time"
)

type lruEntry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time // zero means the entry never expires
}

func (e *lruEntry[K, V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// LRUCache is a thread-safe LRU cache with optional entry expiration.
type LRUCache[K comparable, V any] struct {
	capacity int
	ttl      time.Duration
	now      func() time.Time
	items    map[K]*list.Element
	eviction *list.List
	mu       sync.Mutex
}

// Option configures an LRUCache.
type Option[K comparable, V any] func(*LRUCache[K, V])

// WithTTL sets the default time-to-live applied by Put. Zero disables expiration.
func WithTTL[K comparable, V any](ttl time.Duration) Option[K, V] {
	return func(c *LRUCache[K, V]) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock[K comparable, V any](now func() time.Time) Option[K, V] {
	return func(c *LRUCache[K, V]) {
		if now != nil {
			c.now = now
		}
	}
}

// NewLRUCache creates a cache holding at most capacity entries.
// It panics when capacity is not positive.
func NewLRUCache[K comparable, V any](capacity int, opts ...Option[K, V]) *LRUCache[K, V] {
	if capacity <= 0 {
		panic("LRU cache capacity must be positive")
	}
	c := &LRUCache[K, V]{
		capacity: capacity,
		now:      time.Now,
		items:    make(map[K]*list.Element),
		eviction: list.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a live value and marks it as recently used.
func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}

	entry := elem.Value.(*lruEntry[K, V])
	if entry.expired(c.now()) {
		c.removeElement(elem)
		return zero, false
	}

	c.eviction.MoveToFront(elem)
	return entry.value, true
}

// Put stores a value that expires after the configured TTL.
// Returns the previous live value and whether it existed.
func (c *LRUCache[K, V]) Put(key K, value V) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = now.Add(c.ttl)
	}

	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*lruEntry[K, V])
		old, live := entry.value, !entry.expired(now)
		entry.value = value
		entry.expiresAt = expiresAt
		c.eviction.MoveToFront(elem)
		if !live {
			var zero V
			return zero, false
		}
		return old, true
	}

	elem := c.eviction.PushFront(&lruEntry[K, V]{key: key, value: value, expiresAt: expiresAt})
	c.items[key] = elem

	if c.eviction.Len() > c.capacity {
		c.evictOldest()
	}

	var zero V
	return zero, false
}

// Remove deletes an entry and returns its value if it was live.
func (c *LRUCache[K, V]) Remove(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}
	entry := elem.Value.(*lruEntry[K, V])
	live := !entry.expired(c.now())
	c.removeElement(elem)
	if !live {
		return zero, false
	}
	return entry.value, true
}

// Len returns the number of stored entries, including expired ones not yet accessed.
func (c *LRUCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eviction.Len()
}

// Must be called with lock held.
func (c *LRUCache[K, V]) evictOldest() {
	if elem := c.eviction.Back(); elem != nil {
		c.removeElement(elem)
	}
}

// Must be called with lock held.
func (c *LRUCache[K, V]) removeElement(elem *list.Element) {
	c.eviction.Remove(elem)
	entry := elem.Value.(*lruEntry[K, V])
	delete(c.items, entry.key)
}
