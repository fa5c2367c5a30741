// Package cache provides a generic, thread-safe LRU cache with optional
// per-entry expiration.
//
// The cache evicts the least recently used entry once it reaches capacity.
// Entries may carry a time-to-live; expired entries are treated as absent and
// are dropped lazily on access.
//
// # Usage
//
//	c := cache.NewLRUCache[string, *directory.Tenant](1000, cache.WithTTL[string, *directory.Tenant](5*time.Minute))
//
//	c.Put("slug:acme", tenant)
//	if t, ok := c.Get("slug:acme"); ok {
//		// use t
//	}
package cache
