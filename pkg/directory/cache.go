package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/gatekeeper/pkg/cache"
	"github.com/dmitrymomot/gatekeeper/pkg/logger"
)

// TenantStore is a key-value cache for tenant records.
// A miss is reported as (nil, false, nil).
type TenantStore interface {
	Get(ctx context.Context, key string) (*Tenant, bool, error)
	Set(ctx context.Context, key string, t *Tenant) error
	Delete(ctx context.Context, keys ...string) error
}

// MemoryTenantStore keeps tenants in a bounded in-process LRU with TTL.
type MemoryTenantStore struct {
	lru *cache.LRUCache[string, Tenant]
}

// NewMemoryTenantStore creates an LRU-backed store. A zero ttl disables expiry.
func NewMemoryTenantStore(capacity int, ttl time.Duration) *MemoryTenantStore {
	return &MemoryTenantStore{
		lru: cache.NewLRUCache(capacity, cache.WithTTL[string, Tenant](ttl)),
	}
}

// Get returns a copy of the cached tenant.
func (s *MemoryTenantStore) Get(_ context.Context, key string) (*Tenant, bool, error) {
	t, ok := s.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	return &t, true, nil
}

// Set stores a copy of t under key.
func (s *MemoryTenantStore) Set(_ context.Context, key string, t *Tenant) error {
	s.lru.Put(key, *t)
	return nil
}

// Delete drops keys.
func (s *MemoryTenantStore) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		s.lru.Remove(k)
	}
	return nil
}

// RedisTenantStore keeps JSON-encoded tenants in Redis.
type RedisTenantStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisTenantStore creates a Redis-backed store. Keys are namespaced by prefix.
func NewRedisTenantStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisTenantStore {
	return &RedisTenantStore{client: client, prefix: prefix, ttl: ttl}
}

// Get decodes the tenant stored under key.
func (s *RedisTenantStore) Get(ctx context.Context, key string) (*Tenant, bool, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var t Tenant
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, false, err
	}
	return &t, true, nil
}

// Set encodes t under key with the store TTL.
func (s *RedisTenantStore) Set(ctx context.Context, key string, t *Tenant) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+key, raw, s.ttl).Err()
}

// Delete drops keys in one round trip.
func (s *RedisTenantStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.prefix + k
	}
	return s.client.Del(ctx, full...).Err()
}

// Cached is a read-through Directory decorator for tenant lookups.
// Only found tenants are cached; misses and user lookups always reach the
// underlying directory. Concurrent lookups of the same key are collapsed.
type Cached struct {
	next        Directory
	store       TenantStore
	group       singleflight.Group
	loadTimeout time.Duration
	logger      *slog.Logger
}

// DefaultLoadTimeout bounds a shared directory lookup.
const DefaultLoadTimeout = 5 * time.Second

// CachedOption configures Cached.
type CachedOption func(*Cached)

// WithCacheLogger sets the logger used to report cache store failures.
func WithCacheLogger(l *slog.Logger) CachedOption {
	return func(c *Cached) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithLoadTimeout bounds the directory lookup shared by collapsed callers.
func WithLoadTimeout(d time.Duration) CachedOption {
	return func(c *Cached) {
		if d > 0 {
			c.loadTimeout = d
		}
	}
}

// NewCached wraps next with a tenant cache.
func NewCached(next Directory, store TenantStore, opts ...CachedOption) *Cached {
	c := &Cached{
		next:        next,
		store:       store,
		loadTimeout: DefaultLoadTimeout,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FindTenantBySlug serves the slug lookup through the cache.
func (c *Cached) FindTenantBySlug(ctx context.Context, slug string) (*Tenant, error) {
	return c.tenant(ctx, slugKey(slug), func(ctx context.Context) (*Tenant, error) {
		return c.next.FindTenantBySlug(ctx, slug)
	})
}

// FindTenantByDomain serves the domain lookup through the cache.
func (c *Cached) FindTenantByDomain(ctx context.Context, domain string) (*Tenant, error) {
	return c.tenant(ctx, domainKey(domain), func(ctx context.Context) (*Tenant, error) {
		return c.next.FindTenantByDomain(ctx, domain)
	})
}

// FindTenantByID serves the ID lookup through the cache.
func (c *Cached) FindTenantByID(ctx context.Context, id string) (*Tenant, error) {
	return c.tenant(ctx, idKey(id), func(ctx context.Context) (*Tenant, error) {
		return c.next.FindTenantByID(ctx, id)
	})
}

// FindUserWithActiveMemberships always reaches the underlying directory.
func (c *Cached) FindUserWithActiveMemberships(ctx context.Context, userID string) (*User, error) {
	return c.next.FindUserWithActiveMemberships(ctx, userID)
}

// Invalidate drops every cached key of the given tenant records. After a
// slug or domain change pass both the previous and the updated record so
// the old keys go too. Nil records are ignored.
func (c *Cached) Invalidate(ctx context.Context, tenants ...*Tenant) error {
	var keys []string
	for _, t := range tenants {
		if t != nil {
			keys = append(keys, tenantKeys(t)...)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return c.store.Delete(ctx, keys...)
}

// tenant serves key from the store or loads it once for all concurrent
// callers. The shared load is detached from any single caller's
// cancellation; each caller still stops waiting when its own context ends.
func (c *Cached) tenant(ctx context.Context, key string, load func(context.Context) (*Tenant, error)) (*Tenant, error) {
	if t, ok, err := c.store.Get(ctx, key); err != nil {
		c.logger.WarnContext(ctx, "tenant cache read failed", slog.String("key", key), logger.Error(err))
	} else if ok {
		return t, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()

		t, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		for _, k := range tenantKeys(t) {
			if err := c.store.Set(loadCtx, k, t); err != nil {
				c.logger.WarnContext(loadCtx, "tenant cache write failed", slog.String("key", k), logger.Error(err))
				break
			}
		}
		return t, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		out := *res.Val.(*Tenant)
		return &out, nil
	}
}

func tenantKeys(t *Tenant) []string {
	keys := []string{idKey(t.ID), slugKey(t.Slug)}
	if t.Domain != "" {
		keys = append(keys, domainKey(t.Domain))
	}
	return keys
}

func idKey(id string) string         { return fmt.Sprintf("tenant:id:%s", id) }
func slugKey(slug string) string     { return fmt.Sprintf("tenant:slug:%s", strings.ToLower(slug)) }
func domainKey(domain string) string { return fmt.Sprintf("tenant:domain:%s", strings.ToLower(domain)) }
