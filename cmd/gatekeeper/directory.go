package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/gatekeeper/pkg/directory"
	"github.com/dmitrymomot/gatekeeper/pkg/httpserver"
	"github.com/dmitrymomot/gatekeeper/pkg/logger"
	"github.com/dmitrymomot/gatekeeper/pkg/pg"
	"github.com/dmitrymomot/gatekeeper/pkg/redis"
)

// backend is the directory the server reads through, with the readiness
// checks and cleanup of whatever connections it opened.
type backend struct {
	dir     directory.Directory
	checks  map[string]httpserver.Check
	closers []func()
}

// Close releases connections in reverse order of opening.
func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func openBackend(ctx context.Context, cfg appConfig, log *slog.Logger) (*backend, error) {
	b := &backend{checks: make(map[string]httpserver.Check)}

	switch cfg.Store {
	case storeMemory:
		mem := directory.NewMemory()
		if err := seedMemory(mem); err != nil {
			return nil, err
		}
		b.dir = mem
		log.InfoContext(ctx, "using in-memory directory with demo data")

	case storePostgres:
		pgcfg, err := pgConfig()
		if err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, pgcfg)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)
		if err := pg.MigrateFS(ctx, pool, directory.Migrations(), pgcfg, log); err != nil {
			b.Close()
			return nil, err
		}
		b.dir = directory.NewPostgres(pool)
		b.checks["postgres"] = pg.Healthcheck(pool, directory.Tables...)

	default:
		return nil, fmt.Errorf("unknown directory store %q", cfg.Store)
	}

	switch cfg.Cache {
	case cacheNone, "":
	case cacheMemory:
		b.dir = directory.NewCached(b.dir,
			directory.NewMemoryTenantStore(cfg.CacheSize, cfg.CacheTTL),
			directory.WithCacheLogger(log))

	case cacheRedis:
		rcfg, err := redisConfig()
		if err != nil {
			b.Close()
			return nil, err
		}
		client, err := redis.Connect(ctx, rcfg)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, func() {
			if err := client.Close(); err != nil {
				log.Error("failed to close redis client", logger.Error(err))
			}
		})
		b.dir = directory.NewCached(b.dir, redisTenantStore(cfg, client), directory.WithCacheLogger(log))
		b.checks["redis"] = redis.Healthcheck(client)

	default:
		b.Close()
		return nil, fmt.Errorf("unknown tenant cache %q", cfg.Cache)
	}

	return b, nil
}

// redisTenantStore is shared by every process of the service, so keys are
// namespaced by the service name.
func redisTenantStore(cfg appConfig, client goredis.UniversalClient) *directory.RedisTenantStore {
	return directory.NewRedisTenantStore(client, cfg.ServiceName+":", cfg.CacheTTL)
}

// ignoreDuplicate makes seeding idempotent.
func ignoreDuplicate(err error) error {
	if err == nil || errors.Is(err, directory.ErrDuplicateSlug) ||
		errors.Is(err, directory.ErrDuplicateDomain) || pg.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}
