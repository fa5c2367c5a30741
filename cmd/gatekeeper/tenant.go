package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/gatekeeper/pkg/directory"
	"github.com/dmitrymomot/gatekeeper/pkg/logger"
	"github.com/dmitrymomot/gatekeeper/pkg/pg"
	"github.com/dmitrymomot/gatekeeper/pkg/redis"
)

func tenantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Manage tenants in the PostgreSQL directory",
	}
	cmd.AddCommand(
		setActiveCmd("activate", "Allow requests to resolve the tenant", true),
		setActiveCmd("deactivate", "Stop requests from resolving the tenant", false),
	)
	return cmd
}

func setActiveCmd(use, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <slug>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			pgcfg, err := pgConfig()
			if err != nil {
				return err
			}
			pool, err := pg.Connect(ctx, pgcfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			dir := directory.NewPostgres(pool)
			t, err := dir.SetTenantActive(ctx, args[0], active)
			if err != nil {
				return err
			}
			log.InfoContext(ctx, "tenant updated",
				logger.TenantID(t.ID),
				slog.String("slug", t.Slug),
				slog.Bool("active", t.IsActive),
			)
			return invalidateTenant(ctx, cfg, log, dir, t)
		},
	}
}

// invalidateTenant evicts t from the shared Redis cache. In-process caches of
// running servers pick up the change once TENANT_CACHE_TTL passes.
func invalidateTenant(ctx context.Context, cfg appConfig, log *slog.Logger, dir directory.Directory, t *directory.Tenant) error {
	if cfg.Cache != cacheRedis {
		log.InfoContext(ctx, "tenant cache is process-local, running servers see the change after ttl",
			slog.Duration("ttl", cfg.CacheTTL),
		)
		return nil
	}

	rcfg, err := redisConfig()
	if err != nil {
		return err
	}
	client, err := redis.Connect(ctx, rcfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Error("failed to close redis client", logger.Error(err))
		}
	}()

	return directory.NewCached(dir, redisTenantStore(cfg, client), directory.WithCacheLogger(log)).Invalidate(ctx, t)
}
