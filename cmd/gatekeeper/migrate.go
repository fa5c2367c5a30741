package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/gatekeeper/pkg/directory"
	"github.com/dmitrymomot/gatekeeper/pkg/pg"
)

func migrateCmd() *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply directory migrations to PostgreSQL",
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			if err := pg.MigrateFS(ctx, pool, directory.Migrations(), pgcfg, log); err != nil {
				return err
			}
			if !seed {
				return nil
			}
			if err := seedPostgres(ctx, directory.NewPostgres(pool)); err != nil {
				return err
			}
			log.InfoContext(ctx, "demo directory seeded")
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "insert demo tenants, users and memberships")
	return cmd
}
