// Package pg bootstraps the PostgreSQL connection pool behind the directory
// store.
//
// Connect opens a pgx pool with retries, MigrateFS applies goose migrations
// from an embedded filesystem, and Healthcheck returns a check for the
// health endpoint. The error helpers classify pgx errors so that stores can
// map them onto their own sentinels:
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	if err := pg.MigrateFS(ctx, pool, directory.Migrations(), cfg, log); err != nil {
//		return err
//	}
package pg
