// Package httpserver runs an http.Server with sane timeouts and graceful
// shutdown driven by a context.
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server stopped", logger.Error(err))
//	}
//
// HealthHandler serves liveness and readiness checks from a set of named
// dependency checks such as pg.Healthcheck and redis.Healthcheck.
package httpserver
