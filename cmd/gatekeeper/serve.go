package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dmitrymomot/gatekeeper"
	"github.com/dmitrymomot/gatekeeper/pkg/httpserver"
	"github.com/dmitrymomot/gatekeeper/pkg/jwt"
	"github.com/dmitrymomot/gatekeeper/pkg/logger"
	"github.com/dmitrymomot/gatekeeper/pkg/telemetry"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	shutdown, err := telemetry.Init(cfg.Telemetry, os.Stdout, log)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			log.Error("failed to shutdown telemetry", logger.Error(err))
		}
	}()

	b, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	gk, err := gatekeeper.New(cfg.Gatekeeper, b.dir, gatekeeper.WithLogger(log))
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)

	r.Get("/healthz", httpserver.HealthHandler(log, 0, nil))
	r.Get("/readyz", httpserver.HealthHandler(log, 2*time.Second, b.checks))

	r.Group(func(r chi.Router) {
		r.Use(gk.Handler())
		r.With(jwt.Middleware(gk.Tokens())).Get("/api/whoami", whoamiHandler)
		r.Get("/*", pageHandler)
	})

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, otelhttp.NewHandler(r, cfg.ServiceName))
}
