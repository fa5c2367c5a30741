package rbac

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/gatekeeper/pkg/i18n"
	"github.com/dmitrymomot/gatekeeper/pkg/logger"
	"github.com/dmitrymomot/gatekeeper/pkg/pipeline"
)

// DefaultAccessDeniedPath is the locale-relative route users are sent to when denied.
const DefaultAccessDeniedPath = "/access-denied"

// StageOption configures Stage.
type StageOption func(*stageConfig)

type stageConfig struct {
	deniedPath string
	logger     *slog.Logger
}

// WithAccessDeniedPath sets the locale-relative access-denied route.
func WithAccessDeniedPath(p string) StageOption {
	return func(c *stageConfig) {
		if p = NormalizePrefix(p); p != "" {
			c.deniedPath = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) StageOption {
	return func(c *stageConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Stage authorizes localized page requests against the route table.
//
// It needs the locale and the path without locale in the state. When either
// is missing, or no principal was established, the request continues: those
// requests are gated by earlier stages. An authenticated principal without a
// role is checked like any other role and is denied by every matched route.
// A denial redirects with 307 to /{locale}/access-denied?from=<original path>.
func Stage(table *RouteTable, opts ...StageOption) pipeline.Middleware {
	cfg := &stageConfig{
		deniedPath: DefaultAccessDeniedPath,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(r *http.Request, st *pipeline.State) (pipeline.Result, error) {
		ctx := r.Context()

		if st.Locale == "" || st.PathWithoutLocale == "" || (st.Role == "" && !st.Authenticated()) {
			level := slog.LevelWarn
			if st.Locale == "" {
				level = slog.LevelDebug
			}
			cfg.logger.Log(ctx, level, "skipping page authorization: incomplete request state",
				logger.Path(r.URL.Path),
				slog.Bool("has_locale", st.Locale != ""),
				slog.Bool("has_path", st.PathWithoutLocale != ""),
				slog.Bool("has_principal", st.Authenticated()),
			)
			return pipeline.Continue(), nil
		}

		if matches(st.PathWithoutLocale, cfg.deniedPath) {
			return pipeline.Continue(), nil
		}

		allowed, matched := table.Allowed(st.PathWithoutLocale, st.Role)
		if !matched || allowed {
			return pipeline.Continue(), nil
		}

		cfg.logger.InfoContext(ctx, "page access denied",
			logger.Path(r.URL.Path),
			logger.UserID(st.UserID),
			logger.Role(st.Role),
		)
		target := i18n.LocalizedPath(st.Locale, cfg.deniedPath) + "?" + url.Values{"from": {r.URL.Path}}.Encode()
		return pipeline.Terminate(pipeline.TemporaryRedirect(target)), nil
	}
}
