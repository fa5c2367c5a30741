package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/dmitrymomot/gatekeeper/pkg/logger"
)

// Check verifies one dependency.
type Check func(ctx context.Context) error

// HealthHandler reports liveness when checks is empty, readiness otherwise.
// Each named check runs with timeout; any failure yields 503. The body lists
// the state of every check.
func HealthHandler(log *slog.Logger, timeout time.Duration, checks map[string]Check) http.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		body := struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks,omitempty"`
		}{Status: "ok"}
		code := http.StatusOK

		if len(names) > 0 {
			body.Checks = make(map[string]string, len(names))
			ctx := r.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			for _, name := range names {
				if err := checks[name](ctx); err != nil {
					log.WarnContext(ctx, "readiness check failed", slog.String("check", name), logger.Error(err))
					body.Checks[name] = "failed"
					body.Status = "unavailable"
					code = http.StatusServiceUnavailable
					continue
				}
				body.Checks[name] = "ok"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(body)
	}
}
