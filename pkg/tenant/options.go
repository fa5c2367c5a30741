package tenant

import (
	"log/slog"
	"strings"

	"github.com/dmitrymomot/gatekeeper/pkg/jwt"
)

// DefaultHeaderName is the header read by the Header strategy.
const DefaultHeaderName = "X-Tenant-ID"

// DefaultReservedLabels are subdomain labels that never name a tenant.
var DefaultReservedLabels = []string{"www", "app", "admin", "api", "_next", "static"}

// Option configures a Resolver.
type Option func(*Resolver)

// WithAppDomain sets the application domain, e.g. "app.example".
func WithAppDomain(domain string) Option {
	return func(r *Resolver) {
		r.appDomain = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(domain)), ".")
	}
}

// WithReservedLabels replaces the reserved subdomain labels.
func WithReservedLabels(labels ...string) Option {
	return func(r *Resolver) {
		r.reserved = make(map[string]struct{}, len(labels))
		for _, l := range labels {
			if l = strings.ToLower(strings.TrimSpace(l)); l != "" {
				r.reserved[l] = struct{}{}
			}
		}
	}
}

// WithHeaderName sets the tenant ID header name.
func WithHeaderName(name string) Option {
	return func(r *Resolver) {
		if name != "" {
			r.headerName = name
		}
	}
}

// WithVerifier enables the credential-based strategies.
func WithVerifier(v jwt.Verifier) Option {
	return func(r *Resolver) {
		r.verifier = v
	}
}

// WithExtractor overrides where credentials are read from.
func WithExtractor(fn jwt.TokenExtractorFunc) Option {
	return func(r *Resolver) {
		if fn != nil {
			r.extractor = fn
		}
	}
}

// WithRequireActive controls whether inactive tenants count as missing. Enabled by default.
func WithRequireActive(require bool) Option {
	return func(r *Resolver) {
		r.requireActive = require
	}
}

// WithStrategies replaces the strategy list.
func WithStrategies(strategies ...Strategy) Option {
	return func(r *Resolver) {
		r.strategies = make([]Strategy, 0, len(strategies))
		for _, s := range strategies {
			if s != nil {
				r.strategies = append(r.strategies, s)
			}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}
