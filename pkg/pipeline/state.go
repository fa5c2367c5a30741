package pipeline

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// State is the typed per-request context filled in by pipeline stages.
// Zero values mean "not resolved".
type State struct {
	// StartedAt is the monotonic start time recorded by the metrics stage.
	StartedAt time.Time

	// TenantID is the resolved tenant; empty for tenant-less requests.
	TenantID string

	// Locale is the active locale detected from the URL path.
	Locale string

	// PathWithoutLocale is the request path with the locale prefix stripped.
	PathWithoutLocale string

	// UserID identifies the authenticated principal.
	UserID string

	// Role is the principal's effective role for the active tenant.
	Role string

	onComplete []func(status int)
}

// OnComplete registers fn to run once the response has been written.
// The adapter passes the final status code.
func (s *State) OnComplete(fn func(status int)) {
	if fn != nil {
		s.onComplete = append(s.onComplete, fn)
	}
}

func (s *State) complete(status int) {
	for _, fn := range s.onComplete {
		fn(status)
	}
}

// HasTenant reports whether a tenant was resolved.
func (s *State) HasTenant() bool {
	return s.TenantID != ""
}

// Authenticated reports whether a principal was established.
func (s *State) Authenticated() bool {
	return s.UserID != ""
}

// Outbound request headers mirrored from State by Handler.
const (
	HeaderActiveLocale      = "X-Active-Locale"
	HeaderPathWithoutLocale = "X-Path-Without-Locale"
	HeaderResolvedRole      = "X-Resolved-Role"
	HeaderResolvedTenantID  = "X-Resolved-Tenant-ID"
)

var outboundHeaders = []string{
	HeaderActiveLocale,
	HeaderPathWithoutLocale,
	HeaderResolvedRole,
	HeaderResolvedTenantID,
}

func (s *State) exportHeaders(h http.Header) {
	set := func(name, value string) {
		if value != "" {
			h.Set(name, value)
		}
	}
	set(HeaderActiveLocale, s.Locale)
	set(HeaderPathWithoutLocale, s.PathWithoutLocale)
	set(HeaderResolvedRole, s.Role)
	set(HeaderResolvedTenantID, s.TenantID)
}

type stateContextKey struct{}

// WithState stores st in the context.
func WithState(ctx context.Context, st *State) context.Context {
	return context.WithValue(ctx, stateContextKey{}, st)
}

// StateFromContext retrieves the pipeline state from the context.
func StateFromContext(ctx context.Context) (*State, bool) {
	st, ok := ctx.Value(stateContextKey{}).(*State)
	return st, ok && st != nil
}

// FromRequest returns the state stored by Handler, or ErrNoState when the
// request did not pass through it.
func FromRequest(r *http.Request) (*State, error) {
	st, ok := StateFromContext(r.Context())
	if !ok {
		return nil, ErrNoState
	}
	return st, nil
}

// LoggerExtractors returns logger context extractors for tenant, locale and role.
func LoggerExtractors() []func(ctx context.Context) (slog.Attr, bool) {
	field := func(key string, get func(*State) string) func(ctx context.Context) (slog.Attr, bool) {
		return func(ctx context.Context) (slog.Attr, bool) {
			st, ok := StateFromContext(ctx)
			if !ok {
				return slog.Attr{}, false
			}
			if v := get(st); v != "" {
				return slog.String(key, v), true
			}
			return slog.Attr{}, false
		}
	}
	return []func(ctx context.Context) (slog.Attr, bool){
		field("tenant_id", func(s *State) string { return s.TenantID }),
		field("locale", func(s *State) string { return s.Locale }),
		field("role", func(s *State) string { return s.Role }),
	}
}
