package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrymomot/gatekeeper/pkg/i18n"
	"github.com/dmitrymomot/gatekeeper/pkg/jwt"
	"github.com/dmitrymomot/gatekeeper/pkg/logger"
	"github.com/dmitrymomot/gatekeeper/pkg/pipeline"
)

// Default locale-relative routes.
const (
	DefaultLoginPath        = "/login"
	DefaultAccessDeniedPath = "/access-denied"
)

// Authenticator establishes the principal of a request and attaches its role.
type Authenticator struct {
	verifier   jwt.Verifier
	extractor  jwt.TokenExtractorFunc
	roles      RoleSource
	protected  []string
	loginPath  string
	deniedPath string
	logger     *slog.Logger
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithExtractor overrides where credentials are read from.
func WithExtractor(fn jwt.TokenExtractorFunc) Option {
	return func(a *Authenticator) {
		if fn != nil {
			a.extractor = fn
		}
	}
}

// WithRoleSource sets the collaborator that decides the principal's role.
func WithRoleSource(src RoleSource) Option {
	return func(a *Authenticator) {
		if src != nil {
			a.roles = src
		}
	}
}

// WithProtectedPrefixes lists locale-relative path prefixes that require a
// principal. Without any, every localized path except the login and
// access-denied routes is protected.
func WithProtectedPrefixes(prefixes ...string) Option {
	return func(a *Authenticator) {
		for _, p := range prefixes {
			if p = normalizePrefix(p); p != "" {
				a.protected = append(a.protected, p)
			}
		}
	}
}

// WithLoginPath sets the locale-relative login route.
func WithLoginPath(p string) Option {
	return func(a *Authenticator) {
		if p = normalizePrefix(p); p != "" {
			a.loginPath = p
		}
	}
}

// WithAccessDeniedPath sets the locale-relative access-denied route.
func WithAccessDeniedPath(p string) Option {
	return func(a *Authenticator) {
		if p = normalizePrefix(p); p != "" {
			a.deniedPath = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Authenticator) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an Authenticator. The role defaults to the credential's role claim.
func New(verifier jwt.Verifier, opts ...Option) (*Authenticator, error) {
	if verifier == nil {
		return nil, ErrNoVerifier
	}
	a := &Authenticator{
		verifier:   verifier,
		extractor:  jwt.DefaultExtractor(),
		roles:      ClaimRoles(),
		loginPath:  DefaultLoginPath,
		deniedPath: DefaultAccessDeniedPath,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Authenticate returns the verified principal of the request.
// Missing, invalid and expired credentials all report ok=false.
func (a *Authenticator) Authenticate(ctx context.Context, r *http.Request) (jwt.Principal, bool) {
	token, err := a.extractor(r)
	if err != nil {
		return jwt.Principal{}, false
	}
	p, err := a.verifier.Verify(ctx, token)
	if err != nil || p.UserID == "" {
		return jwt.Principal{}, false
	}
	return p, true
}

// Protected reports whether a locale-relative path requires a principal.
func (a *Authenticator) Protected(p string) bool {
	if len(a.protected) == 0 {
		return !underPrefix(p, a.loginPath) && !underPrefix(p, a.deniedPath)
	}
	for _, prefix := range a.protected {
		if underPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// Stage sets State.UserID and State.Role for authenticated requests and
// redirects anonymous requests for protected localized pages to the login
// route with a "from" parameter. Requests without a locale are never redirected.
func (a *Authenticator) Stage() pipeline.Middleware {
	return func(r *http.Request, st *pipeline.State) (pipeline.Result, error) {
		ctx := r.Context()

		if p, ok := a.Authenticate(ctx, r); ok {
			role, err := a.roles.Role(ctx, p, st)
			if err != nil {
				if errors.Is(err, ctx.Err()) {
					return pipeline.Continue(), err
				}
				return pipeline.Continue(), errors.Join(ErrRoleLookup, err)
			}
			st.UserID = p.UserID
			st.Role = role
			return pipeline.Continue(), nil
		}

		if st.Locale == "" || !a.Protected(st.PathWithoutLocale) {
			return pipeline.Continue(), nil
		}

		a.logger.DebugContext(ctx, "redirecting anonymous request to login",
			logger.Path(r.URL.Path),
		)
		target := i18n.LocalizedPath(st.Locale, a.loginPath) + "?" + url.Values{"from": {r.URL.Path}}.Encode()
		return pipeline.Terminate(pipeline.TemporaryRedirect(target)), nil
	}
}

func underPrefix(p, prefix string) bool {
	if prefix == "/" {
		return true
	}
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}

func normalizePrefix(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}
