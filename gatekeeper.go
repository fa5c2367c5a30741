package gatekeeper

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/gatekeeper/pkg/auth"
	"github.com/dmitrymomot/gatekeeper/pkg/directory"
	"github.com/dmitrymomot/gatekeeper/pkg/i18n"
	"github.com/dmitrymomot/gatekeeper/pkg/jwt"
	"github.com/dmitrymomot/gatekeeper/pkg/metrics"
	"github.com/dmitrymomot/gatekeeper/pkg/pipeline"
	"github.com/dmitrymomot/gatekeeper/pkg/rbac"
	"github.com/dmitrymomot/gatekeeper/pkg/tenant"
)

// Gatekeeper holds the configured pipeline stages.
type Gatekeeper struct {
	tokens   *jwt.Service
	resolver *tenant.Resolver
	locales  *i18n.Router
	auth     *auth.Authenticator
	routes   *rbac.RouteTable
	chain    pipeline.Middleware
	logger   *slog.Logger
}

type options struct {
	logger    *slog.Logger
	routes    *rbac.RouteTable
	recorder  metrics.Recorder
	verifier  jwt.Verifier
	extractor jwt.TokenExtractorFunc
	roles     auth.RoleSource
}

// Option overrides a collaborator built from Config.
type Option func(*options)

// WithLogger sets the logger shared by every stage.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRouteTable injects the page authorization table, taking precedence
// over Config.RouteTablePath.
func WithRouteTable(t *rbac.RouteTable) Option {
	return func(o *options) { o.routes = t }
}

// WithRecorder replaces the OpenTelemetry recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(o *options) { o.recorder = rec }
}

// WithVerifier replaces the HS256 verifier built from Config.JWTSecret.
func WithVerifier(v jwt.Verifier) Option {
	return func(o *options) { o.verifier = v }
}

// WithExtractor replaces the credential extractor used by every stage.
func WithExtractor(fn jwt.TokenExtractorFunc) Option {
	return func(o *options) { o.extractor = fn }
}

// WithRoleSource replaces the role source selected by Config.RoleSource.
func WithRoleSource(src auth.RoleSource) Option {
	return func(o *options) { o.roles = src }
}

// New validates cfg and builds the pipeline over dir.
func New(cfg Config, dir directory.Directory, opts ...Option) (*Gatekeeper, error) {
	if dir == nil {
		return nil, ErrNoDirectory
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{logger: slog.Default(), extractor: jwt.DefaultExtractor()}
	for _, opt := range opts {
		opt(o)
	}

	g := &Gatekeeper{logger: o.logger}

	tokens, err := jwt.NewFromString(cfg.JWTSecret, jwt.WithIssuer(cfg.JWTIssuer), jwt.WithTTL(cfg.JWTTTL))
	if err != nil {
		return nil, errors.Join(ErrBuildPipeline, err)
	}
	g.tokens = tokens
	verifier := o.verifier
	if verifier == nil {
		verifier = tokens
	}

	tenantOpts := []tenant.Option{
		tenant.WithAppDomain(cfg.AppDomain),
		tenant.WithHeaderName(cfg.TenantHeader),
		tenant.WithVerifier(verifier),
		tenant.WithExtractor(o.extractor),
		tenant.WithRequireActive(cfg.RequireActiveTenant),
		tenant.WithLogger(o.logger),
	}
	if len(cfg.ReservedLabels) > 0 {
		tenantOpts = append(tenantOpts, tenant.WithReservedLabels(cfg.ReservedLabels...))
	}
	if g.resolver, err = tenant.NewResolver(dir, tenantOpts...); err != nil {
		return nil, errors.Join(ErrBuildPipeline, err)
	}

	defaultLocale, supported := cfg.DefaultLocale, cfg.SupportedLocales
	if defaultLocale == "" {
		defaultLocale = i18n.DefaultLanguage
	}
	if len(supported) == 0 {
		supported = []string{defaultLocale}
	}
	var localeOpts []i18n.Option
	if len(cfg.LocaleBypass) > 0 {
		localeOpts = append(localeOpts, i18n.WithBypassPrefixes(cfg.LocaleBypass...))
	}
	if g.locales, err = i18n.NewRouter(defaultLocale, supported, localeOpts...); err != nil {
		return nil, errors.Join(ErrBuildPipeline, err)
	}

	roles := o.roles
	if roles == nil {
		roles = roleSource(cfg.RoleSource, dir)
	}
	if g.auth, err = auth.New(verifier,
		auth.WithExtractor(o.extractor),
		auth.WithRoleSource(roles),
		auth.WithProtectedPrefixes(cfg.ProtectedPrefixes...),
		auth.WithLoginPath(cfg.LoginPath),
		auth.WithAccessDeniedPath(cfg.AccessDeniedPath),
		auth.WithLogger(o.logger),
	); err != nil {
		return nil, errors.Join(ErrBuildPipeline, err)
	}

	switch {
	case o.routes != nil:
		g.routes = o.routes
	case cfg.RouteTablePath != "":
		if g.routes, err = rbac.LoadRouteTable(cfg.RouteTablePath); err != nil {
			return nil, errors.Join(ErrBuildPipeline, err)
		}
	default:
		g.routes = rbac.MustRouteTable()
	}

	recorder := o.recorder
	if recorder == nil {
		if recorder, err = metrics.NewOTelRecorder(nil); err != nil {
			return nil, errors.Join(ErrBuildPipeline, fmt.Errorf("metrics: %w", err))
		}
	}

	g.chain = pipeline.Compose(
		metrics.Stage(recorder, metrics.WithLogger(o.logger)),
		tenant.Stage(g.resolver),
		i18n.Stage(g.locales),
		g.auth.Stage(),
		rbac.Stage(g.routes, rbac.WithAccessDeniedPath(cfg.AccessDeniedPath), rbac.WithLogger(o.logger)),
	)

	o.logger.Debug("request pipeline ready",
		slog.String("app_domain", cfg.AppDomain),
		slog.Any("locales", g.locales.Supported()),
		slog.Int("routes", g.routes.Len()),
	)
	return g, nil
}

func roleSource(name string, dir directory.Directory) auth.RoleSource {
	switch name {
	case RoleSourceMembership:
		return auth.MembershipRoles(dir)
	case RoleSourceAuto:
		return auth.FirstOf(auth.MembershipRoles(dir), auth.ClaimRoles())
	default:
		return auth.ClaimRoles()
	}
}

// Middleware returns the composed pipeline.
func (g *Gatekeeper) Middleware() pipeline.Middleware {
	return g.chain
}

// Handler adapts the pipeline to net/http middleware.
func (g *Gatekeeper) Handler(opts ...pipeline.HandlerOption) func(http.Handler) http.Handler {
	return pipeline.Handler(g.chain, append([]pipeline.HandlerOption{pipeline.WithLogger(g.logger)}, opts...)...)
}

// Tokens returns the token service built from Config.JWTSecret.
func (g *Gatekeeper) Tokens() *jwt.Service { return g.tokens }

// Resolver returns the tenant resolver.
func (g *Gatekeeper) Resolver() *tenant.Resolver { return g.resolver }

// Locales returns the locale router.
func (g *Gatekeeper) Locales() *i18n.Router { return g.locales }

// Routes returns the page authorization table.
func (g *Gatekeeper) Routes() *rbac.RouteTable { return g.routes }
