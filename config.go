package gatekeeper

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Role sources accepted by Config.RoleSource.
const (
	RoleSourceClaims     = "claims"
	RoleSourceMembership = "membership"
	// RoleSourceAuto prefers the membership role in the resolved tenant and
	// falls back to the token's role claim.
	RoleSourceAuto = "auto"
)

// Config describes the pipeline. It is loaded with config.Load.
type Config struct {
	AppDomain           string   `env:"APP_DOMAIN,required"`
	DefaultLocale       string   `env:"DEFAULT_LOCALE" envDefault:"en"`
	SupportedLocales    []string `env:"SUPPORTED_LOCALES" envDefault:"en" envSeparator:","`
	LocaleBypass        []string `env:"LOCALE_BYPASS_PREFIXES" envSeparator:","`
	ReservedLabels      []string `env:"TENANT_RESERVED_LABELS" envSeparator:","`
	TenantHeader        string   `env:"TENANT_HEADER" envDefault:"X-Tenant-ID"`
	RequireActiveTenant bool     `env:"TENANT_REQUIRE_ACTIVE" envDefault:"true"`

	JWTSecret string        `env:"JWT_SECRET,required"`
	JWTIssuer string        `env:"JWT_ISSUER"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	RoleSource        string   `env:"ROLE_SOURCE" envDefault:"claims"`
	ProtectedPrefixes []string `env:"PROTECTED_PREFIXES" envSeparator:","`
	LoginPath         string   `env:"LOGIN_PATH" envDefault:"/login"`
	AccessDeniedPath  string   `env:"ACCESS_DENIED_PATH" envDefault:"/access-denied"`
	RouteTablePath    string   `env:"ROUTE_TABLE_PATH"`
}

// Validate checks the invariants New relies on.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.AppDomain) == "" {
		errs = append(errs, ErrMissingAppDomain)
	}
	if c.JWTSecret == "" {
		errs = append(errs, ErrMissingJWTSecret)
	}
	switch c.RoleSource {
	case "", RoleSourceClaims, RoleSourceMembership, RoleSourceAuto:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownRoleSource, c.RoleSource))
	}
	if c.DefaultLocale != "" && len(c.SupportedLocales) > 0 && !slices.Contains(c.SupportedLocales, c.DefaultLocale) {
		errs = append(errs, fmt.Errorf("default locale %q is not in %v", c.DefaultLocale, c.SupportedLocales))
	}
	return errors.Join(errs...)
}
