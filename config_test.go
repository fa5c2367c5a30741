package gatekeeper_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekeeper"
	"github.com/dmitrymomot/gatekeeper/pkg/config"
)

func TestConfig_FromEnvironment(t *testing.T) {
	t.Parallel()

	var cfg gatekeeper.Config
	require.NoError(t, config.Parse(&cfg, map[string]string{
		"APP_DOMAIN":         "app.example",
		"JWT_SECRET":         "s3cret",
		"SUPPORTED_LOCALES":  "en,es,de",
		"PROTECTED_PREFIXES": "/dashboard,/settings",
		"ROLE_SOURCE":        "auto",
	}))

	assert.Equal(t, "app.example", cfg.AppDomain)
	assert.Equal(t, "en", cfg.DefaultLocale)
	assert.Equal(t, []string{"en", "es", "de"}, cfg.SupportedLocales)
	assert.Equal(t, []string{"/dashboard", "/settings"}, cfg.ProtectedPrefixes)
	assert.Equal(t, "X-Tenant-ID", cfg.TenantHeader)
	assert.True(t, cfg.RequireActiveTenant)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "/login", cfg.LoginPath)
	assert.Equal(t, "/access-denied", cfg.AccessDeniedPath)
	assert.Equal(t, gatekeeper.RoleSourceAuto, cfg.RoleSource)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("required values", func(t *testing.T) {
		t.Parallel()
		var cfg gatekeeper.Config
		err := config.Parse(&cfg, map[string]string{})
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("default locale must be supported", func(t *testing.T) {
		t.Parallel()
		var cfg gatekeeper.Config
		err := config.Parse(&cfg, map[string]string{
			"APP_DOMAIN":        "app.example",
			"JWT_SECRET":        "s3cret",
			"DEFAULT_LOCALE":    "fr",
			"SUPPORTED_LOCALES": "en,es",
		})
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("unknown role source", func(t *testing.T) {
		t.Parallel()
		cfg := gatekeeper.Config{AppDomain: "app.example", JWTSecret: "s3cret", RoleSource: "ldap"}
		assert.ErrorIs(t, cfg.Validate(), gatekeeper.ErrUnknownRoleSource)
	})
}
