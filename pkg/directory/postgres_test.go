package directory_test

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekeeper/pkg/directory"
	"github.com/dmitrymomot/gatekeeper/pkg/pg"
)

func TestPostgres(t *testing.T) {
	connURL := os.Getenv("PG_CONN_URL")
	if connURL == "" {
		t.Skip("PG_CONN_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := pg.Config{
		ConnectionString:  connURL,
		MaxOpenConns:      4,
		MaxIdleConns:      1,
		HealthCheckPeriod: time.Minute,
		MaxConnIdleTime:   time.Minute,
		MaxConnLifetime:   time.Minute,
		RetryAttempts:     1,
		RetryInterval:     time.Second,
		MigrationsTable:   "gatekeeper_test_migrations",
	}
	pool, err := pg.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pg.MigrateFS(ctx, pool, directory.Migrations(), cfg, slog.Default()))

	require.NoError(t, pg.Healthcheck(pool, directory.Tables...)(ctx))
	assert.ErrorIs(t, pg.Healthcheck(pool, "no_such_table")(ctx), pg.ErrMissingTable)

	dir := directory.NewPostgres(pool)
	suffix := uuid.NewString()[:8]

	tenantID := uuid.NewString()
	slug := "acme-" + suffix
	domain := "acme-" + suffix + ".example"
	require.NoError(t, dir.CreateTenant(ctx, directory.Tenant{ID: tenantID, Slug: slug, Domain: domain, Name: "Acme", IsActive: true}))

	err = dir.CreateTenant(ctx, directory.Tenant{ID: uuid.NewString(), Slug: slug, Name: "Dup"})
	assert.ErrorIs(t, err, directory.ErrDuplicateSlug)
	err = dir.CreateTenant(ctx, directory.Tenant{ID: uuid.NewString(), Slug: "other-" + suffix, Domain: domain, Name: "Dup"})
	assert.ErrorIs(t, err, directory.ErrDuplicateDomain)

	got, err := dir.FindTenantBySlug(ctx, slug)
	require.NoError(t, err)
	assert.Equal(t, tenantID, got.ID)

	got, err = dir.FindTenantByDomain(ctx, domain)
	require.NoError(t, err)
	assert.Equal(t, slug, got.Slug)

	off, err := dir.SetTenantActive(ctx, strings.ToUpper(slug), false)
	require.NoError(t, err)
	assert.Equal(t, tenantID, off.ID)
	assert.False(t, off.IsActive)
	_, err = dir.SetTenantActive(ctx, "missing-"+suffix, true)
	assert.ErrorIs(t, err, directory.ErrTenantNotFound)

	_, err = dir.FindTenantByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, directory.ErrTenantNotFound)

	userID := uuid.NewString()
	require.NoError(t, dir.CreateUser(ctx, directory.User{ID: userID, Email: suffix + "@acme.example"}))
	require.NoError(t, dir.AddMembership(ctx, directory.Membership{UserID: userID, TenantID: tenantID, Role: "Employee", IsActive: true}))

	u, err := dir.FindUserWithActiveMemberships(ctx, userID)
	require.NoError(t, err)
	require.Len(t, u.Memberships, 1)
	assert.Equal(t, "Employee", u.Memberships[0].Role)

	err = dir.AddMembership(ctx, directory.Membership{UserID: userID, TenantID: uuid.NewString(), Role: "x", IsActive: true})
	assert.ErrorIs(t, err, directory.ErrInvalidRecord)
}
