package directory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekeeper/pkg/directory"
)

func seed(t *testing.T) *directory.Memory {
	t.Helper()

	dir := directory.NewMemory()
	require.NoError(t, dir.AddTenant(directory.Tenant{ID: "t1", Slug: "acme", Domain: "acme.com", Name: "Acme", IsActive: true}))
	require.NoError(t, dir.AddTenant(directory.Tenant{ID: "t2", Slug: "globex", Name: "Globex", IsActive: true}))
	require.NoError(t, dir.AddTenant(directory.Tenant{ID: "t3", Slug: "initech", Name: "Initech"}))
	require.NoError(t, dir.AddUser(directory.User{ID: "u1", Email: "jane@acme.com"}))

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, dir.AddMembership(directory.Membership{UserID: "u1", TenantID: "t1", Role: "Employee", IsActive: true, JoinedAt: base}))
	require.NoError(t, dir.AddMembership(directory.Membership{UserID: "u1", TenantID: "t2", Role: "TenantManager", IsActive: true, JoinedAt: base.Add(48 * time.Hour)}))
	require.NoError(t, dir.AddMembership(directory.Membership{UserID: "u1", TenantID: "t3", Role: "Owner", IsActive: false, JoinedAt: base.Add(96 * time.Hour)}))
	return dir
}

func TestMemory_TenantLookups(t *testing.T) {
	t.Parallel()

	dir := seed(t)
	ctx := context.Background()

	t.Run("by slug is case-insensitive", func(t *testing.T) {
		t.Parallel()
		tenant, err := dir.FindTenantBySlug(ctx, "ACME")
		require.NoError(t, err)
		assert.Equal(t, "t1", tenant.ID)
	})

	t.Run("by domain", func(t *testing.T) {
		t.Parallel()
		tenant, err := dir.FindTenantByDomain(ctx, "acme.com")
		require.NoError(t, err)
		assert.Equal(t, "t1", tenant.ID)
	})

	t.Run("by id", func(t *testing.T) {
		t.Parallel()
		tenant, err := dir.FindTenantByID(ctx, "t3")
		require.NoError(t, err)
		assert.False(t, tenant.IsActive)
	})

	t.Run("misses", func(t *testing.T) {
		t.Parallel()
		_, err := dir.FindTenantBySlug(ctx, "nope")
		assert.ErrorIs(t, err, directory.ErrTenantNotFound)
		_, err = dir.FindTenantByDomain(ctx, "")
		assert.ErrorIs(t, err, directory.ErrTenantNotFound)
		_, err = dir.FindTenantByID(ctx, "t9")
		assert.ErrorIs(t, err, directory.ErrTenantNotFound)
		assert.True(t, directory.IsNotFound(err))
	})

	t.Run("returned tenant is a copy", func(t *testing.T) {
		t.Parallel()
		tenant, err := dir.FindTenantByID(ctx, "t2")
		require.NoError(t, err)
		tenant.Slug = "changed"

		again, err := dir.FindTenantByID(ctx, "t2")
		require.NoError(t, err)
		assert.Equal(t, "globex", again.Slug)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := dir.FindTenantBySlug(cctx, "acme")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMemory_Uniqueness(t *testing.T) {
	t.Parallel()

	dir := seed(t)

	err := dir.AddTenant(directory.Tenant{ID: "t4", Slug: "Acme"})
	assert.ErrorIs(t, err, directory.ErrDuplicateSlug)

	err = dir.AddTenant(directory.Tenant{ID: "t4", Slug: "other", Domain: "ACME.com"})
	assert.ErrorIs(t, err, directory.ErrDuplicateDomain)

	err = dir.AddTenant(directory.Tenant{ID: "", Slug: "x"})
	assert.ErrorIs(t, err, directory.ErrInvalidRecord)

	// Re-adding the same tenant updates it in place.
	require.NoError(t, dir.AddTenant(directory.Tenant{ID: "t1", Slug: "acme-corp", IsActive: true}))
	_, err = dir.FindTenantBySlug(context.Background(), "acme")
	assert.ErrorIs(t, err, directory.ErrTenantNotFound)
	_, err = dir.FindTenantByDomain(context.Background(), "acme.com")
	assert.ErrorIs(t, err, directory.ErrTenantNotFound)
}

func TestMemory_FindUserWithActiveMemberships(t *testing.T) {
	t.Parallel()

	dir := seed(t)

	u, err := dir.FindUserWithActiveMemberships(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, u.Memberships, 2)
	assert.Equal(t, "t2", u.Memberships[0].TenantID, "most recently joined first")
	assert.Equal(t, "t1", u.Memberships[1].TenantID)

	m, ok := u.MembershipFor("t1")
	require.True(t, ok)
	assert.Equal(t, "Employee", m.Role)

	_, ok = u.MembershipFor("t3")
	assert.False(t, ok, "inactive membership is not returned")

	_, err = dir.FindUserWithActiveMemberships(context.Background(), "ghost")
	assert.ErrorIs(t, err, directory.ErrUserNotFound)

	err = dir.AddMembership(directory.Membership{UserID: "ghost", TenantID: "t1"})
	assert.ErrorIs(t, err, directory.ErrUserNotFound)
	err = dir.AddMembership(directory.Membership{UserID: "u1", TenantID: "t9"})
	assert.ErrorIs(t, err, directory.ErrTenantNotFound)
}

func TestLatestActiveMembership(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("picks most recent active", func(t *testing.T) {
		t.Parallel()
		m, ok := directory.LatestActiveMembership([]directory.Membership{
			{TenantID: "a", IsActive: true, JoinedAt: base},
			{TenantID: "b", IsActive: false, JoinedAt: base.Add(time.Hour * 2)},
			{TenantID: "c", IsActive: true, JoinedAt: base.Add(time.Hour)},
		})
		require.True(t, ok)
		assert.Equal(t, "c", m.TenantID)
	})

	t.Run("ties keep input order", func(t *testing.T) {
		t.Parallel()
		m, ok := directory.LatestActiveMembership([]directory.Membership{
			{TenantID: "a", IsActive: true, JoinedAt: base},
			{TenantID: "b", IsActive: true, JoinedAt: base},
		})
		require.True(t, ok)
		assert.Equal(t, "a", m.TenantID)
	})

	t.Run("none active", func(t *testing.T) {
		t.Parallel()
		_, ok := directory.LatestActiveMembership([]directory.Membership{{TenantID: "a"}})
		assert.False(t, ok)
		_, ok = directory.LatestActiveMembership(nil)
		assert.False(t, ok)
	})
}
