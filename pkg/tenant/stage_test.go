package tenant_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekeeper/pkg/pipeline"
	"github.com/dmitrymomot/gatekeeper/pkg/tenant"
)

func TestStage(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	stage := tenant.Stage(f.resolver(t), tenant.WithSkipPaths("/healthz"))

	t.Run("writes tenant into state", func(t *testing.T) {
		t.Parallel()
		st := &pipeline.State{}
		res, err := stage(request("acme.app.example"), st)
		require.NoError(t, err)
		assert.False(t, res.Terminated())
		assert.Equal(t, "t-acme", st.TenantID)
		assert.True(t, st.HasTenant())
	})

	t.Run("tenant-less request", func(t *testing.T) {
		t.Parallel()
		st := &pipeline.State{}
		res, err := stage(request("app.example"), st)
		require.NoError(t, err)
		assert.False(t, res.Terminated())
		assert.False(t, st.HasTenant())
	})

	t.Run("skip paths match on a slash boundary", func(t *testing.T) {
		t.Parallel()
		skipping := tenant.Stage(f.resolver(t), tenant.WithSkipPaths("/healthz", "api/"))

		tests := []struct {
			path   string
			tenant string
		}{
			{"/healthz", ""},
			{"/healthz/live", ""},
			{"/api", ""},
			{"/api/ping", ""},
			{"/healthzz", "t-acme"},
			{"/apiary", "t-acme"},
			{"/en/api", "t-acme"},
		}
		for _, tt := range tests {
			st := &pipeline.State{}
			req := httptest.NewRequest(http.MethodGet, "http://acme.app.example"+tt.path, nil)
			_, err := skipping(req, st)
			require.NoError(t, err)
			assert.Equal(t, tt.tenant, st.TenantID, tt.path)
		}
	})

	t.Run("errors abort", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("down")
		res, err := tenant.NewResolver(failingDirectory{Directory: f.dir, err: boom}, tenant.WithAppDomain(appDomain))
		require.NoError(t, err)

		_, err = tenant.Stage(res)(request("acme.app.example"), &pipeline.State{})
		assert.ErrorIs(t, err, boom)
	})
}

func TestIDFromContext(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	var got string
	var ok bool
	h := pipeline.Handler(tenant.Stage(f.resolver(t)))(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got, ok = tenant.IDFromContext(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), request("acme.app.example"))
	assert.True(t, ok)
	assert.Equal(t, "t-acme", got)

	h.ServeHTTP(httptest.NewRecorder(), request("app.example"))
	assert.False(t, ok)
	assert.Empty(t, got)
}
