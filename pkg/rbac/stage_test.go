package rbac_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/gatekeeper/pkg/pipeline"
	"github.com/dmitrymomot/gatekeeper/pkg/rbac"
)

func reportsTable(t *testing.T) *rbac.RouteTable {
	t.Helper()
	table, err := rbac.NewRouteTable(rbac.Route{
		Prefix: "dashboard/reports",
		Roles:  []string{"SuperAdmin", "PlatformAdmin", "TenantAdmin", "TenantManager"},
	})
	require.NoError(t, err)
	return table
}

func TestStage(t *testing.T) {
	t.Parallel()

	stage := rbac.Stage(reportsTable(t))
	req := func() *http.Request {
		return httptest.NewRequest(http.MethodGet, "/es/dashboard/reports", nil)
	}

	t.Run("allowed role continues", func(t *testing.T) {
		t.Parallel()
		res, err := stage(req(), &pipeline.State{Locale: "es", PathWithoutLocale: "/dashboard/reports", Role: "TenantManager"})
		require.NoError(t, err)
		assert.False(t, res.Terminated())
	})

	t.Run("denied role redirects with original path", func(t *testing.T) {
		t.Parallel()
		res, err := stage(req(), &pipeline.State{Locale: "es", PathWithoutLocale: "/dashboard/reports", Role: "Employee"})
		require.NoError(t, err)
		require.True(t, res.Terminated())

		rec := httptest.NewRecorder()
		require.NoError(t, res.Response().Render(rec, req()))
		assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		assert.Equal(t, "/es/access-denied?from=%2Fes%2Fdashboard%2Freports", rec.Header().Get("Location"))
	})

	t.Run("unmatched route continues", func(t *testing.T) {
		t.Parallel()
		res, err := stage(httptest.NewRequest(http.MethodGet, "/es/profile", nil),
			&pipeline.State{Locale: "es", PathWithoutLocale: "/profile", Role: "Employee"})
		require.NoError(t, err)
		assert.False(t, res.Terminated())
	})

	t.Run("authenticated principal without role is denied on matched route", func(t *testing.T) {
		t.Parallel()
		res, err := stage(req(), &pipeline.State{Locale: "es", PathWithoutLocale: "/dashboard/reports", UserID: "u-stranger"})
		require.NoError(t, err)
		require.True(t, res.Terminated())

		rec := httptest.NewRecorder()
		require.NoError(t, res.Response().Render(rec, req()))
		assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		assert.Equal(t, "/es/access-denied?from=%2Fes%2Fdashboard%2Freports", rec.Header().Get("Location"))
	})

	t.Run("authenticated principal without role passes unmatched route", func(t *testing.T) {
		t.Parallel()
		res, err := stage(httptest.NewRequest(http.MethodGet, "/es/profile", nil),
			&pipeline.State{Locale: "es", PathWithoutLocale: "/profile", UserID: "u-stranger"})
		require.NoError(t, err)
		assert.False(t, res.Terminated())
	})

	t.Run("access denied page is never guarded", func(t *testing.T) {
		t.Parallel()
		guarded := rbac.Stage(rbac.MustRouteTable(rbac.Route{Prefix: "/", Roles: []string{"SuperAdmin"}}))
		res, err := guarded(httptest.NewRequest(http.MethodGet, "/es/access-denied", nil),
			&pipeline.State{Locale: "es", PathWithoutLocale: "/access-denied", Role: "Employee"})
		require.NoError(t, err)
		assert.False(t, res.Terminated())
	})

	t.Run("custom denied path", func(t *testing.T) {
		t.Parallel()
		custom := rbac.Stage(reportsTable(t), rbac.WithAccessDeniedPath("forbidden"))
		res, err := custom(req(), &pipeline.State{Locale: "es", PathWithoutLocale: "/dashboard/reports", Role: "Employee"})
		require.NoError(t, err)
		require.True(t, res.Terminated())

		rec := httptest.NewRecorder()
		require.NoError(t, res.Response().Render(rec, req()))
		assert.Equal(t, "/es/forbidden?from=%2Fes%2Fdashboard%2Freports", rec.Header().Get("Location"))
	})
}

func TestStage_IncompleteStateIsLoggedAndAllowed(t *testing.T) {
	t.Parallel()

	states := map[string]*pipeline.State{
		"anonymous": {Locale: "es", PathWithoutLocale: "/dashboard/reports"},
		"no locale": {PathWithoutLocale: "/dashboard/reports", Role: "Employee"},
		"no path":   {Locale: "es", Role: "Employee"},
	}

	for name, st := range states {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			stage := rbac.Stage(reportsTable(t), rbac.WithLogger(log))
			res, err := stage(httptest.NewRequest(http.MethodGet, "/es/dashboard/reports", nil), st)
			require.NoError(t, err)
			assert.False(t, res.Terminated())
			assert.Contains(t, buf.String(), "incomplete request state")
		})
	}
}
