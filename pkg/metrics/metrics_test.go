package metrics_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/dmitrymomot/gatekeeper/pkg/metrics"
	"github.com/dmitrymomot/gatekeeper/pkg/pipeline"
)

type recorded struct {
	d time.Duration
	m metrics.Measurement
}

type fakeRecorder struct {
	mu   sync.Mutex
	seen []recorded
}

func (f *fakeRecorder) Record(_ context.Context, d time.Duration, m metrics.Measurement) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, recorded{d: d, m: m})
}

// steppingClock advances by step on every call.
type steppingClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

func TestStage(t *testing.T) {
	t.Parallel()

	rec := &fakeRecorder{}
	clock := &steppingClock{now: time.Unix(0, 0), step: 250 * time.Millisecond}

	setTenant := func(_ *http.Request, st *pipeline.State) (pipeline.Result, error) {
		st.TenantID = "t1"
		st.Locale = "es"
		return pipeline.Continue(), nil
	}
	mw := pipeline.Compose(metrics.Stage(rec, metrics.WithClock(clock.Now)), setTenant)

	var startedAt time.Time
	h := pipeline.Handler(mw)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st, ok := pipeline.StateFromContext(r.Context())
		require.True(t, ok)
		startedAt = st.StartedAt
		rec.mu.Lock()
		assert.Empty(t, rec.seen, "nothing is recorded before the handler finishes")
		rec.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/es/x", nil))

	require.Len(t, rec.seen, 1)
	assert.Equal(t, time.Unix(0, 0).Add(250*time.Millisecond), startedAt)
	assert.Equal(t, 250*time.Millisecond, rec.seen[0].d)
	assert.Equal(t, metrics.Measurement{Status: http.StatusCreated, TenantResolved: true, Locale: "es"}, rec.seen[0].m)
}

func TestStage_RecordsTerminatedRequests(t *testing.T) {
	t.Parallel()

	rec := &fakeRecorder{}
	redirect := func(*http.Request, *pipeline.State) (pipeline.Result, error) {
		return pipeline.Terminate(pipeline.PermanentRedirect("/en")), nil
	}
	h := pipeline.Handler(pipeline.Compose(metrics.Stage(rec), redirect))(http.NotFoundHandler())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Len(t, rec.seen, 1)
	assert.Equal(t, http.StatusPermanentRedirect, rec.seen[0].m.Status)
	assert.False(t, rec.seen[0].m.TenantResolved)
	assert.GreaterOrEqual(t, rec.seen[0].d, time.Duration(0))
}

func TestOTelRecorder(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	rec, err := metrics.NewOTelRecorder(provider)
	require.NoError(t, err)

	rec.Record(context.Background(), 1500*time.Millisecond, metrics.Measurement{Status: 200, TenantResolved: true, Locale: "en"})
	rec.Record(context.Background(), 500*time.Millisecond, metrics.Measurement{Status: 308})

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)

	m := rm.ScopeMetrics[0].Metrics[0]
	assert.Equal(t, metrics.InstrumentName, m.Name)
	assert.Equal(t, "s", m.Unit)

	hist, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 2)

	var total float64
	for _, dp := range hist.DataPoints {
		total += dp.Sum
		assert.Equal(t, uint64(1), dp.Count)
		if v, ok := dp.Attributes.Value(attribute.Key("http.response.status_code")); ok && v.AsInt64() == 200 {
			resolved, _ := dp.Attributes.Value("tenant.resolved")
			assert.True(t, resolved.AsBool())
			locale, _ := dp.Attributes.Value("locale")
			assert.Equal(t, "en", locale.AsString())
		}
	}
	assert.InDelta(t, 2.0, total, 1e-9)
}

func TestNewOTelRecorder_GlobalProvider(t *testing.T) {
	t.Parallel()

	rec, err := metrics.NewOTelRecorder(nil)
	require.NoError(t, err)
	rec.Record(context.Background(), time.Millisecond, metrics.Measurement{Status: 200})
}
