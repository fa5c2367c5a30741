package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/dmitrymomot/gatekeeper/pkg/logger"
	"github.com/dmitrymomot/gatekeeper/pkg/pipeline"
)

// InstrumentName is the histogram recorded for every request.
const InstrumentName = "gatekeeper.request.duration"

const meterName = "github.com/dmitrymomot/gatekeeper/pkg/metrics"

// Measurement describes a completed request.
type Measurement struct {
	Status         int
	TenantResolved bool
	Locale         string
}

// Recorder receives request timings.
type Recorder interface {
	Record(ctx context.Context, d time.Duration, m Measurement)
}

// OTelRecorder records timings into an OpenTelemetry histogram, in seconds.
type OTelRecorder struct {
	duration metric.Float64Histogram
}

// NewOTelRecorder creates the request duration histogram on mp.
// A nil provider uses the global one.
func NewOTelRecorder(mp metric.MeterProvider) (*OTelRecorder, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	hist, err := mp.Meter(meterName).Float64Histogram(
		InstrumentName,
		metric.WithDescription("Duration of requests through the gatekeeper pipeline and the application handler."),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}
	return &OTelRecorder{duration: hist}, nil
}

// Record adds d, in seconds, to the request duration histogram.
func (r *OTelRecorder) Record(ctx context.Context, d time.Duration, m Measurement) {
	attrs := []attribute.KeyValue{
		attribute.Int("http.response.status_code", m.Status),
		attribute.Bool("tenant.resolved", m.TenantResolved),
	}
	if m.Locale != "" {
		attrs = append(attrs, attribute.String("locale", m.Locale))
	}
	r.duration.Record(ctx, d.Seconds(), metric.WithAttributes(attrs...))
}

// Option configures Stage.
type Option func(*stageConfig)

type stageConfig struct {
	logger *slog.Logger
	now    func() time.Time
}

// WithLogger sets the logger used for the per-request debug line.
func WithLogger(l *slog.Logger) Option {
	return func(c *stageConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(c *stageConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// Stage records the request start time and, once the response has been
// written, the duration of the whole chain including the application
// handler. It never terminates the chain.
func Stage(rec Recorder, opts ...Option) pipeline.Middleware {
	cfg := &stageConfig{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(r *http.Request, st *pipeline.State) (pipeline.Result, error) {
		ctx := r.Context()
		st.StartedAt = cfg.now()

		st.OnComplete(func(status int) {
			elapsed := cfg.now().Sub(st.StartedAt)
			m := Measurement{
				Status:         status,
				TenantResolved: st.HasTenant(),
				Locale:         st.Locale,
			}
			if rec != nil {
				rec.Record(context.WithoutCancel(ctx), elapsed, m)
			}
			cfg.logger.DebugContext(ctx, "request completed",
				slog.String("method", r.Method),
				logger.Path(r.URL.Path),
				logger.Status(status),
				logger.Duration(elapsed),
			)
		})
		return pipeline.Continue(), nil
	}
}
