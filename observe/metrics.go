package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records gateway call and prep cache metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly; recording is best-effort.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCall records one executed gateway call with its duration,
	// HTTP status, and outcome ("none" for success, otherwise the
	// failure kind).
	RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, status int, outcome string)

	// RecordCacheLookup records a prep cache hit or miss.
	RecordCacheLookup(ctx context.Context, hit bool)

	// RecordEnrichmentFailure records a failed enrichment fetch for a
	// category.
	RecordEnrichmentFailure(ctx context.Context, category string)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter         metric.Meter
	callCount     metric.Int64Counter
	callErrors    metric.Int64Counter
	callDuration  metric.Float64Histogram
	lookupCount   metric.Int64Counter
	enrichFailure metric.Int64Counter
}

// NewMetrics creates a Metrics instance backed by the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	callCount, err := meter.Int64Counter(
		"gateway.call.total",
		metric.WithDescription("Total number of executed gateway calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	callErrors, err := meter.Int64Counter(
		"gateway.call.errors",
		metric.WithDescription("Total number of failed gateway calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	callDuration, err := meter.Float64Histogram(
		"gateway.call.duration_ms",
		metric.WithDescription("Gateway call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	lookupCount, err := meter.Int64Counter(
		"prepcache.lookup.total",
		metric.WithDescription("Total number of prep cache lookups"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	enrichFailure, err := meter.Int64Counter(
		"prepcache.enrich.failures",
		metric.WithDescription("Total number of failed enrichment fetches"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:         meter,
		callCount:     callCount,
		callErrors:    callErrors,
		callDuration:  callDuration,
		lookupCount:   lookupCount,
		enrichFailure: enrichFailure,
	}, nil
}

// RecordCall records metrics for one gateway call.
func (m *metricsImpl) RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, status int, outcome string) {
	opt := metric.WithAttributes(
		attribute.String("http.method", meta.Method),
		attribute.String("endpoint.path", meta.Path),
		attribute.Int("http.status", status),
	)

	m.callCount.Add(ctx, 1, opt)

	if outcome != "" && outcome != "none" {
		m.callErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("endpoint.path", meta.Path),
			attribute.String("failure.kind", outcome),
		))
	}

	m.callDuration.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordCacheLookup records a prep cache hit or miss.
func (m *metricsImpl) RecordCacheLookup(ctx context.Context, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.lookupCount.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// RecordEnrichmentFailure records a failed enrichment fetch.
func (m *metricsImpl) RecordEnrichmentFailure(ctx context.Context, category string) {
	m.enrichFailure.Add(ctx, 1, metric.WithAttributes(attribute.String("category", category)))
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, status int, outcome string) {
}
func (m *noopMetrics) RecordCacheLookup(ctx context.Context, hit bool)              {}
func (m *noopMetrics) RecordEnrichmentFailure(ctx context.Context, category string) {}

// NopMetrics returns a Metrics implementation that discards everything.
func NopMetrics() Metrics {
	return &noopMetrics{}
}

// Ensure implementations satisfy Metrics
var (
	_ Metrics = (*metricsImpl)(nil)
	_ Metrics = (*noopMetrics)(nil)
)
