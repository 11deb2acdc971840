package observability

import (
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// NewNoopTracer creates a tracer that does nothing.
func NewNoopTracer() *Tracer {
	return &Tracer{tracer: tracenoop.NewTracerProvider().Tracer("")}
}

// NewNoopMetrics creates metrics that do nothing.
func NewNoopMetrics() *Metrics {
	meter := noop.NewMeterProvider().Meter("")
	m := &Metrics{}

	// The noop meter never returns errors.
	m.compileDuration, _ = meter.Float64Histogram("lql.compile.duration") //nolint:errcheck
	m.compileCount, _ = meter.Int64Counter("lql.compile.count")           //nolint:errcheck
	m.cacheHits, _ = meter.Int64Counter("lql.cache.hits")                 //nolint:errcheck
	m.cacheMisses, _ = meter.Int64Counter("lql.cache.misses")             //nolint:errcheck
	m.errorCount, _ = meter.Int64Counter("lql.error.count")               //nolint:errcheck

	return m
}
