// Package observability wires OpenTelemetry tracing and metrics around
// query compilation and execution. Both default to no-ops; hosts opt in by
// supplying providers.
package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName is the instrumentation scope for spans.
	TracerName = "github.com/groundwork/lql"
	// MeterName is the instrumentation scope for metrics.
	MeterName = "github.com/groundwork/lql"

	// AttrQueryLength is the byte length of the query text. The raw text
	// is never attached to telemetry.
	AttrQueryLength = "lql.query.length"
	// AttrSchemaVersion is the schema version the query was compiled against.
	AttrSchemaVersion = "lql.schema.version"
	// AttrCacheHit marks whether compilation was served from the cache.
	AttrCacheHit = "lql.cache.hit"
	// AttrBackend names the execution backend ("sql" or "memory").
	AttrBackend = "lql.backend"
)

// Config holds the observability configuration for the engine.
type Config struct {
	// TracerProvider is the OpenTelemetry tracer provider. Nil disables tracing.
	TracerProvider trace.TracerProvider
	// MeterProvider is the OpenTelemetry meter provider. Nil disables metrics.
	MeterProvider metric.MeterProvider
	// ServiceName identifies the host application in telemetry.
	ServiceName string
}

// Tracer wraps an OpenTelemetry tracer with engine-specific span helpers.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer from a TracerProvider.
func NewTracer(tp trace.TracerProvider) *Tracer {
	return &Tracer{tracer: tp.Tracer(TracerName)}
}

// StartCompile starts a span covering lex, parse, validate, and compile.
func (t *Tracer) StartCompile(ctx context.Context, queryLen int, schemaVersion string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "lql.compile", trace.WithAttributes(
		attribute.Int(AttrQueryLength, queryLen),
		attribute.String(AttrSchemaVersion, schemaVersion),
	))
}

// StartExecute starts a span covering one execution of a bound query.
func (t *Tracer) StartExecute(ctx context.Context, backend string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "lql.execute", trace.WithAttributes(
		attribute.String(AttrBackend, backend),
	))
}

// RecordError marks the span failed with the error message.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// Metrics holds the engine's metric instruments.
type Metrics struct {
	compileDuration metric.Float64Histogram
	compileCount    metric.Int64Counter
	cacheHits       metric.Int64Counter
	cacheMisses     metric.Int64Counter
	errorCount      metric.Int64Counter
}

// NewMetrics creates the metric instruments from a MeterProvider.
func NewMetrics(mp metric.MeterProvider) *Metrics {
	meter := mp.Meter(MeterName)
	m := &Metrics{}

	// Instrument creation only fails on invalid names; fall back to the
	// bare instrument so the engine keeps working with partial metrics.
	var err error
	m.compileDuration, err = meter.Float64Histogram(
		"lql.compile.duration",
		metric.WithDescription("Duration of query compilation in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		m.compileDuration, _ = meter.Float64Histogram("lql.compile.duration")
	}

	m.compileCount, err = meter.Int64Counter(
		"lql.compile.count",
		metric.WithDescription("Total number of query compilations"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		m.compileCount, _ = meter.Int64Counter("lql.compile.count")
	}

	m.cacheHits, err = meter.Int64Counter(
		"lql.cache.hits",
		metric.WithDescription("Compiled-query cache hits"),
	)
	if err != nil {
		m.cacheHits, _ = meter.Int64Counter("lql.cache.hits")
	}

	m.cacheMisses, err = meter.Int64Counter(
		"lql.cache.misses",
		metric.WithDescription("Compiled-query cache misses"),
	)
	if err != nil {
		m.cacheMisses, _ = meter.Int64Counter("lql.cache.misses")
	}

	m.errorCount, err = meter.Int64Counter(
		"lql.error.count",
		metric.WithDescription("Queries rejected by the lexer, parser, or validator"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		m.errorCount, _ = meter.Int64Counter("lql.error.count")
	}

	return m
}

// RecordCompile records one compilation and its duration.
func (m *Metrics) RecordCompile(ctx context.Context, durationMs float64, cacheHit bool) {
	m.compileCount.Add(ctx, 1)
	m.compileDuration.Record(ctx, durationMs)
	if cacheHit {
		m.cacheHits.Add(ctx, 1)
	} else {
		m.cacheMisses.Add(ctx, 1)
	}
}

// RecordRejected records a query rejected with user-facing errors, tagged
// with the pipeline stage that rejected it.
func (m *Metrics) RecordRejected(ctx context.Context, stage string) {
	m.errorCount.Add(ctx, 1, metric.WithAttributes(attribute.String("lql.error.stage", stage)))
}
