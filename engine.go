package lql

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/groundwork/lql/internal/cache"
	"github.com/groundwork/lql/internal/exec"
	"github.com/groundwork/lql/internal/observability"
)

const defaultCacheSize = 256

// Engine is a caching front end over Compile. It holds the only shared
// mutable state in the package (the bounded compiled-query cache) and is
// safe for concurrent use. The field schema is still supplied per call;
// cache entries are keyed by query text and schema version, so a schema
// change naturally invalidates stale entries.
type Engine struct {
	registry *Registry
	cache    *cache.Cache[*CompiledQuery]
	logger   *slog.Logger
	tracer   *observability.Tracer
	metrics  *observability.Metrics
}

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	registry  *Registry
	cacheSize int
	logger    *slog.Logger
	obs       observability.Config
}

// WithFunctions sets the function registry. Defaults to DefaultFunctions().
func WithFunctions(r *Registry) Option {
	return func(c *engineConfig) { c.registry = r }
}

// WithCacheSize bounds the compiled-query cache. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(c *engineConfig) { c.cacheSize = n }
}

// WithLogger sets the engine logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *engineConfig) { c.logger = l }
}

// WithObservability enables OpenTelemetry tracing and metrics.
func WithObservability(cfg observability.Config) Option {
	return func(c *engineConfig) { c.obs = cfg }
}

// NewEngine creates an engine.
func NewEngine(opts ...Option) *Engine {
	cfg := engineConfig{
		registry:  DefaultFunctions(),
		cacheSize: defaultCacheSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine{
		registry: cfg.registry,
		logger:   cfg.logger,
		tracer:   observability.NewNoopTracer(),
		metrics:  observability.NewNoopMetrics(),
	}
	if cfg.obs.TracerProvider != nil {
		e.tracer = observability.NewTracer(cfg.obs.TracerProvider)
	}
	if cfg.obs.MeterProvider != nil {
		e.metrics = observability.NewMetrics(cfg.obs.MeterProvider)
	}
	if cfg.cacheSize > 0 {
		// cache.New only fails on a non-positive size.
		e.cache, _ = cache.New[*CompiledQuery](cfg.cacheSize)
	}
	return e
}

// Compile compiles a query against the schema, serving repeated query
// strings from the cache.
func (e *Engine) Compile(ctx context.Context, text string, s *Schema) (*CompiledQuery, Errors) {
	version := s.Version()
	ctx, span := e.tracer.StartCompile(ctx, len(text), version)
	defer span.End()
	start := time.Now()

	if e.cache != nil {
		if cq, ok := e.cache.Get(text, version); ok {
			e.metrics.RecordCompile(ctx, durationMs(start), true)
			return cq, nil
		}
	}

	cq, errs := Compile(text, s, e.registry)
	if errs != nil {
		e.metrics.RecordRejected(ctx, errs[0].Kind.String())
		observability.RecordError(span, errs)
		e.logger.DebugContext(ctx, "query rejected",
			slog.String("stage", errs[0].Kind.String()),
			slog.Int("errors", len(errs)))
		return nil, errs
	}

	if e.cache != nil {
		e.cache.Put(text, version, cq)
	}
	e.metrics.RecordCompile(ctx, durationMs(start), false)
	return cq, nil
}

// Execute compiles (or fetches) the query, binds the execution context so
// each context function resolves exactly once, and loads matching rows
// into dest via the storage collaborator. Storage errors propagate
// untouched.
func (e *Engine) Execute(ctx context.Context, text string, s *Schema, execCtx ExecutionContext, db *gorm.DB, dest interface{}) error {
	cq, errs := e.Compile(ctx, text, s)
	if errs != nil {
		return errs
	}
	bound, err := cq.Bind(execCtx)
	if err != nil {
		return err
	}

	ctx, span := e.tracer.StartExecute(ctx, "sql")
	defer span.End()
	if err := exec.Find(ctx, bound, db, dest); err != nil {
		observability.RecordError(span, err)
		return err
	}
	return nil
}

// Filter compiles (or fetches) the query, binds the execution context, and
// evaluates the in-memory predicate over the record slice, returning
// matches in source order.
func (e *Engine) Filter(ctx context.Context, text string, s *Schema, execCtx ExecutionContext, records []Record) ([]Record, error) {
	cq, errs := e.Compile(ctx, text, s)
	if errs != nil {
		return nil, errs
	}
	bound, err := cq.Bind(execCtx)
	if err != nil {
		return nil, err
	}

	_, span := e.tracer.StartExecute(ctx, "memory")
	defer span.End()
	return exec.Filter(bound, records), nil
}

func durationMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
