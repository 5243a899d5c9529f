package app

import (
	"context"
	"time"

	"gobioact/domain/core"
	"gobioact/domain/run"
	"gobioact/domain/stage"
	"gobioact/internal"
	"gobioact/internal/cache"
	"gobioact/internal/errors"
	"gobioact/internal/metrics"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StageRunner executes one stage invocation: cache lookup, tracing, timing,
// metrics and audit bookkeeping. The stage computation itself stays pure.
type StageRunner struct {
	cache   *cache.Cache
	tracer  trace.Tracer
	metrics *metrics.Metrics
	logger  *internal.Logger
}

// NewStageRunner creates a new stage runner
func NewStageRunner(c *cache.Cache, tracer trace.Tracer, m *metrics.Metrics, logger *internal.Logger) *StageRunner {
	return &StageRunner{cache: c, tracer: tracer, metrics: m, logger: logger}
}

// stageInvocation describes one cacheable stage call
type stageInvocation struct {
	name         stage.StageName
	precondition string
	config       interface{}
	input        interface{}
}

// cacheKey addresses a stage result by stage identity, configuration and input
func (inv stageInvocation) cacheKey() (core.Hash, error) {
	return cache.Key(string(inv.name)+"@"+run.CodeVersion, inv.config, inv.input)
}

// execute runs compute through the cache and appends the stage audit to rc.
// auditOf extracts the audit from the stage output.
func execute[T any](ctx context.Context, r *StageRunner, rc *RunContext, inv stageInvocation, compute func() (T, error), auditOf func(T) stage.StageAudit) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, errors.AtStage(string(inv.name), "run must not be cancelled", err)
	}

	_, span := r.tracer.Start(ctx, "stage."+string(inv.name),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", rc.RunID.String()),
			attribute.String("stage.name", string(inv.name)),
		),
	)
	defer span.End()

	start := time.Now()
	key, err := inv.cacheKey()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cache key")
		return zero, errors.AtStage(string(inv.name), "stage input must be serializable", err)
	}

	out, hit, err := cache.Do(r.cache, key, compute)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return zero, errors.AtStage(string(inv.name), inv.precondition, err)
	}
	elapsed := time.Since(start)

	audit := auditOf(out)
	audit.CacheHit = hit
	audit.DurationMs = elapsed.Milliseconds()
	rc.Audits = append(rc.Audits, audit)

	span.SetAttributes(
		attribute.Int("stage.input_count", audit.InputCount),
		attribute.Int("stage.output_count", audit.OutputCount),
		attribute.Int("stage.dropped", audit.Dropped()),
		attribute.Bool("stage.cache_hit", hit),
		attribute.String("stage.cache_key", key.Short()),
	)
	span.SetStatus(codes.Ok, "")

	r.record(audit, elapsed)
	return out, nil
}

func (r *StageRunner) record(audit stage.StageAudit, elapsed time.Duration) {
	name := string(audit.Stage)
	r.metrics.StageDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	if audit.CacheHit {
		r.metrics.CacheHits.WithLabelValues(name).Inc()
	}
	for _, reason := range audit.Reasons() {
		r.metrics.RecordsDropped.WithLabelValues(name, reason).Add(float64(audit.SkipsByReason[reason]))
	}

	r.logger.Info("stage %s: %d -> %d records (dropped %d, cache hit %t, %dms)",
		name, audit.InputCount, audit.OutputCount, audit.Dropped(), audit.CacheHit, audit.DurationMs)
	for _, reason := range audit.Reasons() {
		r.logger.Debug("stage %s: dropped %d records: %s", name, audit.SkipsByReason[reason], reason)
	}
	for _, w := range audit.Warnings {
		r.logger.Trace("stage %s: %s", name, w)
	}
}
