package app

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Eldaram/data-analyzer/internal/infrastructure"
)

// runTracer wraps the tracer and metrics of a run
type runTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.RunMetrics
}

// traceRun starts the root span of a run
func (rt *runTracer) traceRun(ctx context.Context, runID string, req Request) (context.Context, trace.Span) {
	return rt.tracer.Start(ctx, "analyzer.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("run.file", req.FilePath),
			attribute.String("run.analysis", req.Analysis),
			attribute.String("run.plot", req.Plot),
		),
	)
}

// stage runs fn inside a child span and records its duration and outcome
func (rt *runTracer) stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := rt.tracer.Start(ctx, fmt.Sprintf("analyzer.stage.%s", name),
		trace.WithAttributes(attribute.String("stage", name)),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	rt.metrics.RecordStage(ctx, name, time.Since(start), err)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// recordCompletion closes out the root span
func (rt *runTracer) recordCompletion(span trace.Span, duration time.Duration, rows int, err error) {
	span.SetAttributes(
		attribute.Float64("run.duration_seconds", duration.Seconds()),
		attribute.Int("run.rows", rows),
	)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
