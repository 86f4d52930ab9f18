// SPDX-License-Identifier: MIT

package batch

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for batch runs.
var (
	tracer = otel.Tracer("cellauto.batch")
	meter  = otel.Meter("cellauto.batch")
)

var (
	runsTotal        metric.Int64Counter
	cacheHitsTotal   metric.Int64Counter
	generateDuration metric.Float64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics creates the instruments once. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		runsTotal, err = meter.Int64Counter(
			"cellauto_runs_total",
			metric.WithDescription("Total number of batch jobs executed"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		cacheHitsTotal, err = meter.Int64Counter(
			"cellauto_cache_hits_total",
			metric.WithDescription("Total number of canvases served from the cache"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		generateDuration, err = meter.Float64Histogram(
			"cellauto_generate_duration_seconds",
			metric.WithDescription("Duration of canvas generation"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordRun counts one finished job.
func recordRun(ctx context.Context, cached, failed bool) {
	if err := initMetrics(); err != nil {
		return
	}
	runsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("cached", cached),
		attribute.Bool("failed", failed),
	))
	if cached {
		cacheHitsTotal.Add(ctx, 1)
	}
}

// recordGenerate records the time spent in the engine.
func recordGenerate(ctx context.Context, d time.Duration, layout string, boost bool) {
	if err := initMetrics(); err != nil {
		return
	}
	generateDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("layout", layout),
		attribute.Bool("boost", boost),
	))
}

// startJobSpan opens the span covering one job.
func startJobSpan(ctx context.Context, job Job) (context.Context, trace.Span) {
	return tracer.Start(ctx, "batch.Job",
		trace.WithAttributes(
			attribute.String("job.id", job.ID),
			attribute.Int("job.rows", job.Rows),
			attribute.Int("job.columns", len(job.Initial)),
			attribute.Bool("job.boost", job.Boost),
		),
	)
}

// endJobSpan marks the span with the job's result and ends it.
func endJobSpan(span trace.Span, cached bool, err error) {
	span.SetAttributes(attribute.Bool("job.cached", cached))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
