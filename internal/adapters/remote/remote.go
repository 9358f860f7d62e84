// Package remote normalizes the hospital master-data API's heterogeneous rows
// into domain entities. Each record field is read through a declarative
// priority list of candidate keys; first non-empty match wins.
package remote

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/hvqdigital/agenda-console/backend/internal/infrastructure/observability"
	"github.com/hvqdigital/agenda-console/backend/pkg/retry"
)

// readRetryConfig bounds retries on catalog and directory reads. Writes are
// never retried; the save protocol issues exactly one network write per field.
var readRetryConfig = retry.Config{
	MaxAttempts:     3,
	InitialDelay:    200 * time.Millisecond,
	MaxDelay:        2 * time.Second,
	BackoffFactor:   2.0,
	MaxTotalTimeout: 10 * time.Second,
}

type instrumentation struct {
	metrics *observability.Metrics
}

// observe wraps one remote operation in a span and records call metrics.
func (i instrumentation) observe(ctx context.Context, operation string, fn func(context.Context) error) error {
	ctx, span := observability.Tracer().Start(ctx, operation)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := float64(time.Since(start).Milliseconds())

	if i.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		attrs := metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("status", status),
		)
		i.metrics.RemoteCallCount.Add(ctx, 1, attrs)
		i.metrics.RemoteCallDuration.Record(ctx, elapsed, attrs)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
