package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/hvqdigital/agenda-console/backend"

// Metrics holds all application metrics
type Metrics struct {
	RemoteCallCount    metric.Int64Counter
	RemoteCallDuration metric.Float64Histogram
	CacheHitCount      metric.Int64Counter
	CacheMissCount     metric.Int64Counter
	CascadeSaveCount   metric.Int64Counter
}

// Setup initializes OpenTelemetry tracing
func Setup(ctx context.Context, serviceName, serviceVersion, endpoint string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	shutdown := func(ctx context.Context) error {
		return tracerProvider.Shutdown(ctx)
	}

	return shutdown, nil
}

// Tracer returns the application tracer
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// InitMetrics initializes application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	remoteCallCount, err := meter.Int64Counter(
		"hospital.remote.call.count",
		metric.WithDescription("Number of calls to the hospital master-data API"),
	)
	if err != nil {
		return nil, err
	}

	remoteCallDuration, err := meter.Float64Histogram(
		"hospital.remote.call.duration",
		metric.WithDescription("Hospital API call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	cacheHitCount, err := meter.Int64Counter(
		"catalog.cache.hit.count",
		metric.WithDescription("Number of catalog cache hits"),
	)
	if err != nil {
		return nil, err
	}

	cacheMissCount, err := meter.Int64Counter(
		"catalog.cache.miss.count",
		metric.WithDescription("Number of catalog cache misses"),
	)
	if err != nil {
		return nil, err
	}

	cascadeSaveCount, err := meter.Int64Counter(
		"agenda.cascade.save.count",
		metric.WithDescription("Number of automatic consistency-repair saves issued"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RemoteCallCount:    remoteCallCount,
		RemoteCallDuration: remoteCallDuration,
		CacheHitCount:      cacheHitCount,
		CacheMissCount:     cacheMissCount,
		CascadeSaveCount:   cascadeSaveCount,
	}, nil
}
