package observability

import (
	"context"
	"fmt"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/otlptranslator"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Options configures New. Registerer receives the OpenTelemetry metrics;
// an empty JaegerEndpoint leaves tracing on the SDK without an exporter
// unless SpanProcessor is set.
type Options struct {
	ServiceName    string
	JaegerEndpoint string
	Registerer     promclient.Registerer
	SpanProcessor  sdktrace.SpanProcessor
}

type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer

	lookupCounter    otelmetric.Int64Counter
	lookupDuration   otelmetric.Float64Histogram
	candidateCounter otelmetric.Int64Counter
	warningCounter   otelmetric.Int64Counter
}

// New installs global meter and tracer providers for the process.
func New(opts Options) (*Observability, error) {
	if opts.ServiceName == "" {
		opts.ServiceName = "brreg-lookup"
	}
	res := resource.NewSchemaless(attribute.String("service.name", opts.ServiceName))

	// legacy underscore names keep the textfile readable by node-exporter
	exporterOpts := []prometheus.Option{
		prometheus.WithTranslationStrategy(otlptranslator.UnderscoreEscapingWithSuffixes),
	}
	if opts.Registerer != nil {
		exporterOpts = append(exporterOpts, prometheus.WithRegisterer(opts.Registerer))
	}
	exporter, err := prometheus.New(exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	meterProvider := metric.NewMeterProvider(metric.WithReader(exporter), metric.WithResource(res))
	otel.SetMeterProvider(meterProvider)

	tracerProvider, err := newTracerProvider(opts, res)
	if err != nil {
		_ = meterProvider.Shutdown(context.Background())
		return nil, err
	}
	otel.SetTracerProvider(tracerProvider)

	meter := meterProvider.Meter(opts.ServiceName)

	lookupCounter, err := meter.Int64Counter(
		"brreg.lookups",
		otelmetric.WithDescription("Number of lookup operations by outcome"),
	)
	if err != nil {
		return nil, err
	}
	lookupDuration, err := meter.Float64Histogram(
		"brreg.lookup.duration",
		otelmetric.WithDescription("Lookup operation duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}
	candidateCounter, err := meter.Int64Counter(
		"brreg.candidates",
		otelmetric.WithDescription("Number of candidates collected per source"),
	)
	if err != nil {
		return nil, err
	}
	warningCounter, err := meter.Int64Counter(
		"brreg.source.warnings",
		otelmetric.WithDescription("Number of degraded source calls"),
	)
	if err != nil {
		return nil, err
	}

	return &Observability{
		meterProvider:    meterProvider,
		tracerProvider:   tracerProvider,
		tracer:           tracerProvider.Tracer(opts.ServiceName),
		lookupCounter:    lookupCounter,
		lookupDuration:   lookupDuration,
		candidateCounter: candidateCounter,
		warningCounter:   warningCounter,
	}, nil
}

func (o *Observability) RecordLookup(ctx context.Context, operation, status string, duration time.Duration) {
	attrs := otelmetric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
	o.lookupCounter.Add(ctx, 1, attrs)
	o.lookupDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

func (o *Observability) RecordCandidates(ctx context.Context, source string, count int) {
	o.candidateCounter.Add(ctx, int64(count), otelmetric.WithAttributes(
		attribute.String("source", source),
	))
}

func (o *Observability) RecordWarning(ctx context.Context, source, code string) {
	o.warningCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("source", source),
		attribute.String("code", code),
	))
}

// Shutdown flushes pending spans and stops both providers.
func (o *Observability) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var firstErr error
	if err := o.tracerProvider.Shutdown(ctx); err != nil {
		firstErr = err
	}
	if err := o.meterProvider.Shutdown(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
