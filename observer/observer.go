// Package observer provides OTEL-based observability for catalog dispatch.
//
// It wraps a Dispatcher with an instrumented version that emits traces,
// metrics, and logs via OpenTelemetry. Users export to any OTEL-compatible
// backend by setting standard OTEL env vars.
package observer

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const scopeName = "github.com/elsanchez/mcp-server-fvwm3/observer"

// Instruments holds all OTEL instruments used by the observer wrapper.
type Instruments struct {
	Tracer trace.Tracer
	Meter  metric.Meter
	Logger otellog.Logger

	// Counters
	ToolCalls     metric.Int64Counter
	ResourceReads metric.Int64Counter
	PromptRenders metric.Int64Counter

	// Histograms
	ToolDuration     metric.Float64Histogram
	ResourceDuration metric.Float64Histogram
	PromptDuration   metric.Float64Histogram
}

// Init sets up OTEL trace, metric, and log providers with OTLP HTTP exporters.
// Configuration comes from standard OTEL env vars (OTEL_EXPORTER_OTLP_ENDPOINT, etc.).
// Returns a shutdown function that must be called on application exit.
func Init(ctx context.Context) (*Instruments, func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName("mcp-server-fvwm3")),
		resource.WithFromEnv(),
	)
	if err != nil {
		return nil, nil, err
	}

	// Trace provider
	traceExp, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	// Metric provider
	metricExp, err := otlpmetrichttp.New(ctx)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, nil, err
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	// Log provider
	logExp, err := otlploghttp.New(ctx)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, nil, err
	}
	lp := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExp)),
		sdklog.WithResource(res),
	)
	global.SetLoggerProvider(lp)

	inst, err := newInstruments()
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		_ = lp.Shutdown(ctx)
		return nil, nil, err
	}

	shutdown := func(ctx context.Context) error {
		return errors.Join(
			tp.Shutdown(ctx),
			mp.Shutdown(ctx),
			lp.Shutdown(ctx),
		)
	}

	return inst, shutdown, nil
}

func newInstruments() (*Instruments, error) {
	tracer := otel.Tracer(scopeName)
	meter := otel.Meter(scopeName)
	logger := global.GetLoggerProvider().Logger(scopeName)

	toolCalls, err := meter.Int64Counter("mcp.tool.calls",
		metric.WithDescription("Tool call count"),
		metric.WithUnit("{call}"))
	if err != nil {
		return nil, err
	}

	resourceReads, err := meter.Int64Counter("mcp.resource.reads",
		metric.WithDescription("Resource read count"),
		metric.WithUnit("{read}"))
	if err != nil {
		return nil, err
	}

	promptRenders, err := meter.Int64Counter("mcp.prompt.renders",
		metric.WithDescription("Prompt render count"),
		metric.WithUnit("{render}"))
	if err != nil {
		return nil, err
	}

	toolDuration, err := meter.Float64Histogram("mcp.tool.duration",
		metric.WithDescription("Tool call duration"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	resourceDuration, err := meter.Float64Histogram("mcp.resource.duration",
		metric.WithDescription("Resource read duration"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	promptDuration, err := meter.Float64Histogram("mcp.prompt.duration",
		metric.WithDescription("Prompt render duration"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	return &Instruments{
		Tracer:           tracer,
		Meter:            meter,
		Logger:           logger,
		ToolCalls:        toolCalls,
		ResourceReads:    resourceReads,
		PromptRenders:    promptRenders,
		ToolDuration:     toolDuration,
		ResourceDuration: resourceDuration,
		PromptDuration:   promptDuration,
	}, nil
}
