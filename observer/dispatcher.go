package observer

import (
	"context"
	"time"

	fvwm "github.com/elsanchez/mcp-server-fvwm3"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ObservedDispatcher wraps a fvwm.Dispatcher with OTEL instrumentation.
// List operations pass through uninstrumented; reads, calls and renders
// each get a span, counters, a duration histogram and a log record.
type ObservedDispatcher struct {
	inner fvwm.Dispatcher
	inst  *Instruments
}

var _ fvwm.Dispatcher = (*ObservedDispatcher)(nil)

// WrapDispatcher returns an instrumented dispatcher.
func WrapDispatcher(inner fvwm.Dispatcher, inst *Instruments) *ObservedDispatcher {
	return &ObservedDispatcher{inner: inner, inst: inst}
}

func (o *ObservedDispatcher) ListResources() []fvwm.ResourceDescriptor {
	return o.inner.ListResources()
}

func (o *ObservedDispatcher) ListTools() []fvwm.ToolDescriptor {
	return o.inner.ListTools()
}

func (o *ObservedDispatcher) ListPrompts() []fvwm.PromptDescriptor {
	return o.inner.ListPrompts()
}

func (o *ObservedDispatcher) CallTool(ctx context.Context, name string, args map[string]any) fvwm.ToolResult {
	ctx, span := o.inst.Tracer.Start(ctx, "mcp.tool.call", trace.WithAttributes(
		AttrToolName.String(name),
	))
	defer span.End()
	start := time.Now()

	result := o.inner.CallTool(ctx, name, args)

	durationMs := float64(time.Since(start).Milliseconds())
	status := "ok"
	if result.IsError {
		status = "tool_error"
	}
	length := 0
	for _, c := range result.Content {
		length += len(c.Text)
	}

	span.SetAttributes(
		AttrToolStatus.String(status),
		AttrResultLength.Int(length),
	)

	o.inst.ToolCalls.Add(ctx, 1, metric.WithAttributes(
		AttrToolName.String(name),
		attribute.String("status", status),
	))
	o.inst.ToolDuration.Record(ctx, durationMs, metric.WithAttributes(
		AttrToolName.String(name),
	))

	var rec otellog.Record
	rec.SetSeverity(otellog.SeverityInfo)
	rec.SetBody(otellog.StringValue("tool called"))
	rec.AddAttributes(
		otellog.String("tool.name", name),
		otellog.String("tool.status", status),
		otellog.Int("tool.result_length", length),
		otellog.Float64("tool.duration_ms", durationMs),
	)
	if id := fvwm.RequestID(ctx); id != "" {
		span.SetAttributes(AttrRequestID.String(id))
		rec.AddAttributes(otellog.String(string(AttrRequestID), id))
	}
	o.inst.Logger.Emit(ctx, rec)

	return result
}

func (o *ObservedDispatcher) ReadResource(ctx context.Context, uri string) (fvwm.ResourceContent, error) {
	ctx, span := o.inst.Tracer.Start(ctx, "mcp.resource.read", trace.WithAttributes(
		AttrResourceURI.String(uri),
	))
	defer span.End()
	start := time.Now()

	content, err := o.inner.ReadResource(ctx, uri)

	durationMs := float64(time.Since(start).Milliseconds())
	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	span.SetAttributes(
		AttrResourceStatus.String(status),
		AttrResultLength.Int(len(content.Text)),
	)

	o.inst.ResourceReads.Add(ctx, 1, metric.WithAttributes(
		AttrResourceURI.String(uri),
		attribute.String("status", status),
	))
	o.inst.ResourceDuration.Record(ctx, durationMs, metric.WithAttributes(
		AttrResourceURI.String(uri),
	))

	var rec otellog.Record
	rec.SetSeverity(otellog.SeverityInfo)
	rec.SetBody(otellog.StringValue("resource read"))
	rec.AddAttributes(
		otellog.String("resource.uri", uri),
		otellog.String("resource.status", status),
		otellog.Int("resource.result_length", len(content.Text)),
		otellog.Float64("resource.duration_ms", durationMs),
	)
	if id := fvwm.RequestID(ctx); id != "" {
		span.SetAttributes(AttrRequestID.String(id))
		rec.AddAttributes(otellog.String(string(AttrRequestID), id))
	}
	o.inst.Logger.Emit(ctx, rec)

	return content, err
}

func (o *ObservedDispatcher) GetPrompt(ctx context.Context, name string, args map[string]string) (fvwm.PromptResult, error) {
	ctx, span := o.inst.Tracer.Start(ctx, "mcp.prompt.get", trace.WithAttributes(
		AttrPromptName.String(name),
	))
	defer span.End()
	start := time.Now()

	result, err := o.inner.GetPrompt(ctx, name, args)

	durationMs := float64(time.Since(start).Milliseconds())
	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	length := 0
	for _, m := range result.Messages {
		length += len(m.Content.Text)
	}

	span.SetAttributes(
		AttrPromptStatus.String(status),
		AttrResultLength.Int(length),
	)

	o.inst.PromptRenders.Add(ctx, 1, metric.WithAttributes(
		AttrPromptName.String(name),
		attribute.String("status", status),
	))
	o.inst.PromptDuration.Record(ctx, durationMs, metric.WithAttributes(
		AttrPromptName.String(name),
	))

	var rec otellog.Record
	rec.SetSeverity(otellog.SeverityInfo)
	rec.SetBody(otellog.StringValue("prompt rendered"))
	rec.AddAttributes(
		otellog.String("prompt.name", name),
		otellog.String("prompt.status", status),
		otellog.Int("prompt.result_length", length),
		otellog.Float64("prompt.duration_ms", durationMs),
	)
	if id := fvwm.RequestID(ctx); id != "" {
		span.SetAttributes(AttrRequestID.String(id))
		rec.AddAttributes(otellog.String(string(AttrRequestID), id))
	}
	o.inst.Logger.Emit(ctx, rec)

	return result, err
}
