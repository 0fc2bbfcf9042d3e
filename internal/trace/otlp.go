package trace

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// OTLPExporter exports dispatch traces to an OTLP endpoint.
type OTLPExporter struct {
	provider *sdktrace.TracerProvider
	tracer   oteltrace.Tracer
	enabled  bool
}

// NewOTLPExporter creates an OTLP exporter if OTEL_EXPORTER_OTLP_ENDPOINT
// is set. Returns nil if the endpoint is not configured (disabled).
func NewOTLPExporter(ctx context.Context) (*OTLPExporter, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return nil, nil // Disabled
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(), // For local dev; make configurable
	)
	if err != nil {
		return nil, err
	}

	serviceName := os.Getenv("OTEL_SERVICE_NAME")
	if serviceName == "" {
		serviceName = "popupkit"
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	return &OTLPExporter{
		provider: provider,
		tracer:   provider.Tracer("popupkit/dispatch"),
		enabled:  true,
	}, nil
}

// ExportDispatch exports a completed dispatch trace to OTLP.
func (e *OTLPExporter) ExportDispatch(ctx context.Context, t *DispatchTrace) error {
	if e == nil || !e.enabled {
		return nil
	}
	if t == nil || t.RootSpan == nil {
		return nil // Nothing to export
	}

	traceID, err := hexToTraceID(t.ID)
	if err != nil {
		return err // Invalid trace ID
	}

	traceCtx := oteltrace.ContextWithSpanContext(ctx, oteltrace.NewSpanContext(oteltrace.SpanContextConfig{
		TraceID:    traceID,
		TraceFlags: oteltrace.FlagsSampled,
	}))

	e.exportSpan(traceCtx, t.ID, t.RootSpan, oteltrace.SpanContext{})
	return nil
}

// exportSpan recursively exports a span and its children.
func (e *OTLPExporter) exportSpan(ctx context.Context, traceHex string, span *Span, parent oteltrace.SpanContext) {
	traceID, err := hexToTraceID(traceHex)
	if err != nil {
		return // Skip invalid trace ID
	}

	spanCtx := oteltrace.NewSpanContext(oteltrace.SpanContextConfig{
		TraceID:    traceID,
		TraceFlags: oteltrace.FlagsSampled,
	})

	parentCtx := oteltrace.ContextWithSpanContext(ctx, spanCtx)
	if parent.IsValid() {
		parentCtx = oteltrace.ContextWithSpanContext(ctx, parent)
	}

	// The SDK assigns fresh span IDs; the trace ID, parent relationships,
	// and explicit timestamps are preserved from the recorded span tree.
	_, otlpSpan := e.tracer.Start(
		parentCtx,
		span.Name,
		oteltrace.WithTimestamp(span.StartTime),
	)

	attrs := make([]attribute.KeyValue, 0, len(span.Attributes))
	for k, v := range span.Attributes {
		// Map known attributes into the popupkit.* namespace
		var key string
		switch k {
		case "kind":
			key = "popupkit.event.kind"
		case "strategy":
			key = "popupkit.event.strategy"
		case "source":
			key = "popupkit.event.source"
		case "sender":
			key = "popupkit.handler.sender"
		case "decision":
			key = "popupkit.dismiss.decision"
		case "mode":
			key = "popupkit.dismiss.mode"
		default:
			key = "popupkit." + k
		}
		attrs = append(attrs, attribute.String(key, v))
	}
	otlpSpan.SetAttributes(attrs...)

	otlpSpan.End(oteltrace.WithTimestamp(span.StartTime.Add(span.Duration)))

	currentSpanCtx := otlpSpan.SpanContext()
	for _, child := range span.Children {
		e.exportSpan(ctx, traceHex, child, currentSpanCtx)
	}
}

// hexToTraceID converts a 32-character hex string to trace.TraceID.
func hexToTraceID(hexStr string) (oteltrace.TraceID, error) {
	bytes, err := hex.DecodeString(hexStr)
	if err != nil {
		return oteltrace.TraceID{}, err
	}
	if len(bytes) != 16 {
		return oteltrace.TraceID{}, fmt.Errorf("trace ID must be 16 bytes, got %d", len(bytes))
	}
	var traceID oteltrace.TraceID
	copy(traceID[:], bytes)
	return traceID, nil
}

// Shutdown flushes and closes the exporter.
func (e *OTLPExporter) Shutdown(ctx context.Context) error {
	if e == nil || !e.enabled {
		return nil
	}
	return e.provider.Shutdown(ctx)
}
