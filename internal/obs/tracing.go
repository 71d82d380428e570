// Copyright 2025 James Ross
package obs

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TracingSettings configures the global tracer provider. It is
// intentionally separate from config.Configuration: tracing is an
// ambient concern of the process, not an option of a simulation run.
type TracingSettings struct {
	Enabled          bool
	ServiceName      string
	Environment      string
	SamplingStrategy string // "always", "never", "probabilistic"
	SamplingRate     float64
}

// MaybeInitTracing installs a global tracer provider when tracing is
// enabled, exporting spans through the caller-supplied exporter (a
// batch OTLP exporter in production, an in-memory one in tests).
// exporter may be nil, in which case spans are sampled and discarded —
// useful for exercising the simulation engine's span/attribute calls
// in a test without standing up a collector.
func MaybeInitTracing(settings TracingSettings, exporter sdktrace.SpanExporter) (*sdktrace.TracerProvider, error) {
	if !settings.Enabled {
		return nil, nil
	}

	hostname, _ := os.Hostname()
	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", settings.ServiceName),
		attribute.String("host.name", hostname),
		attribute.String("environment", settings.Environment),
	)

	var sampler sdktrace.Sampler
	switch settings.SamplingStrategy {
	case "always":
		sampler = sdktrace.AlwaysSample()
	case "never":
		sampler = sdktrace.NeverSample()
	default:
		sampler = sdktrace.TraceIDRatioBased(settings.SamplingRate)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp, nil
}

// RecordError records an error on the span carried by ctx, if any.
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() && err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess marks the span carried by ctx as successful.
func SetSpanSuccess(ctx context.Context) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetStatus(codes.Ok, "success")
	}
}

// ExtractTraceContext extracts trace context from a map carrier, used
// when a span needs to cross a boundary that can't carry context.Context
// directly (a cache entry, a persisted scenario).
func ExtractTraceContext(ctx context.Context, carrier map[string]string) context.Context {
	prop := otel.GetTextMapPropagator()
	return prop.Extract(ctx, propagation.MapCarrier(carrier))
}

// InjectTraceContext injects the span in ctx into a map carrier.
func InjectTraceContext(ctx context.Context) map[string]string {
	carrier := make(map[string]string)
	prop := otel.GetTextMapPropagator()
	prop.Inject(ctx, propagation.MapCarrier(carrier))
	return carrier
}

// GetTraceAndSpanID returns the hex trace and span IDs of the span
// carried by ctx, or two empty strings if ctx carries no valid span.
func GetTraceAndSpanID(ctx context.Context) (traceID string, spanID string) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		sc := span.SpanContext()
		if sc.IsValid() {
			return sc.TraceID().String(), sc.SpanID().String()
		}
	}
	return "", ""
}

// AddEvent adds a named event with attributes to the span in ctx.
func AddEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent(name, trace.WithAttributes(attrs...))
	}
}

// AddSpanAttributes sets attributes on the span in ctx.
func AddSpanAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(attrs...)
	}
}

// TracerShutdown gracefully shuts down tp. Safe to call with a nil
// provider, which happens whenever tracing was never enabled.
func TracerShutdown(ctx context.Context, tp *sdktrace.TracerProvider) error {
	if tp == nil {
		return nil
	}
	return tp.Shutdown(ctx)
}

// KeyValue builds an attribute.KeyValue from a Go value of one of the
// common scalar types, falling back to its string representation.
func KeyValue(key string, value interface{}) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
