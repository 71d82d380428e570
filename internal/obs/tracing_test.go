// Copyright 2025 James Ross
package obs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMaybeInitTracingDisabled(t *testing.T) {
	tp, err := MaybeInitTracing(TracingSettings{Enabled: false}, nil)
	require.NoError(t, err)
	assert.Nil(t, tp)
}

func TestMaybeInitTracingEnabledInstallsGlobalProvider(t *testing.T) {
	otel.SetTracerProvider(trace.NewNoopTracerProvider())

	tp, err := MaybeInitTracing(TracingSettings{
		Enabled: true, ServiceName: "montecarlo", Environment: "test",
		SamplingStrategy: "always", SamplingRate: 1.0,
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, tp)
	defer tp.Shutdown(context.Background())

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok)

	_, ok = otel.GetTextMapPropagator().(propagation.TextMapPropagator)
	assert.True(t, ok)
}

func TestMaybeInitTracingSamplingStrategies(t *testing.T) {
	for _, strategy := range []string{"always", "never", "probabilistic", "unknown"} {
		t.Run(strategy, func(t *testing.T) {
			tp, err := MaybeInitTracing(TracingSettings{
				Enabled: true, SamplingStrategy: strategy, SamplingRate: 0.5,
			}, nil)
			require.NoError(t, err)
			require.NotNil(t, tp)
			tp.Shutdown(context.Background())
		})
	}
}

func TestRecordErrorAndSetSpanSuccess(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	defer tp.Shutdown(context.Background())

	tracer := otel.Tracer("test")
	ctx, span := tracer.Start(context.Background(), "test-span")
	defer span.End()

	RecordError(ctx, assertError{"boom"})
	RecordError(ctx, nil)
	RecordError(context.Background(), assertError{"boom"})

	SetSpanSuccess(ctx)
	SetSpanSuccess(context.Background())
}

func TestInjectExtractTraceContextRoundTrip(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	defer tp.Shutdown(context.Background())

	tracer := otel.Tracer("test")
	originalCtx, originalSpan := tracer.Start(context.Background(), "original")
	defer originalSpan.End()

	originalTraceID, originalSpanID := GetTraceAndSpanID(originalCtx)
	assert.NotEmpty(t, originalTraceID)

	carrier := InjectTraceContext(originalCtx)
	assert.NotEmpty(t, carrier)

	newCtx := ExtractTraceContext(context.Background(), carrier)
	newCtx, childSpan := tracer.Start(newCtx, "child")
	defer childSpan.End()

	childTraceID, childSpanID := GetTraceAndSpanID(newCtx)
	assert.Equal(t, originalTraceID, childTraceID)
	assert.NotEqual(t, originalSpanID, childSpanID)
}

func TestGetTraceAndSpanIDWithoutSpanIsEmpty(t *testing.T) {
	traceID, spanID := GetTraceAndSpanID(context.Background())
	assert.Empty(t, traceID)
	assert.Empty(t, spanID)
}

func TestAddEventAndAddSpanAttributes(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	defer tp.Shutdown(context.Background())

	tracer := otel.Tracer("test")
	ctx, span := tracer.Start(context.Background(), "test-span")
	defer span.End()

	AddEvent(ctx, "checkpoint", attribute.Int("iteration", 1000))
	AddEvent(context.Background(), "no-span-event")

	AddSpanAttributes(ctx, attribute.String("risk.id", "r1"))
	AddSpanAttributes(context.Background(), attribute.String("no-span", "value"))
}

func TestTracerShutdownNilIsNoop(t *testing.T) {
	assert.NoError(t, TracerShutdown(context.Background(), nil))
}

func TestKeyValue(t *testing.T) {
	cases := []struct {
		name     string
		value    interface{}
		expected attribute.Type
	}{
		{"string", "value", attribute.STRING},
		{"int", 42, attribute.INT64},
		{"int64", int64(42), attribute.INT64},
		{"float64", 3.14, attribute.FLOAT64},
		{"bool", true, attribute.BOOL},
		{"other", struct{}{}, attribute.STRING},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kv := KeyValue("k", tc.value)
			assert.Equal(t, tc.expected, kv.Value.Type())
		})
	}
}

type assertError struct{ message string }

func (e assertError) Error() string { return e.message }
