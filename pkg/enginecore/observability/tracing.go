package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the engine core tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("enginecore")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartThreadSpan starts a span covering one run of a thread body.
	StartThreadSpan(ctx context.Context, threadID string) (context.Context, trace.Span)

	// StartJobWaitSpan starts a span covering a caller waiting on a job.
	StartJobWaitSpan(ctx context.Context) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartThreadSpan starts a span for a thread body.
func (m *otelSpanManager) StartThreadSpan(ctx context.Context, threadID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "enginecore.thread",
		trace.WithAttributes(
			attribute.String("thread.id", threadID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartJobWaitSpan starts a span for a job wait.
func (m *otelSpanManager) StartJobWaitSpan(ctx context.Context) (context.Context, trace.Span) {
	return tracer.Start(ctx, "enginecore.job.wait",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
