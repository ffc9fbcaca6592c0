package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
// Use when metrics are disabled to avoid overhead.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordEventPush does nothing.
func (NoopMetrics) RecordEventPush(_ context.Context, _ string) {}

// RecordEventPoll does nothing.
func (NoopMetrics) RecordEventPoll(_ context.Context, _ string) {}

// RecordEventsCleared does nothing.
func (NoopMetrics) RecordEventsCleared(_ context.Context, _ int) {}

// RecordChannelPush does nothing.
func (NoopMetrics) RecordChannelPush(_ context.Context, _ string, _ time.Duration, _ bool) {}

// RecordChannelPop does nothing.
func (NoopMetrics) RecordChannelPop(_ context.Context, _ string) {}

// RecordChannelClear does nothing.
func (NoopMetrics) RecordChannelClear(_ context.Context, _ string, _ int) {}

// RecordJobStart does nothing.
func (NoopMetrics) RecordJobStart(_ context.Context, _ bool) {}

// RecordJobSteal does nothing.
func (NoopMetrics) RecordJobSteal(_ context.Context) {}

// RecordThreadExit does nothing.
func (NoopMetrics) RecordThreadExit(_ context.Context, _ time.Duration, _ bool) {}

// NoopSpanManager is a SpanManager that does nothing.
// Use when tracing is disabled to avoid overhead.
type NoopSpanManager struct{}

// Compile-time interface check.
var _ SpanManager = NoopSpanManager{}

var noopSpan = noop.Span{}

// StartThreadSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartThreadSpan(ctx context.Context, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// StartJobWaitSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartJobWaitSpan(ctx context.Context) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithError does nothing.
func (NoopSpanManager) EndSpanWithError(_ trace.Span, _ error) {}

// AddSpanEvent does nothing.
func (NoopSpanManager) AddSpanEvent(_ context.Context, _ string, _ ...attribute.KeyValue) {}
