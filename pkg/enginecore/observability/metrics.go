package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records engine core metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEventPush records an event entering the queue.
	RecordEventPush(ctx context.Context, eventType string)

	// RecordEventPoll records an event leaving the queue.
	RecordEventPoll(ctx context.Context, eventType string)

	// RecordEventsCleared records events discarded by a clear.
	RecordEventsCleared(ctx context.Context, count int)

	// RecordChannelPush records a channel push, how long the pusher waited,
	// and whether the message had been read when the push returned.
	RecordChannelPush(ctx context.Context, channel string, waited time.Duration, read bool)

	// RecordChannelPop records a message consumed from a channel.
	RecordChannelPop(ctx context.Context, channel string)

	// RecordChannelClear records messages discarded by a channel clear.
	RecordChannelClear(ctx context.Context, channel string, discarded int)

	// RecordJobStart records a job submission. async is false when the job
	// ran synchronously because the pool was exhausted or closed.
	RecordJobStart(ctx context.Context, async bool)

	// RecordJobSteal records a pending job executed by a waiting caller.
	RecordJobSteal(ctx context.Context)

	// RecordThreadExit records a thread body finishing.
	RecordThreadExit(ctx context.Context, duration time.Duration, failed bool)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	eventsPushed   metric.Int64Counter
	eventsPolled   metric.Int64Counter
	eventsCleared  metric.Int64Counter
	channelPushes  metric.Int64Counter
	channelPops    metric.Int64Counter
	channelCleared metric.Int64Counter
	pushWait       metric.Float64Histogram
	jobsStarted    metric.Int64Counter
	jobsStolen     metric.Int64Counter
	threadExits    metric.Int64Counter
	threadLatency  metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("enginecore")
	m := &otelMetrics{}
	var err error

	if m.eventsPushed, err = meter.Int64Counter("enginecore.event.pushed",
		metric.WithDescription("Number of events pushed to the queue"),
	); err != nil {
		return nil, err
	}

	if m.eventsPolled, err = meter.Int64Counter("enginecore.event.polled",
		metric.WithDescription("Number of events polled from the queue"),
	); err != nil {
		return nil, err
	}

	if m.eventsCleared, err = meter.Int64Counter("enginecore.event.cleared",
		metric.WithDescription("Number of events discarded by clear"),
	); err != nil {
		return nil, err
	}

	if m.channelPushes, err = meter.Int64Counter("enginecore.channel.pushes",
		metric.WithDescription("Number of channel pushes"),
	); err != nil {
		return nil, err
	}

	if m.channelPops, err = meter.Int64Counter("enginecore.channel.pops",
		metric.WithDescription("Number of channel pops"),
	); err != nil {
		return nil, err
	}

	if m.channelCleared, err = meter.Int64Counter("enginecore.channel.cleared",
		metric.WithDescription("Number of channel messages discarded by clear"),
	); err != nil {
		return nil, err
	}

	if m.pushWait, err = meter.Float64Histogram("enginecore.channel.push_wait_ms",
		metric.WithDescription("Time a pusher spent waiting for its message to be read"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	if m.jobsStarted, err = meter.Int64Counter("enginecore.job.started",
		metric.WithDescription("Number of jobs submitted"),
	); err != nil {
		return nil, err
	}

	if m.jobsStolen, err = meter.Int64Counter("enginecore.job.stolen",
		metric.WithDescription("Number of jobs executed by a waiting caller"),
	); err != nil {
		return nil, err
	}

	if m.threadExits, err = meter.Int64Counter("enginecore.thread.exits",
		metric.WithDescription("Number of thread bodies that finished"),
	); err != nil {
		return nil, err
	}

	if m.threadLatency, err = meter.Float64Histogram("enginecore.thread.duration_ms",
		metric.WithDescription("Thread body run time in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordEventPush records an event push.
func (m *otelMetrics) RecordEventPush(ctx context.Context, eventType string) {
	m.eventsPushed.Add(ctx, 1, metric.WithAttributes(attribute.String("event_type", eventType)))
}

// RecordEventPoll records an event poll.
func (m *otelMetrics) RecordEventPoll(ctx context.Context, eventType string) {
	m.eventsPolled.Add(ctx, 1, metric.WithAttributes(attribute.String("event_type", eventType)))
}

// RecordEventsCleared records discarded events.
func (m *otelMetrics) RecordEventsCleared(ctx context.Context, count int) {
	if count == 0 {
		return
	}
	m.eventsCleared.Add(ctx, int64(count))
}

// RecordChannelPush records a channel push.
func (m *otelMetrics) RecordChannelPush(ctx context.Context, channel string, waited time.Duration, read bool) {
	m.channelPushes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("channel", channel),
		attribute.Bool("read", read),
	))
	if waited > 0 {
		m.pushWait.Record(ctx, DurationMs(waited),
			metric.WithAttributes(attribute.String("channel", channel)))
	}
}

// RecordChannelPop records a channel pop.
func (m *otelMetrics) RecordChannelPop(ctx context.Context, channel string) {
	m.channelPops.Add(ctx, 1, metric.WithAttributes(attribute.String("channel", channel)))
}

// RecordChannelClear records discarded channel messages.
func (m *otelMetrics) RecordChannelClear(ctx context.Context, channel string, discarded int) {
	if discarded == 0 {
		return
	}
	m.channelCleared.Add(ctx, int64(discarded), metric.WithAttributes(attribute.String("channel", channel)))
}

// RecordJobStart records a job submission.
func (m *otelMetrics) RecordJobStart(ctx context.Context, async bool) {
	m.jobsStarted.Add(ctx, 1, metric.WithAttributes(attribute.Bool("async", async)))
}

// RecordJobSteal records a stolen job.
func (m *otelMetrics) RecordJobSteal(ctx context.Context) {
	m.jobsStolen.Add(ctx, 1)
}

// RecordThreadExit records a thread exit.
func (m *otelMetrics) RecordThreadExit(ctx context.Context, duration time.Duration, failed bool) {
	attrs := metric.WithAttributes(attribute.Bool("failed", failed))
	m.threadExits.Add(ctx, 1, attrs)
	m.threadLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
}
