package enginecore

import (
	"context"
	"log/slog"

	"github.com/benbjohnson/clock"

	"github.com/randalmurphal/enginecore/pkg/enginecore/journal"
	"github.com/randalmurphal/enginecore/pkg/enginecore/observability"
)

// options holds construction settings that don't belong in config.Config.
type options struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	clock   clock.Clock
	store   journal.Store
	ctx     context.Context
}

// Option configures a Runtime.
type Option func(*options)

// WithLogger sets the logger. By default a text logger on stderr at the
// configured level is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics recorder, overriding the metrics setting of
// the configuration.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithSpanManager sets the span manager, overriding the tracing setting of
// the configuration.
func WithSpanManager(sm observability.SpanManager) Option {
	return func(o *options) {
		o.spans = sm
	}
}

// WithClock sets the clock channels use for push and pop deadlines.
// Tests pass a clock.Mock.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithJournalStore records events into store. The caller keeps ownership:
// Close does not close it. It enables the journal regardless of the
// configuration.
func WithJournalStore(store journal.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithContext sets the parent context of every thread body. Close cancels
// the derived context.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}
