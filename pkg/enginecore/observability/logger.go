// Package observability provides logging, metrics, and tracing for the
// engine core: structured logging via slog, metrics and tracing via
// OpenTelemetry.
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// nopHandler discards every record. Enabled returns false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// NopLogger returns a logger that discards all output.
func NopLogger() *slog.Logger {
	return slog.New(nopHandler{})
}

// EnrichLogger adds component context to a logger.
//
// Example:
//
//	logger := EnrichLogger(base, "channel", "physics")
//	logger.Debug("cleared") // includes component and name
func EnrichLogger(logger *slog.Logger, component, name string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("component", component),
		slog.String("name", name),
	)
}

// LogRuntimeStart logs runtime initialization.
func LogRuntimeStart(logger *slog.Logger, runtimeID string, workers, jobCapacity int) {
	if logger == nil {
		return
	}
	logger.Info("engine core starting",
		slog.String("runtime_id", runtimeID),
		slog.Int("workers", workers),
		slog.Int("job_capacity", jobCapacity),
	)
}

// LogRuntimeStop logs runtime teardown.
func LogRuntimeStop(logger *slog.Logger, runtimeID string, err error) {
	if logger == nil {
		return
	}
	if err != nil {
		logger.Error("engine core stopped with errors",
			slog.String("runtime_id", runtimeID),
			slog.String("error", err.Error()),
		)
		return
	}
	logger.Info("engine core stopped",
		slog.String("runtime_id", runtimeID),
	)
}

// LogThreadStart logs a thread goroutine starting.
func LogThreadStart(logger *slog.Logger, threadID string, argCount int) {
	if logger == nil {
		return
	}
	logger.Debug("thread starting",
		slog.String("thread_id", threadID),
		slog.Int("arguments", argCount),
	)
}

// LogThreadExit logs a thread goroutine finishing. A non-empty errMsg
// is logged at error level.
func LogThreadExit(logger *slog.Logger, threadID string, durationMs float64, errMsg string) {
	if logger == nil {
		return
	}
	if errMsg != "" {
		logger.Error("thread failed",
			slog.String("thread_id", threadID),
			slog.Float64("duration_ms", durationMs),
			slog.String("error", errMsg),
		)
		return
	}
	logger.Debug("thread finished",
		slog.String("thread_id", threadID),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogChannelCreated logs lazy creation of a named channel.
func LogChannelCreated(logger *slog.Logger, name string, hash uint64) {
	if logger == nil {
		return
	}
	logger.Debug("channel created",
		slog.String("channel", name),
		slog.Uint64("hash", hash),
	)
}

// LogChannelDestroyed logs channel teardown with the number of undelivered messages.
func LogChannelDestroyed(logger *slog.Logger, name string, discarded int) {
	if logger == nil {
		return
	}
	if discarded > 0 {
		logger.Warn("channel destroyed with pending messages",
			slog.String("channel", name),
			slog.Int("discarded", discarded),
		)
		return
	}
	logger.Debug("channel destroyed",
		slog.String("channel", name),
	)
}

// LogEventsCleared logs events discarded by a queue clear.
func LogEventsCleared(logger *slog.Logger, count int) {
	if logger == nil || count == 0 {
		return
	}
	logger.Debug("events cleared",
		slog.Int("count", count),
	)
}

// LogSchedulerStart logs job scheduler startup.
func LogSchedulerStart(logger *slog.Logger, workers, capacity int, strategy string) {
	if logger == nil {
		return
	}
	logger.Debug("job scheduler starting",
		slog.Int("workers", workers),
		slog.Int("capacity", capacity),
		slog.String("wait_strategy", strategy),
	)
}

// LogJobFallback logs a job that ran synchronously on the caller.
func LogJobFallback(logger *slog.Logger, reason string) {
	if logger == nil {
		return
	}
	logger.Debug("job ran synchronously",
		slog.String("reason", reason),
	)
}

// LogJobPanic logs a recovered panic from a job function.
func LogJobPanic(logger *slog.Logger, value any, stack string) {
	if logger == nil {
		return
	}
	logger.Error("job panicked",
		slog.Any("panic", value),
		slog.String("stack", stack),
	)
}

// LogJournalError logs a journal failure (non-fatal).
func LogJournalError(logger *slog.Logger, session string, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("journal failed",
		slog.String("session", session),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// TimedOperation starts a stopwatch. The returned function reports the time
// elapsed since the call.
//
// Example:
//
//	elapsed := TimedOperation()
//	// ... do work ...
//	logger.Info("done", slog.Float64("duration_ms", DurationMs(elapsed())))
func TimedOperation() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

// DurationMs converts d to fractional milliseconds for log attributes.
func DurationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
