package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Wait strategies for the job scheduler.
const (
	WaitSpin  = "spin"
	WaitBlock = "block"
)

// Limits mirrored from the job package so configs can be validated
// without importing it.
const (
	MaxWorkers = 64
	MaxJobs    = 1024
)

// Config holds runtime settings for an engine core instance.
// The zero value is not usable; start from Default().
type Config struct {
	// Workers is the number of job scheduler workers.
	// Negative values are relative to the CPU count: -1 means "all cores but one".
	// Default: -1
	Workers int `yaml:"workers" json:"workers"`

	// JobCapacity is the number of job slots. When all slots are in use,
	// new jobs run synchronously on the caller.
	// Default: 1024
	JobCapacity int `yaml:"job_capacity" json:"job_capacity"`

	// WaitStrategy selects how job waits idle: "spin" yields the processor
	// between steal attempts, "block" sleeps on a condition variable.
	// Default: "spin"
	WaitStrategy string `yaml:"wait_strategy" json:"wait_strategy"`

	// EventCapacity is the initial capacity of the event queue buffer.
	// Default: 64
	EventCapacity int `yaml:"event_capacity" json:"event_capacity"`

	// Journal configures event recording.
	Journal JournalConfig `yaml:"journal" json:"journal"`

	// Observability configures logging, metrics and tracing.
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
}

// JournalConfig configures event recording.
type JournalConfig struct {
	// Enabled turns on recording of every pushed event.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Path is the SQLite database path. Empty keeps the journal in memory.
	Path string `yaml:"path" json:"path"`

	// Session names the recording. Empty generates a new session ID.
	Session string `yaml:"session" json:"session"`
}

// ObservabilityConfig configures logging, metrics and tracing.
type ObservabilityConfig struct {
	// LogLevel is one of debug, info, warn, error.
	// Default: "info"
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Metrics enables OpenTelemetry metrics via the global meter provider.
	Metrics bool `yaml:"metrics" json:"metrics"`

	// Tracing enables OpenTelemetry spans via the global tracer provider.
	Tracing bool `yaml:"tracing" json:"tracing"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Workers:       -1,
		JobCapacity:   MaxJobs,
		WaitStrategy:  WaitSpin,
		EventCapacity: 64,
		Observability: ObservabilityConfig{
			LogLevel: "info",
		},
	}
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidJobCapacity indicates a non-positive job capacity.
	ErrInvalidJobCapacity = errors.New("job capacity must be positive")

	// ErrInvalidWaitStrategy indicates an unknown wait strategy.
	ErrInvalidWaitStrategy = errors.New("unknown wait strategy")

	// ErrInvalidLogLevel indicates an unknown log level.
	ErrInvalidLogLevel = errors.New("unknown log level")
)

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.JobCapacity <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidJobCapacity, c.JobCapacity)
	}
	if c.EventCapacity < 0 {
		return fmt.Errorf("event capacity must not be negative: %d", c.EventCapacity)
	}
	switch c.WaitStrategy {
	case WaitSpin, WaitBlock:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidWaitStrategy, c.WaitStrategy)
	}
	if _, err := parseLevel(c.Observability.LogLevel); err != nil {
		return err
	}
	return nil
}

// ResolveWorkers converts the configured worker count into an absolute
// number for a machine with the given number of cores.
// Negative counts are added to cores; the result is clamped to [0, MaxWorkers].
func (c Config) ResolveWorkers(cores int) int {
	n := c.Workers
	if n < 0 {
		n += cores
	}
	if n < 0 {
		n = 0
	}
	if n > MaxWorkers {
		n = MaxWorkers
	}
	return n
}

// LogLevel returns the configured slog level.
// Invalid levels fall back to info; call Validate to detect them.
func (c Config) LogLevel() slog.Level {
	level, err := parseLevel(c.Observability.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
	}
}
