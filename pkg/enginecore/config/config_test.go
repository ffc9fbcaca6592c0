package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/randalmurphal/enginecore/pkg/enginecore/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, -1, cfg.Workers)
	assert.Equal(t, config.MaxJobs, cfg.JobCapacity)
	assert.Equal(t, config.WaitSpin, cfg.WaitStrategy)
	assert.Equal(t, 64, cfg.EventCapacity)
	assert.False(t, cfg.Journal.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr error
	}{
		{"defaults", func(*config.Config) {}, nil},
		{"block strategy", func(c *config.Config) { c.WaitStrategy = config.WaitBlock }, nil},
		{"zero capacity", func(c *config.Config) { c.JobCapacity = 0 }, config.ErrInvalidJobCapacity},
		{"bad strategy", func(c *config.Config) { c.WaitStrategy = "sleepy" }, config.ErrInvalidWaitStrategy},
		{"bad level", func(c *config.Config) { c.Observability.LogLevel = "loud" }, config.ErrInvalidLogLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateNegativeEventCapacity(t *testing.T) {
	cfg := config.Default()
	cfg.EventCapacity = -1
	assert.Error(t, cfg.Validate())
}

func TestResolveWorkers(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		cores   int
		want    int
	}{
		{"absolute", 4, 8, 4},
		{"relative", -1, 8, 7},
		{"relative below zero", -10, 8, 0},
		{"zero", 0, 8, 0},
		{"capped", 200, 8, config.MaxWorkers},
		{"single core relative", -1, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Workers = tt.workers
			assert.Equal(t, tt.want, cfg.ResolveWorkers(tt.cores))
		})
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := config.Default()
			cfg.Observability.LogLevel = tt.level
			assert.Equal(t, tt.want, cfg.LogLevel())
		})
	}
}

func TestFromYAML(t *testing.T) {
	data := []byte(`
workers: 3
wait_strategy: block
journal:
  enabled: true
  session: demo
observability:
  log_level: debug
  metrics: true
`)

	cfg, err := config.FromYAML(data)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, config.WaitBlock, cfg.WaitStrategy)
	assert.True(t, cfg.Journal.Enabled)
	assert.Equal(t, "demo", cfg.Journal.Session)
	assert.True(t, cfg.Observability.Metrics)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())

	// Absent keys keep defaults
	assert.Equal(t, config.MaxJobs, cfg.JobCapacity)
	assert.Equal(t, 64, cfg.EventCapacity)
}

func TestFromYAMLInvalid(t *testing.T) {
	_, err := config.FromYAML([]byte("workers: [unclosed"))
	assert.Error(t, err)

	_, err = config.FromYAML([]byte("wait_strategy: nap"))
	assert.ErrorIs(t, err, config.ErrInvalidWaitStrategy)
}

func TestFromJSON(t *testing.T) {
	cfg, err := config.FromJSON([]byte(`{"workers": 2, "job_capacity": 16}`))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 16, cfg.JobCapacity)
	assert.Equal(t, config.WaitSpin, cfg.WaitStrategy)

	_, err = config.FromJSON([]byte(`{"job_capacity": -5}`))
	assert.ErrorIs(t, err, config.ErrInvalidJobCapacity)
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "engine.yaml")
		require.NoError(t, os.WriteFile(path, []byte("workers: 5\n"), 0o600))

		cfg, err := config.FromFile(path)
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Workers)
	})

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(dir, "engine.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"event_capacity": 8}`), 0o600))

		cfg, err := config.FromFile(path)
		require.NoError(t, err)
		assert.Equal(t, 8, cfg.EventCapacity)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(dir, "engine.toml")
		require.NoError(t, os.WriteFile(path, []byte("workers = 1"), 0o600))

		_, err := config.FromFile(path)
		assert.ErrorContains(t, err, "unsupported config file extension")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.FromFile(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})
}
