package errors

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// RetryConfig configures retry behavior.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	MaxAttempts int

	// InitialBackoff is the starting backoff duration.
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration.
	MaxBackoff time.Duration

	// BackoffFactor is the multiplier applied to backoff after each attempt.
	BackoffFactor float64

	// Jitter is the random jitter factor (0.0-1.0).
	Jitter float64

	// Retryable reports whether an error is worth another attempt.
	// Nil retries nothing.
	Retryable func(error) bool
}

// NoRetry disables retries.
var NoRetry = RetryConfig{
	MaxAttempts: 1,
}

// Retry calls fn until it succeeds, fails with a non-retryable error, the
// attempts run out or ctx is done. It returns the number of attempts made.
// Non-retryable errors are returned unchanged.
func Retry(ctx context.Context, cfg RetryConfig, fn func(context.Context) error) (int, error) {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	backoff := cfg.InitialBackoff
	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt, err
		}

		err := fn(ctx)
		if err == nil {
			return attempt + 1, nil
		}
		lastErr = err

		if cfg.Retryable == nil || !cfg.Retryable(err) {
			return attempt + 1, err
		}

		// Don't sleep after the last attempt
		if attempt < cfg.MaxAttempts-1 {
			timer := time.NewTimer(calculateBackoff(backoff, cfg.Jitter))
			select {
			case <-ctx.Done():
				timer.Stop()
				return attempt + 1, ctx.Err()
			case <-timer.C:
			}

			backoff = time.Duration(float64(backoff) * cfg.BackoffFactor)
			if cfg.MaxBackoff > 0 && backoff > cfg.MaxBackoff {
				backoff = cfg.MaxBackoff
			}
		}
	}

	return cfg.MaxAttempts, fmt.Errorf("max retries exceeded (%d attempts): %w", cfg.MaxAttempts, lastErr)
}

// calculateBackoff returns the backoff duration with jitter applied.
func calculateBackoff(base time.Duration, jitter float64) time.Duration {
	if jitter <= 0 {
		return base
	}

	// base +/- (base * jitter * random)
	jitterAmount := float64(base) * jitter * (rand.Float64()*2 - 1)
	return time.Duration(float64(base) + jitterAmount)
}
