package errors

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errBusy = errors.New("busy")

func busyRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		BackoffFactor:  2,
		Retryable:      func(err error) bool { return errors.Is(err, errBusy) },
	}
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	attempts, err := Retry(context.Background(), busyRetry(5), func(context.Context) error {
		calls++
		if calls < 3 {
			return errBusy
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("constraint failed")
	calls := 0
	attempts, err := Retry(context.Background(), busyRetry(5), func(context.Context) error {
		calls++
		return permanent
	})
	if err != permanent {
		t.Errorf("Retry() error = %v, want the original error", err)
	}
	if attempts != 1 || calls != 1 {
		t.Errorf("attempts = %d, calls = %d, want 1", attempts, calls)
	}
}

func TestRetryExhausted(t *testing.T) {
	attempts, err := Retry(context.Background(), busyRetry(3), func(context.Context) error {
		return errBusy
	})
	if !errors.Is(err, errBusy) {
		t.Errorf("Retry() error = %v, want wrapped errBusy", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetryNoRetry(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), NoRetry, func(context.Context) error {
		calls++
		return errBusy
	})
	if err != errBusy || calls != 1 {
		t.Errorf("err = %v, calls = %d", err, calls)
	}
}

func TestRetryContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts, err := Retry(ctx, busyRetry(3), func(context.Context) error {
		t.Fatal("fn must not run with a cancelled context")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() error = %v, want context.Canceled", err)
	}
	if attempts != 0 {
		t.Errorf("attempts = %d, want 0", attempts)
	}
}

func TestCalculateBackoff(t *testing.T) {
	base := 100 * time.Millisecond
	if got := calculateBackoff(base, 0); got != base {
		t.Errorf("no jitter: got %v, want %v", got, base)
	}
	for i := 0; i < 20; i++ {
		got := calculateBackoff(base, 0.5)
		if got < 50*time.Millisecond || got > 150*time.Millisecond {
			t.Fatalf("jittered backoff %v out of range", got)
		}
	}
}
