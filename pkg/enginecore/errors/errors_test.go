package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestCategoryString(t *testing.T) {
	tests := []struct {
		category Category
		expected string
	}{
		{CategoryFatal, "fatal"},
		{CategoryReported, "reported"},
		{CategoryDegraded, "degraded"},
		{CategoryProgrammer, "programmer"},
		{Category(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.category.String(); got != tt.expected {
				t.Errorf("Category(%d).String() = %s, want %s", tt.category, got, tt.expected)
			}
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Category
	}{
		{"nil error", nil, CategoryFatal},
		{"contract error", Contract("event", "unknown type %d", 42), CategoryProgrammer},
		{"wrapped contract error", fmt.Errorf("push: %w", Contract("event", "bad")), CategoryProgrammer},
		{"thread error", &ThreadError{ThreadID: "t1", Message: "boom"}, CategoryReported},
		{"degraded", Degraded(errors.New("pool exhausted"), "job start"), CategoryDegraded},
		{"categorized fatal", Fatal(errors.New("x"), ""), CategoryFatal},
		{"unknown error", errors.New("unknown"), CategoryFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorize(tt.err); got != tt.expected {
				t.Errorf("Categorize() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestCategorizedError(t *testing.T) {
	t.Run("error message with context", func(t *testing.T) {
		err := Fatal(errors.New("no memory"), "job init")
		expected := "job init: no memory (category: fatal)"
		if got := err.Error(); got != expected {
			t.Errorf("Error() = %q, want %q", got, expected)
		}
	})

	t.Run("error message without context", func(t *testing.T) {
		err := Degraded(errors.New("ran inline"), "")
		expected := "ran inline (category: degraded)"
		if got := err.Error(); got != expected {
			t.Errorf("Error() = %q, want %q", got, expected)
		}
	})

	t.Run("unwrap", func(t *testing.T) {
		inner := errors.New("inner")
		err := Degraded(inner, "close channel registry")
		if !errors.Is(err, inner) {
			t.Error("expected errors.Is to find inner error")
		}
	})
}

func TestContractError(t *testing.T) {
	err := Contract("thread", "too many arguments (max is %d)", 4)
	if got := err.Error(); got != "thread: too many arguments (max is 4)" {
		t.Errorf("Error() = %q", got)
	}
	if !IsProgrammerError(err) {
		t.Error("expected programmer error")
	}
	if IsFatal(err) {
		t.Error("contract errors are not fatal")
	}
}

func TestThreadError(t *testing.T) {
	orig := errors.New("script failed")
	err := &ThreadError{ThreadID: "abc", Message: "script failed", Original: orig}

	if got := err.Error(); got != "thread abc: script failed" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, orig) {
		t.Error("expected unwrap to original")
	}

	var target *ThreadError
	wrapped := fmt.Errorf("wait: %w", err)
	if !errors.As(wrapped, &target) {
		t.Fatal("expected errors.As to find ThreadError")
	}
	if target.ThreadID != "abc" {
		t.Errorf("ThreadID = %q", target.ThreadID)
	}
}

func TestPanicError(t *testing.T) {
	err := &PanicError{Value: "oops", Stack: "goroutine 1"}
	if got := err.Error(); got != "panic: oops" {
		t.Errorf("Error() = %q", got)
	}
}
