// Package errors provides the error taxonomy shared by the engine core.
//
// Errors fall into four categories:
//   - Fatal: resource exhaustion during required initialization
//   - Reported: failures captured and surfaced later (a thread body's error)
//   - Degraded: the operation succeeded in a reduced mode (job pool exhaustion)
//   - Programmer: caller contract violations, raised as panics
package errors

import (
	"errors"
	"fmt"
)

// Category represents how an error should be handled.
type Category int

const (
	// CategoryFatal indicates the calling operation cannot proceed.
	// Examples: a required worker could not be created, an allocation failed.
	CategoryFatal Category = iota

	// CategoryReported indicates a failure that is recorded and surfaced
	// through a query rather than returned. Example: Thread error strings.
	CategoryReported

	// CategoryDegraded indicates the operation completed in a reduced mode.
	// Example: a job ran synchronously because the pool was exhausted.
	CategoryDegraded

	// CategoryProgrammer indicates a contract violation by the caller.
	// Examples: unknown event type, too many thread arguments.
	CategoryProgrammer
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryFatal:
		return "fatal"
	case CategoryReported:
		return "reported"
	case CategoryDegraded:
		return "degraded"
	case CategoryProgrammer:
		return "programmer"
	default:
		return "unknown"
	}
}

// CategorizedError wraps an error with its category and context.
type CategorizedError struct {
	// Err is the underlying error.
	Err error

	// Category indicates how this error should be handled.
	Category Category

	// Context describes what operation was being attempted.
	Context string
}

// Error implements the error interface.
func (e *CategorizedError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s (category: %s)", e.Context, e.Err, e.Category)
	}
	return fmt.Sprintf("%s (category: %s)", e.Err, e.Category)
}

// Unwrap returns the underlying error.
func (e *CategorizedError) Unwrap() error {
	return e.Err
}

// Fatal creates a fatal error.
func Fatal(err error, context string) *CategorizedError {
	return &CategorizedError{Err: err, Category: CategoryFatal, Context: context}
}

// Degraded creates a degraded-mode error.
func Degraded(err error, context string) *CategorizedError {
	return &CategorizedError{Err: err, Category: CategoryDegraded, Context: context}
}

// Categorize determines how an error should be handled.
func Categorize(err error) Category {
	if err == nil {
		return CategoryFatal // shouldn't happen, fail safe
	}

	var catErr *CategorizedError
	if errors.As(err, &catErr) {
		return catErr.Category
	}

	var contractErr *ContractError
	if errors.As(err, &contractErr) {
		return CategoryProgrammer
	}

	var threadErr *ThreadError
	if errors.As(err, &threadErr) {
		return CategoryReported
	}

	// Unknown errors are fatal (fail safe)
	return CategoryFatal
}

// IsFatal reports whether the error aborts the calling operation.
func IsFatal(err error) bool {
	return Categorize(err) == CategoryFatal
}

// IsProgrammerError reports whether the error is a contract violation.
func IsProgrammerError(err error) bool {
	return Categorize(err) == CategoryProgrammer
}
