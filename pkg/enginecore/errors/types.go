package errors

import "fmt"

// ContractError indicates a caller broke an API contract.
// It is used as a panic value; it is never returned for runtime conditions.
type ContractError struct {
	// Component is the subsystem whose contract was violated ("event", "job").
	Component string
	Message   string
}

// Error implements the error interface.
func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: %s", e.Component, e.Message)
}

// Contract creates a ContractError with a formatted message.
func Contract(component, format string, args ...any) *ContractError {
	return &ContractError{
		Component: component,
		Message:   fmt.Sprintf(format, args...),
	}
}

// ThreadError records the failure of a thread body.
type ThreadError struct {
	ThreadID string
	Message  string
	Original error
}

// Error implements the error interface.
func (e *ThreadError) Error() string {
	return fmt.Sprintf("thread %s: %s", e.ThreadID, e.Message)
}

// Unwrap returns the original error.
func (e *ThreadError) Unwrap() error {
	return e.Original
}

// PanicError captures a recovered panic from user code (job or thread body).
type PanicError struct {
	Value any
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
