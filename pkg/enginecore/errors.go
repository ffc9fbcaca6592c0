package enginecore

import (
	"errors"
	"fmt"
)

// Sentinel errors for runtime construction and use.
var (
	// ErrInvalidConfig indicates the configuration failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrJournalDisabled indicates a journal operation on a runtime
	// without a journal store.
	ErrJournalDisabled = errors.New("journal disabled")

	// ErrClosed indicates the runtime has been closed.
	ErrClosed = errors.New("runtime closed")
)

// JournalError wraps errors from journal operations.
type JournalError struct {
	// Session is the journal session involved.
	Session string
	// Op is the operation that failed ("open", "record", "replay", "close").
	Op string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *JournalError) Error() string {
	if e.Session == "" {
		return fmt.Sprintf("journal %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("journal %s session %s: %v", e.Op, e.Session, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *JournalError) Unwrap() error {
	return e.Err
}
