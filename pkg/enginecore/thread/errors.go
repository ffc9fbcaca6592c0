package thread

import "errors"

// MaxArguments is the number of arguments a thread body can receive.
const MaxArguments = 4

// Sentinel errors for thread operations.
var (
	// ErrUndelivered indicates channels still held messages at teardown.
	ErrUndelivered = errors.New("undelivered channel messages")
)
