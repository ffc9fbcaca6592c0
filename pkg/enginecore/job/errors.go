package job

import "errors"

// Sentinel errors for scheduler configuration.
var (
	// ErrInvalidWorkers indicates a negative worker count.
	ErrInvalidWorkers = errors.New("worker count must not be negative")

	// ErrInvalidCapacity indicates a negative job capacity.
	ErrInvalidCapacity = errors.New("job capacity must not be negative")

	// ErrInvalidWaitStrategy indicates an unknown wait strategy.
	ErrInvalidWaitStrategy = errors.New("unknown wait strategy")
)
