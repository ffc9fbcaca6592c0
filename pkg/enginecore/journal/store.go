package journal

import (
	"errors"
	"time"
)

// Record is one journaled event.
type Record struct {
	Session   string
	Seq       uint64
	Frame     uint64
	Type      string
	Payload   []byte
	Timestamp time.Time
}

// SessionInfo summarizes a recorded session without loading it.
type SessionInfo struct {
	Session string
	Records int
	Frames  uint64
	Started time.Time
}

// Store persists journal records.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append stores a record. (Session, Seq) must be unique.
	Append(rec Record) error

	// Load returns every record of a session ordered by Seq.
	// Returns ErrNotFound if the session has no records.
	Load(session string) ([]Record, error)

	// Sessions lists recorded sessions, oldest first.
	Sessions() ([]SessionInfo, error)

	// DeleteSession removes a session.
	// Returns nil if the session doesn't exist.
	DeleteSession(session string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Sentinel errors for journal operations.
var (
	// ErrNotFound indicates a session has no records.
	ErrNotFound = errors.New("journal session not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("journal store closed")

	// ErrDuplicateRecord indicates a (session, seq) pair already exists.
	ErrDuplicateRecord = errors.New("duplicate journal record")

	// ErrUnknownEventType indicates a record names no known event type.
	ErrUnknownEventType = errors.New("unknown event type")
)
