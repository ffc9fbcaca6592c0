package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"modernc.org/sqlite" // Pure Go SQLite driver
	sqlite3 "modernc.org/sqlite/lib"

	ecerrors "github.com/randalmurphal/enginecore/pkg/enginecore/errors"
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// busyRetry retries writes while another connection holds the database lock.
var busyRetry = ecerrors.RetryConfig{
	MaxAttempts:    5,
	InitialBackoff: 2 * time.Millisecond,
	MaxBackoff:     50 * time.Millisecond,
	BackoffFactor:  2,
	Jitter:         0.2,
	Retryable:      isBusy,
}

func isBusy(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	default:
		return false
	}
}

// SQLiteStore persists journal records to SQLite.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore creates a new SQLite journal store.
// The path should be a file path (e.g., "./journal.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS journal (
			session TEXT NOT NULL,
			seq INTEGER NOT NULL,
			frame INTEGER NOT NULL,
			event_type TEXT NOT NULL,
			payload BLOB NOT NULL,
			timestamp TEXT NOT NULL,
			PRIMARY KEY (session, seq)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Append implements Store.
func (s *SQLiteStore) Append(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	payload := rec.Payload
	if payload == nil {
		payload = []byte{}
	}

	var res sql.Result
	_, err := ecerrors.Retry(context.Background(), busyRetry, func(ctx context.Context) error {
		var err error
		res, err = s.db.ExecContext(ctx, `
			INSERT OR IGNORE INTO journal (session, seq, frame, event_type, payload, timestamp)
			VALUES (?, ?, ?, ?, ?, ?)
		`, rec.Session, int64(rec.Seq), int64(rec.Frame), rec.Type, payload,
			rec.Timestamp.UTC().Format(timeLayout))
		return err
	})
	if err != nil {
		return fmt.Errorf("append record: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: session %s seq %d", ErrDuplicateRecord, rec.Session, rec.Seq)
	}
	return nil
}

// Load implements Store.
func (s *SQLiteStore) Load(session string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT seq, frame, event_type, payload, timestamp
		FROM journal
		WHERE session = ?
		ORDER BY seq
	`, session)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec       Record
			seq       int64
			frame     int64
			timestamp string
		)
		if err := rows.Scan(&seq, &frame, &rec.Type, &rec.Payload, &timestamp); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Session = session
		rec.Seq = uint64(seq)
		rec.Frame = uint64(frame)
		rec.Timestamp, _ = time.Parse(timeLayout, timestamp)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records, nil
}

// Sessions implements Store.
func (s *SQLiteStore) Sessions() ([]SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT session, COUNT(*), MAX(frame), MIN(timestamp)
		FROM journal
		GROUP BY session
		ORDER BY MIN(timestamp), session
	`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var infos []SessionInfo
	for rows.Next() {
		var (
			info    SessionInfo
			frames  int64
			started string
		)
		if err := rows.Scan(&info.Session, &info.Records, &frames, &started); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		info.Frames = uint64(frames)
		info.Started, _ = time.Parse(timeLayout, started)
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return infos, nil
}

// DeleteSession implements Store.
func (s *SQLiteStore) DeleteSession(session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err := ecerrors.Retry(context.Background(), busyRetry, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM journal WHERE session = ?`, session)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}
