package journal

import (
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-memory journal store for testing.
// Data is lost when the process exits.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]Record
	seqs     map[string]map[uint64]struct{}
	closed   bool
}

// NewMemoryStore creates a new in-memory journal store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string][]Record),
		seqs:     make(map[string]map[uint64]struct{}),
	}
}

// Append implements Store.
func (m *MemoryStore) Append(rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	seqs, ok := m.seqs[rec.Session]
	if !ok {
		seqs = make(map[uint64]struct{})
		m.seqs[rec.Session] = seqs
	}
	if _, dup := seqs[rec.Seq]; dup {
		return fmt.Errorf("%w: session %s seq %d", ErrDuplicateRecord, rec.Session, rec.Seq)
	}
	seqs[rec.Seq] = struct{}{}

	// Copy payload to avoid retaining caller's slice
	payload := make([]byte, len(rec.Payload))
	copy(payload, rec.Payload)
	rec.Payload = payload

	m.sessions[rec.Session] = append(m.sessions[rec.Session], rec)
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(session string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	records, ok := m.sessions[session]
	if !ok || len(records) == 0 {
		return nil, ErrNotFound
	}

	out := make([]Record, len(records))
	copy(out, records)
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

// Sessions implements Store.
func (m *MemoryStore) Sessions() ([]SessionInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	infos := make([]SessionInfo, 0, len(m.sessions))
	for session, records := range m.sessions {
		info := SessionInfo{Session: session, Records: len(records)}
		for i, rec := range records {
			if rec.Frame > info.Frames {
				info.Frames = rec.Frame
			}
			if i == 0 || rec.Timestamp.Before(info.Started) {
				info.Started = rec.Timestamp
			}
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].Started.Equal(infos[j].Started) {
			return infos[i].Started.Before(infos[j].Started)
		}
		return infos[i].Session < infos[j].Session
	})
	return infos, nil
}

// DeleteSession implements Store.
func (m *MemoryStore) DeleteSession(session string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.sessions, session)
	delete(m.seqs, session)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
