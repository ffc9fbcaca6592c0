package journal

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/enginecore/pkg/enginecore/event"
	"github.com/randalmurphal/enginecore/pkg/enginecore/observability"
)

// ErrRecorderClosed is reported for events recorded after Close.
var ErrRecorderClosed = errors.New("journal recorder closed")

// Recorder writes every event pushed to a queue into a Store. It implements
// event.Recorder; attach it with event.WithRecorder or Queue.SetRecorder.
//
// Record only encodes the event and assigns its sequence number; a writer
// goroutine appends to the store. Call Flush to wait for pending records and
// Close to stop the writer.
//
// Store failures never reach the queue. They are logged and the first one is
// kept for Err.
type Recorder struct {
	store   Store
	session string
	resume  bool
	logger  *slog.Logger
	now     func() time.Time

	mu      sync.Mutex
	idle    *sync.Cond
	seq     uint64
	frame   uint64
	pending []Record
	writing bool
	stored  uint64
	closed  bool
	err     error

	wake chan struct{}
	done chan struct{}
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithSession sets the session ID. By default a random UUID is used.
//
// A named session that already has records in the store is resumed: new
// records continue after the stored sequence numbers, starting a new frame.
func WithSession(session string) RecorderOption {
	return func(r *Recorder) {
		if session != "" {
			r.session = session
			r.resume = true
		}
	}
}

// WithRecorderLogger sets the logger used for store failures.
func WithRecorderLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRecorder creates a recorder writing to store and starts its writer.
func NewRecorder(store Store, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		store:   store,
		session: uuid.NewString(),
		now:     time.Now,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	r.idle = sync.NewCond(&r.mu)
	for _, opt := range opts {
		opt(r)
	}
	if r.resume {
		r.resumeSession()
	}

	go r.run()
	return r
}

func (r *Recorder) resumeSession() {
	records, err := r.store.Load(r.session)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		r.fail("load", err)
	case len(records) > 0:
		last := records[len(records)-1]
		r.seq = last.Seq + 1
		r.frame = last.Frame + 1
	}
}

// Session returns the session ID records are written under.
func (r *Recorder) Session() string {
	return r.session
}

// BeginFrame implements event.Recorder.
func (r *Recorder) BeginFrame() {
	r.mu.Lock()
	r.frame++
	r.mu.Unlock()
}

// Record implements event.Recorder. It never waits on the store.
func (r *Recorder) Record(e event.Event) {
	typ, payload, err := Encode(e)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		r.fail("encode", err)
		return
	}
	if r.closed {
		r.fail("record", ErrRecorderClosed)
		return
	}

	r.pending = append(r.pending, Record{
		Session:   r.session,
		Seq:       r.seq,
		Frame:     r.frame,
		Type:      typ,
		Payload:   payload,
		Timestamp: r.now(),
	})
	r.seq++

	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *Recorder) run() {
	defer close(r.done)
	for range r.wake {
		r.drain()
	}
	r.drain()
}

func (r *Recorder) drain() {
	for {
		r.mu.Lock()
		batch := r.pending
		r.pending = nil
		if len(batch) == 0 {
			r.writing = false
			r.idle.Broadcast()
			r.mu.Unlock()
			return
		}
		r.writing = true
		r.mu.Unlock()

		for _, rec := range batch {
			err := r.store.Append(rec)
			r.mu.Lock()
			if err != nil {
				r.fail("append", fmt.Errorf("seq %d: %w", rec.Seq, err))
			} else {
				r.stored++
			}
			r.mu.Unlock()
		}
	}
}

// Flush blocks until every event recorded so far has been handed to the
// store.
func (r *Recorder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for len(r.pending) > 0 || r.writing {
		r.idle.Wait()
	}
}

// Close flushes pending records and stops the writer. Events recorded
// afterwards are dropped and reported through Err. Close returns the first
// failure seen, like Err, and may be called more than once.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.wake)
	}
	r.mu.Unlock()

	<-r.done
	return r.Err()
}

// Recorded returns the number of events this recorder has stored.
func (r *Recorder) Recorded() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stored
}

// Err returns the first failure, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// fail must be called with r.mu held.
func (r *Recorder) fail(op string, err error) {
	if r.err == nil {
		r.err = err
	}
	observability.LogJournalError(r.logger, r.session, op, err)
}
