package event

import (
	"context"
	"log/slog"
	"sync"

	"github.com/randalmurphal/enginecore/pkg/enginecore/observability"
)

// Pump is a producer invoked once per Queue.Pump call. Pumps usually
// translate platform messages and push them onto q.
type Pump func(q *Queue)

// PumpID identifies a registered pump for removal.
type PumpID uint64

// Recorder observes the event stream, for example to journal input.
//
// Both methods are called with the queue locked, so recorded order matches
// queue order. Implementations must not block, must not call back into the
// queue and must not keep references to the event's payload.
type Recorder interface {
	// BeginFrame marks the start of a frame (one Pump call).
	BeginFrame()
	// Record observes an event after the queue has taken ownership of it.
	Record(e Event)
}

type pumpEntry struct {
	id PumpID
	fn Pump
}

// Queue is a FIFO of events. Push is safe from any goroutine; Poll, Pump and
// Clear are normally called from the main loop.
type Queue struct {
	mu       sync.Mutex
	events   []Event
	head     int
	pumps    []pumpEntry
	nextPump PumpID

	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	recorder Recorder
}

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithCapacity preallocates room for n events.
func WithCapacity(n int) QueueOption {
	return func(q *Queue) {
		if n > 0 {
			q.events = make([]Event, 0, n)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) QueueOption {
	return func(q *Queue) {
		q.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m observability.MetricsRecorder) QueueOption {
	return func(q *Queue) {
		if m != nil {
			q.metrics = m
		}
	}
}

// WithRecorder attaches a recorder that sees every pushed event.
func WithRecorder(r Recorder) QueueOption {
	return func(q *Queue) {
		q.recorder = r
	}
}

// NewQueue creates an empty queue.
func NewQueue(opts ...QueueOption) *Queue {
	q := &Queue{
		logger:  slog.Default(),
		metrics: observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// SetRecorder replaces the recorder. Pass nil to stop recording.
func (q *Queue) SetRecorder(r Recorder) {
	q.mu.Lock()
	q.recorder = r
	q.mu.Unlock()
}

// Push appends an event. The queue takes ownership of the payload: strings
// are copied and a thread-error event retains its thread. Pushing an event
// with an unknown type or mismatched payload panics with a ContractError.
func (q *Queue) Push(e Event) {
	e = e.own()

	q.mu.Lock()
	q.events = append(q.events, e)
	if q.recorder != nil {
		q.recorder.Record(e)
	}
	q.mu.Unlock()

	q.metrics.RecordEventPush(context.Background(), e.Type.String())
}

// Poll removes and returns the oldest event. When the queue is empty it
// returns false and rewinds the buffer so it can be reused; the caller owns
// the returned event.
func (q *Queue) Poll() (Event, bool) {
	q.mu.Lock()
	if q.head == len(q.events) {
		q.head = 0
		q.events = q.events[:0]
		q.mu.Unlock()
		return Event{}, false
	}
	e := q.events[q.head]
	q.events[q.head] = Event{}
	q.head++
	q.mu.Unlock()

	q.metrics.RecordEventPoll(context.Background(), e.Type.String())
	return e, true
}

// Len returns the number of unconsumed events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events) - q.head
}

// AddPump registers a producer. Pumps run in registration order.
func (q *Queue) AddPump(fn Pump) PumpID {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nextPump++
	q.pumps = append(q.pumps, pumpEntry{id: q.nextPump, fn: fn})
	return q.nextPump
}

// RemovePump unregisters a producer. Unknown ids are ignored.
func (q *Queue) RemovePump(id PumpID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, p := range q.pumps {
		if p.id == id {
			q.pumps = append(q.pumps[:i:i], q.pumps[i+1:]...)
			return
		}
	}
}

// Pump runs every registered producer once, synchronously. Producers may push.
func (q *Queue) Pump() {
	q.mu.Lock()
	pumps := make([]pumpEntry, len(q.pumps))
	copy(pumps, q.pumps)
	if q.recorder != nil {
		q.recorder.BeginFrame()
	}
	q.mu.Unlock()

	for _, p := range pumps {
		p.fn(q)
	}
}

// Clear releases every unconsumed event and returns how many were dropped.
func (q *Queue) Clear() int {
	q.mu.Lock()
	pending := q.events[q.head:]
	dropped := make([]Event, len(pending))
	copy(dropped, pending)
	clear(q.events)
	q.events = q.events[:0]
	q.head = 0
	q.mu.Unlock()

	for i := range dropped {
		dropped[i].Release()
	}

	n := len(dropped)
	q.metrics.RecordEventsCleared(context.Background(), n)
	observability.LogEventsCleared(q.logger, n)
	return n
}

// Close releases pending events and drops all pumps.
func (q *Queue) Close() {
	q.Clear()
	q.mu.Lock()
	q.pumps = nil
	q.recorder = nil
	q.mu.Unlock()
}
