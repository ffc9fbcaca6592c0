package journal

import (
	"sync"

	"github.com/randalmurphal/enginecore/pkg/enginecore/event"
)

// Replayer pushes a recorded session back onto a queue. Register Pump with
// Queue.AddPump; each pump call replays the events of one recorded frame.
type Replayer struct {
	mu     sync.Mutex
	events []replayed
	next   int
	frame  uint64
}

type replayed struct {
	frame uint64
	ev    event.Event
}

// NewReplayer loads session from store and decodes every record up front.
func NewReplayer(store Store, session string) (*Replayer, error) {
	records, err := store.Load(session)
	if err != nil {
		return nil, err
	}

	events := make([]replayed, 0, len(records))
	for _, rec := range records {
		ev, err := Decode(rec)
		if err != nil {
			return nil, err
		}
		events = append(events, replayed{frame: rec.Frame, ev: ev})
	}
	return &Replayer{events: events}, nil
}

// Pump implements event.Pump. The n-th call pushes every remaining event
// recorded in frame n or earlier.
func (r *Replayer) Pump(q *event.Queue) {
	r.mu.Lock()
	r.frame++
	var batch []event.Event
	for r.next < len(r.events) && r.events[r.next].frame <= r.frame {
		batch = append(batch, r.events[r.next].ev)
		r.next++
	}
	r.mu.Unlock()

	for _, ev := range batch {
		q.Push(ev)
	}
}

// Remaining returns the number of events not yet replayed.
func (r *Replayer) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events) - r.next
}

// Done reports whether every recorded event has been replayed.
func (r *Replayer) Done() bool {
	return r.Remaining() == 0
}
