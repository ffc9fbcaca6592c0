package benchmarks

import (
	"testing"

	"github.com/randalmurphal/enginecore/pkg/enginecore/event"
	"github.com/randalmurphal/enginecore/pkg/enginecore/journal"
	"github.com/randalmurphal/enginecore/pkg/enginecore/variant"
)

// BenchmarkQueue_PushPoll measures a plain input event round trip.
func BenchmarkQueue_PushPoll(b *testing.B) {
	q := event.NewQueue(event.WithCapacity(64))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.Push(event.MouseMoved(1, 2, 3, 4))
		ev, _ := q.Poll()
		ev.Release()
	}
}

// BenchmarkQueue_Custom measures a custom event carrying arguments.
func BenchmarkQueue_Custom(b *testing.B) {
	q := event.NewQueue(event.WithCapacity(64))
	objs := variant.NewObjectTable()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.Push(event.Custom("score", variant.Number(1), variant.String("bonus")))
		ev, _ := q.Poll()
		_, _ = ev.Values(objs)
	}
}

// BenchmarkQueue_Frame measures one frame of 16 pumped events.
func BenchmarkQueue_Frame(b *testing.B) {
	q := event.NewQueue(event.WithCapacity(64))
	q.AddPump(func(q *event.Queue) {
		for i := 0; i < 16; i++ {
			q.Push(event.KeyPressed(event.KeyA, 4, false))
		}
	})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.Pump()
		for {
			ev, ok := q.Poll()
			if !ok {
				break
			}
			ev.Release()
		}
	}
}

// BenchmarkQueue_Recorded measures push overhead with an in-memory journal.
func BenchmarkQueue_Recorded(b *testing.B) {
	rec := journal.NewRecorder(journal.NewMemoryStore())
	defer rec.Close()
	q := event.NewQueue(event.WithCapacity(64), event.WithRecorder(rec))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.Push(event.Resize(800, 600))
		ev, _ := q.Poll()
		ev.Release()
	}
}
