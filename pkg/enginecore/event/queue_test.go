package event_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/randalmurphal/enginecore/pkg/enginecore/event"
	"github.com/randalmurphal/enginecore/pkg/enginecore/variant"
)

func TestQueueFIFO(t *testing.T) {
	q := event.NewQueue(event.WithCapacity(4))

	const n = 50
	for i := 0; i < n; i++ {
		q.Push(event.Quit(i))
	}
	assert.Equal(t, n, q.Len())

	for i := 0; i < n; i++ {
		e, ok := q.Poll()
		require.True(t, ok)
		assert.Equal(t, i, e.Data.(event.QuitData).ExitCode)
	}

	_, ok := q.Poll()
	assert.False(t, ok)
	_, ok = q.Poll()
	assert.False(t, ok, "empty state is restartable")
	assert.Equal(t, 0, q.Len())
}

func TestQueueReuseAfterDrain(t *testing.T) {
	q := event.NewQueue()

	q.Push(event.Focus(true))
	_, ok := q.Poll()
	require.True(t, ok)
	_, ok = q.Poll()
	require.False(t, ok)

	q.Push(event.Focus(false))
	q.Push(event.Visible(true))

	e, ok := q.Poll()
	require.True(t, ok)
	assert.Equal(t, event.TypeFocus, e.Type)
	e, ok = q.Poll()
	require.True(t, ok)
	assert.Equal(t, event.TypeVisible, e.Type)
}

func TestResizeScenario(t *testing.T) {
	q := event.NewQueue()
	q.Push(event.Resize(800, 600))

	e, ok := q.Poll()
	require.True(t, ok)
	name, values := e.Values(nil)
	assert.Equal(t, "resize", name)
	assert.Equal(t, []any{800.0, 600.0}, values)

	_, ok = q.Poll()
	assert.False(t, ok)
}

func TestQueueClear(t *testing.T) {
	q := event.NewQueue()
	obj := newFakeThread()

	const k = 7
	for i := 0; i < k; i++ {
		q.Push(event.Custom("tick", variant.ObjectOf(obj)))
	}
	assert.Equal(t, int32(k+1), obj.Refs())

	// Consume one first so clear only sees the remainder.
	e, ok := q.Poll()
	require.True(t, ok)
	e.Release()

	assert.Equal(t, k-1, q.Clear())
	assert.Equal(t, int32(1), obj.Refs())
	assert.Equal(t, 0, q.Len())

	_, ok = q.Poll()
	assert.False(t, ok)
}

func TestQueuePumps(t *testing.T) {
	q := event.NewQueue()
	var order []string

	first := q.AddPump(func(q *event.Queue) {
		order = append(order, "first")
		q.Push(event.Focus(true))
	})
	q.AddPump(func(q *event.Queue) {
		order = append(order, "second")
	})

	q.Pump()
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, 1, q.Len())

	q.RemovePump(first)
	q.RemovePump(9999)
	order = nil
	q.Pump()
	assert.Equal(t, []string{"second"}, order)
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := event.NewQueue()

	const producers, perProducer = 8, 200
	var g errgroup.Group
	for p := 0; p < producers; p++ {
		g.Go(func() error {
			for i := 0; i < perProducer; i++ {
				q.Push(event.Quit(p*perProducer + i))
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	// Per-producer order must be preserved.
	last := make(map[int]int)
	count := 0
	for {
		e, ok := q.Poll()
		if !ok {
			break
		}
		code := e.Data.(event.QuitData).ExitCode
		p := code / perProducer
		if prev, seen := last[p]; seen {
			assert.Greater(t, code, prev)
		}
		last[p] = code
		count++
	}
	assert.Equal(t, producers*perProducer, count)
}

type captureRecorder struct {
	mu     sync.Mutex
	frames int
	types  []event.Type
}

func (r *captureRecorder) BeginFrame() {
	r.mu.Lock()
	r.frames++
	r.mu.Unlock()
}

func (r *captureRecorder) Record(e event.Event) {
	r.mu.Lock()
	r.types = append(r.types, e.Type)
	r.mu.Unlock()
}

func TestQueueRecorder(t *testing.T) {
	rec := &captureRecorder{}
	q := event.NewQueue(event.WithRecorder(rec))

	q.Pump()
	q.Push(event.Focus(true))
	q.Push(event.Resize(1, 1))
	q.Pump()

	assert.Equal(t, 2, rec.frames)
	assert.Equal(t, []event.Type{event.TypeFocus, event.TypeResize}, rec.types)

	q.SetRecorder(nil)
	q.Push(event.Focus(false))
	assert.Len(t, rec.types, 2)
}

func TestQueueClose(t *testing.T) {
	q := event.NewQueue()
	called := false
	q.AddPump(func(*event.Queue) { called = true })
	q.Push(event.Focus(true))

	q.Close()
	assert.Equal(t, 0, q.Len())
	q.Pump()
	assert.False(t, called)
}
