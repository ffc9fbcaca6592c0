package journal_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/enginecore/pkg/enginecore/event"
	"github.com/randalmurphal/enginecore/pkg/enginecore/journal"
	"github.com/randalmurphal/enginecore/pkg/enginecore/variant"
)

func TestCodec_RoundTrip(t *testing.T) {
	events := []event.Event{
		event.Quit(3),
		event.Restart(),
		event.Visible(true),
		event.Focus(false),
		event.Resize(800, 600),
		event.KeyPressed(event.KeyA, 4, true),
		event.KeyReleased(event.KeyEscape, 41),
		event.TextInput('é'),
		event.MousePressed(10, 20, 1),
		event.MouseMoved(1, 2, 3, 4),
		event.WheelMoved(0, -1),
		event.FileChanged(event.FileRenamed, "new.lua", "old.lua"),
		event.Permission("microphone", true),
	}

	for _, ev := range events {
		t.Run(ev.Type.String(), func(t *testing.T) {
			typ, payload, err := journal.Encode(ev)
			require.NoError(t, err)
			assert.Equal(t, ev.Type.String(), typ)

			got, err := journal.Decode(journal.Record{Type: typ, Payload: payload})
			require.NoError(t, err)
			assert.Equal(t, ev, got)
		})
	}
}

func TestCodec_ThreadErrorDropsThread(t *testing.T) {
	typ, payload, err := journal.Encode(event.ThreadError(nil, "boom"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"boom"}`, string(payload))

	got, err := journal.Decode(journal.Record{Type: typ, Payload: payload})
	require.NoError(t, err)
	data := got.Data.(event.ThreadData)
	assert.Nil(t, data.Thread)
	assert.Equal(t, "boom", data.Error)
}

func TestCodec_Custom(t *testing.T) {
	ev := event.Custom("score", variant.Number(42), variant.String("bonus"))
	typ, payload, err := journal.Encode(ev)
	require.NoError(t, err)

	got, err := journal.Decode(journal.Record{Type: typ, Payload: payload})
	require.NoError(t, err)

	data := got.Data.(event.CustomData)
	assert.Equal(t, "score", data.Name)
	require.Len(t, data.Args, 2)
	assert.Equal(t, float64(42), data.Args[0].AsNumber())
	assert.Equal(t, "bonus", data.Args[1].AsString())
}

func TestCodec_UnknownType(t *testing.T) {
	_, _, err := journal.Encode(event.Event{})
	assert.ErrorIs(t, err, journal.ErrUnknownEventType)

	_, err = journal.Decode(journal.Record{Type: "teleport"})
	assert.ErrorIs(t, err, journal.ErrUnknownEventType)
}

func TestCodec_BadPayload(t *testing.T) {
	_, err := journal.Decode(journal.Record{Type: "resize", Payload: []byte("{")})
	assert.Error(t, err)
}

func TestRecorder_FramesAndSequence(t *testing.T) {
	store := journal.NewMemoryStore()
	ts := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	rec := journal.NewRecorder(store, journal.WithSession("demo"), journal.WithClock(func() time.Time { return ts }))
	defer rec.Close()
	assert.Equal(t, "demo", rec.Session())

	q := event.NewQueue(event.WithRecorder(rec))
	defer q.Close()

	q.Push(event.Focus(true)) // frame 0
	q.AddPump(func(q *event.Queue) {
		q.Push(event.Resize(800, 600))
	})
	q.Pump() // frame 1
	q.Pump() // frame 2
	q.Push(event.Quit(0))

	rec.Flush()
	require.NoError(t, rec.Err())
	assert.Equal(t, uint64(4), rec.Recorded())

	records, err := store.Load("demo")
	require.NoError(t, err)
	require.Len(t, records, 4)

	wantFrames := []uint64{0, 1, 2, 2}
	wantTypes := []string{"focus", "resize", "resize", "quit"}
	for i, r := range records {
		assert.Equal(t, uint64(i), r.Seq)
		assert.Equal(t, wantFrames[i], r.Frame)
		assert.Equal(t, wantTypes[i], r.Type)
		assert.True(t, ts.Equal(r.Timestamp))
	}
}

func TestRecorder_DefaultSession(t *testing.T) {
	a := journal.NewRecorder(journal.NewMemoryStore())
	defer a.Close()
	b := journal.NewRecorder(journal.NewMemoryStore())
	defer b.Close()
	assert.NotEmpty(t, a.Session())
	assert.NotEqual(t, a.Session(), b.Session())
}

type failingStore struct {
	journal.Store
}

var errDiskFull = errors.New("disk full")

func (failingStore) Append(journal.Record) error { return errDiskFull }

func TestRecorder_StoreFailureKeepsQueueWorking(t *testing.T) {
	rec := journal.NewRecorder(failingStore{})
	q := event.NewQueue(event.WithRecorder(rec))
	defer q.Close()

	q.Push(event.Focus(true))
	q.Push(event.Focus(false))
	assert.Equal(t, 2, q.Len())

	assert.ErrorIs(t, rec.Close(), errDiskFull)
	assert.Equal(t, uint64(0), rec.Recorded())
}

func TestReplayer_ReplaysFrameByFrame(t *testing.T) {
	store := journal.NewMemoryStore()
	rec := journal.NewRecorder(store, journal.WithSession("s"))

	src := event.NewQueue(event.WithRecorder(rec))
	src.Push(event.KeyPressed(event.KeyW, 26, false)) // frame 0
	src.Pump()
	src.Push(event.Resize(1024, 768)) // frame 1
	src.Pump()
	src.Pump()
	src.Push(event.Quit(0)) // frame 3
	src.Close()
	require.NoError(t, rec.Close())

	replay, err := journal.NewReplayer(store, "s")
	require.NoError(t, err)
	assert.Equal(t, 3, replay.Remaining())

	dst := event.NewQueue()
	defer dst.Close()
	dst.AddPump(replay.Pump)

	drain := func() []event.Type {
		var types []event.Type
		for {
			ev, ok := dst.Poll()
			if !ok {
				return types
			}
			types = append(types, ev.Type)
			ev.Release()
		}
	}

	dst.Pump()
	assert.Equal(t, []event.Type{event.TypeKeyPressed, event.TypeResize}, drain())
	dst.Pump()
	assert.Empty(t, drain())
	assert.False(t, replay.Done())
	dst.Pump()
	assert.Equal(t, []event.Type{event.TypeQuit}, drain())
	assert.True(t, replay.Done())

	dst.Pump()
	assert.Empty(t, drain())
}

func TestReplayer_MissingSession(t *testing.T) {
	_, err := journal.NewReplayer(journal.NewMemoryStore(), "nope")
	assert.ErrorIs(t, err, journal.ErrNotFound)
}

// slowStore delays every append until release is closed.
type slowStore struct {
	*journal.MemoryStore
	release chan struct{}
}

func (s slowStore) Append(rec journal.Record) error {
	<-s.release
	return s.MemoryStore.Append(rec)
}

func TestRecorder_PushDoesNotWaitForStore(t *testing.T) {
	store := slowStore{MemoryStore: journal.NewMemoryStore(), release: make(chan struct{})}
	rec := journal.NewRecorder(store, journal.WithSession("slow"))
	q := event.NewQueue(event.WithRecorder(rec))
	defer q.Close()

	q.Push(event.Focus(true))

	pushed := make(chan struct{})
	go func() {
		q.Push(event.Focus(false))
		close(pushed)
	}()
	select {
	case <-pushed:
	case <-time.After(time.Second):
		t.Fatal("push blocked on the journal store")
	}

	ev, ok := q.Poll()
	require.True(t, ok)
	assert.Equal(t, event.TypeFocus, ev.Type)
	assert.Equal(t, uint64(0), rec.Recorded())

	close(store.release)
	require.NoError(t, rec.Close())
	assert.Equal(t, uint64(2), rec.Recorded())

	records, err := store.Load("slow")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestRecorder_CloseDropsLateEvents(t *testing.T) {
	store := journal.NewMemoryStore()
	rec := journal.NewRecorder(store, journal.WithSession("late"))
	require.NoError(t, rec.Close())
	require.NoError(t, rec.Close())

	rec.Record(event.Focus(true))
	assert.ErrorIs(t, rec.Err(), journal.ErrRecorderClosed)

	_, err := store.Load("late")
	assert.ErrorIs(t, err, journal.ErrNotFound)
}

func TestRecorder_ResumesNamedSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	record := func(events ...event.Event) {
		store, err := journal.NewSQLiteStore(path)
		require.NoError(t, err)
		defer store.Close()

		rec := journal.NewRecorder(store, journal.WithSession("demo"))
		q := event.NewQueue(event.WithRecorder(rec))
		for _, ev := range events {
			q.Push(ev)
			q.Pump()
		}
		q.Close()
		require.NoError(t, rec.Close())
		assert.Equal(t, uint64(len(events)), rec.Recorded())
	}

	record(event.Focus(true), event.Resize(800, 600))
	record(event.Quit(0), event.Focus(false), event.Visible(true))

	store, err := journal.NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	records, err := store.Load("demo")
	require.NoError(t, err)
	require.Len(t, records, 5)

	wantTypes := []string{"focus", "resize", "quit", "focus", "visible"}
	wantFrames := []uint64{0, 1, 2, 3, 4}
	for i, r := range records {
		assert.Equal(t, uint64(i), r.Seq)
		assert.Equal(t, wantTypes[i], r.Type)
		assert.Equal(t, wantFrames[i], r.Frame)
	}
}
