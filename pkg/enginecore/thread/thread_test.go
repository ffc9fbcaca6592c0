package thread_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/enginecore/pkg/enginecore/channel"
	ecerrors "github.com/randalmurphal/enginecore/pkg/enginecore/errors"
	"github.com/randalmurphal/enginecore/pkg/enginecore/event"
	"github.com/randalmurphal/enginecore/pkg/enginecore/observability"
	"github.com/randalmurphal/enginecore/pkg/enginecore/thread"
	"github.com/randalmurphal/enginecore/pkg/enginecore/variant"
)

func TestThreadRunsBodyWithArguments(t *testing.T) {
	got := make(chan []any, 1)
	th := thread.New(func(_ context.Context, _ *thread.Thread, args []variant.Variant) error {
		values := make([]any, len(args))
		for i := range args {
			values[i] = args[i].Peek(nil)
		}
		got <- values
		return nil
	}, thread.WithLogger(observability.NopLogger()))
	defer th.Release()

	require.NoError(t, th.Start(variant.Number(1), variant.String("two")))
	th.Wait()

	assert.Equal(t, []any{1.0, "two"}, <-got)
	assert.False(t, th.IsRunning())
	msg, failed := th.Error()
	assert.False(t, failed)
	assert.Empty(t, msg)
	assert.NoError(t, th.Err())
	assert.Equal(t, thread.TypeName, th.TypeName())
	assert.NotEmpty(t, th.ID())
}

func TestThreadTooManyArguments(t *testing.T) {
	th := thread.New(func(context.Context, *thread.Thread, []variant.Variant) error { return nil })
	defer th.Release()

	err := th.Start(variant.Nil(), variant.Nil(), variant.Nil(), variant.Nil(), variant.Nil())
	require.Error(t, err)
	assert.True(t, ecerrors.IsProgrammerError(err))
	assert.False(t, th.IsRunning())
}

func TestThreadStartWhileRunningIsNoop(t *testing.T) {
	release := make(chan struct{})
	runs := 0
	th := thread.New(func(context.Context, *thread.Thread, []variant.Variant) error {
		runs++
		<-release
		return nil
	})
	defer th.Release()

	require.NoError(t, th.Start())
	require.Eventually(t, th.IsRunning, time.Second, time.Millisecond)
	require.NoError(t, th.Start(variant.String("ignored")))

	close(release)
	th.Wait()
	assert.Equal(t, 1, runs)
}

func TestThreadFailureReportsEvent(t *testing.T) {
	q := event.NewQueue()
	th := thread.New(func(context.Context, *thread.Thread, []variant.Variant) error {
		return errors.New("script error: attempt to index nil")
	}, thread.WithEvents(q))

	require.NoError(t, th.Start())
	th.Wait()

	msg, failed := th.Error()
	assert.True(t, failed)
	assert.Equal(t, "script error: attempt to index nil", msg)

	var threadErr *ecerrors.ThreadError
	require.ErrorAs(t, th.Err(), &threadErr)
	assert.Equal(t, th.ID(), threadErr.ThreadID)
	assert.Equal(t, ecerrors.CategoryReported, ecerrors.Categorize(th.Err()))

	e, ok := q.Poll()
	require.True(t, ok)
	assert.Equal(t, event.TypeThreadError, e.Type)
	data := e.Data.(event.ThreadData)
	assert.Same(t, th, data.Thread)
	assert.Equal(t, int32(2), th.Refs(), "event holds a reference")

	e.Release()
	assert.Equal(t, int32(1), th.Refs())
	th.Release()
}

func TestThreadPanicIsRecovered(t *testing.T) {
	q := event.NewQueue()
	th := thread.New(func(context.Context, *thread.Thread, []variant.Variant) error {
		panic("boom")
	}, thread.WithEvents(q))
	defer th.Release()

	require.NoError(t, th.Start())
	th.Wait()

	msg, failed := th.Error()
	assert.True(t, failed)
	assert.Contains(t, msg, "boom")

	var panicErr *ecerrors.PanicError
	assert.ErrorAs(t, th.Err(), &panicErr)
	assert.Equal(t, 1, q.Len())
	q.Clear()
}

func TestThreadRestartClearsError(t *testing.T) {
	fail := true
	th := thread.New(func(context.Context, *thread.Thread, []variant.Variant) error {
		if fail {
			return errors.New("first run fails")
		}
		return nil
	})
	defer th.Release()

	require.NoError(t, th.Start())
	th.Wait()
	_, failed := th.Error()
	require.True(t, failed)

	fail = false
	require.NoError(t, th.Start())
	th.Wait()
	_, failed = th.Error()
	assert.False(t, failed)
}

func TestThreadArgumentsReleased(t *testing.T) {
	obj := &refObject{}
	obj.Init(nil)

	th := thread.New(func(context.Context, *thread.Thread, []variant.Variant) error { return nil })
	require.NoError(t, th.Start(variant.ObjectOf(obj)))
	th.Wait()
	assert.Equal(t, int32(2), obj.Refs(), "thread keeps its arguments after the run")

	th.Release()
	assert.Equal(t, int32(1), obj.Refs(), "destroying the thread releases arguments")
}

func TestThreadWaitContext(t *testing.T) {
	block := make(chan struct{})
	th := thread.New(func(context.Context, *thread.Thread, []variant.Variant) error {
		<-block
		return nil
	})
	defer th.Release()

	// Never started: returns at once.
	require.NoError(t, th.WaitContext(context.Background()))

	require.NoError(t, th.Start())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, th.WaitContext(ctx), context.DeadlineExceeded)

	close(block)
	th.Wait()
}

func TestThreadsExchangeOverChannel(t *testing.T) {
	reg := thread.NewRegistry(0)
	defer func() { _ = reg.Close() }()

	worker := thread.New(func(_ context.Context, _ *thread.Thread, args []variant.Variant) error {
		in := reg.Channel(args[0].AsString())
		out := reg.Channel("results")
		for {
			v, ok := in.Pop(channel.Forever())
			if !ok || v.IsNil() {
				return nil
			}
			out.Push(variant.Number(v.AsNumber()*2), channel.NoWait())
		}
	})
	defer worker.Release()
	require.NoError(t, worker.Start(variant.String("requests")))

	requests := reg.Channel("requests")
	for i := 1; i <= 3; i++ {
		_, read := requests.Push(variant.Number(float64(i)), channel.Forever())
		assert.True(t, read)
	}
	requests.Push(variant.Nil(), channel.NoWait())
	worker.Wait()

	results := reg.Channel("results")
	for i := 1; i <= 3; i++ {
		v, ok := results.Pop(channel.NoWait())
		require.True(t, ok)
		assert.Equal(t, float64(2*i), v.AsNumber())
	}
}

func TestThreadLogsCarryThreadID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	th := thread.New(func(context.Context, *thread.Thread, []variant.Variant) error {
		return errors.New("boom")
	}, thread.WithLogger(logger))
	defer th.Release()

	require.NoError(t, th.Start())
	th.Wait()

	out := buf.String()
	assert.Contains(t, out, `"component":"thread"`)
	assert.Contains(t, out, `"name":"`+th.ID()+`"`)
	assert.Contains(t, out, "boom")
}
