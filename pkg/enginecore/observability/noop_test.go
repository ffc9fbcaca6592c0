package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	var m MetricsRecorder = NoopMetrics{}
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordEventPush(ctx, "quit")
		m.RecordEventPoll(ctx, "quit")
		m.RecordEventsCleared(ctx, 10)
		m.RecordChannelPush(ctx, "c", time.Second, true)
		m.RecordChannelPop(ctx, "c")
		m.RecordChannelClear(ctx, "c", 2)
		m.RecordJobStart(ctx, false)
		m.RecordJobSteal(ctx)
		m.RecordThreadExit(ctx, time.Millisecond, false)
	})
}

func TestNoopSpanManager(t *testing.T) {
	var sm SpanManager = NoopSpanManager{}
	ctx := context.Background()

	newCtx, span := sm.StartThreadSpan(ctx, "t")
	assert.Equal(t, ctx, newCtx)
	assert.False(t, span.IsRecording())

	newCtx, span = sm.StartJobWaitSpan(ctx)
	assert.Equal(t, ctx, newCtx)
	assert.NotNil(t, span)

	assert.NotPanics(t, func() {
		sm.EndSpanWithError(span, errors.New("ignored"))
		sm.AddSpanEvent(ctx, "ignored")
	})
}
