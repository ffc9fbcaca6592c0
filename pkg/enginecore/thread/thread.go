package thread

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"

	ecerrors "github.com/randalmurphal/enginecore/pkg/enginecore/errors"
	"github.com/randalmurphal/enginecore/pkg/enginecore/event"
	"github.com/randalmurphal/enginecore/pkg/enginecore/observability"
	"github.com/randalmurphal/enginecore/pkg/enginecore/variant"
)

// TypeName is the object type tag of threads.
const TypeName = "Thread"

// Body is the routine a Thread runs. args are owned by the thread and stay
// valid until the next Start; the body must not release them.
type Body func(ctx context.Context, t *Thread, args []variant.Variant) error

// Thread runs a Body on its own goroutine and records how it ended.
//
// Threads are reference counted (see variant.RefCount) so they can travel
// through channels and events. The goroutine holds a reference while it runs.
type Thread struct {
	variant.RefCount

	id   string
	body Body

	mu      sync.Mutex
	args    []variant.Variant
	running bool
	done    chan struct{}
	errMsg  string
	err     error

	ctx     context.Context
	events  *event.Queue
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// Option configures a Thread.
type Option func(*Thread)

// WithEvents sets the queue that receives threaderror events.
func WithEvents(q *event.Queue) Option {
	return func(t *Thread) {
		t.events = q
	}
}

// WithContext sets the parent context passed to the body.
func WithContext(ctx context.Context) Option {
	return func(t *Thread) {
		if ctx != nil {
			t.ctx = ctx
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Thread) {
		t.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(t *Thread) {
		if m != nil {
			t.metrics = m
		}
	}
}

// WithSpanManager sets the span manager used to trace each run.
func WithSpanManager(sm observability.SpanManager) Option {
	return func(t *Thread) {
		if sm != nil {
			t.spans = sm
		}
	}
}

// New creates a stopped thread. The caller holds the first reference.
func New(body Body, opts ...Option) *Thread {
	t := &Thread{
		id:      uuid.New().String(),
		body:    body,
		ctx:     context.Background(),
		logger:  slog.Default(),
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = observability.EnrichLogger(t.logger, "thread", t.id)
	t.Init(t.destroy)
	return t
}

// destroy runs when the last reference is released.
func (t *Thread) destroy() {
	t.mu.Lock()
	args := t.args
	t.args = nil
	t.mu.Unlock()
	variant.ReleaseAll(args)
}

// TypeName implements variant.Object.
func (t *Thread) TypeName() string { return TypeName }

// ID returns the thread's unique id.
func (t *Thread) ID() string { return t.id }

// Start runs the body on a new goroutine with args. Start takes ownership of
// args in every case. Starting a running thread is a no-op; more than
// MaxArguments arguments is a ContractError.
func (t *Thread) Start(args ...variant.Variant) error {
	if len(args) > MaxArguments {
		variant.ReleaseAll(args)
		return ecerrors.Contract("thread", "too many thread arguments (max is %d)", MaxArguments)
	}

	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		variant.ReleaseAll(args)
		return nil
	}

	old := t.args
	t.args = append([]variant.Variant(nil), args...)
	t.errMsg = ""
	t.err = nil
	t.running = true
	t.done = make(chan struct{})
	runArgs, done := t.args, t.done
	t.Retain()
	t.mu.Unlock()

	variant.ReleaseAll(old)
	go t.run(runArgs, done)
	return nil
}

func (t *Thread) run(args []variant.Variant, done chan struct{}) {
	ctx, span := t.spans.StartThreadSpan(t.ctx, t.id)
	observability.LogThreadStart(t.logger, t.id, len(args))
	timer := observability.TimedOperation()

	err := t.call(ctx, args)

	elapsed := timer()
	var msg string
	if err != nil {
		msg = err.Error()
	}

	t.mu.Lock()
	t.running = false
	t.errMsg = msg
	if err != nil {
		t.err = &ecerrors.ThreadError{ThreadID: t.id, Message: msg, Original: err}
	}
	t.mu.Unlock()

	if err != nil && t.events != nil {
		t.events.Push(event.ThreadError(t, msg))
	}

	t.spans.EndSpanWithError(span, err)
	t.metrics.RecordThreadExit(ctx, elapsed, err != nil)
	observability.LogThreadExit(t.logger, t.id, observability.DurationMs(elapsed), msg)

	t.Release()
	close(done)
}

// call runs the body, turning a panic into a PanicError.
func (t *Thread) call(ctx context.Context, args []variant.Variant) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ecerrors.PanicError{Value: r, Stack: string(debug.Stack())}
		}
	}()
	return t.body(ctx, t, args)
}

// Wait blocks until the current run finishes. It returns at once if the
// thread was never started.
func (t *Thread) Wait() {
	_ = t.WaitContext(context.Background())
}

// WaitContext is Wait with cancellation.
func (t *Thread) WaitContext(ctx context.Context) error {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()
	if done == nil {
		return nil
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning reports whether the body is executing.
func (t *Thread) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Error returns the failure message of the last run, if it failed.
func (t *Thread) Error() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.errMsg, t.err != nil
}

// Err returns the failure of the last run as a *errors.ThreadError, or nil.
func (t *Thread) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}
