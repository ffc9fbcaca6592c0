package enginecore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	goruntime "runtime"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/randalmurphal/enginecore/pkg/enginecore/binding"
	"github.com/randalmurphal/enginecore/pkg/enginecore/channel"
	"github.com/randalmurphal/enginecore/pkg/enginecore/config"
	ecerrors "github.com/randalmurphal/enginecore/pkg/enginecore/errors"
	"github.com/randalmurphal/enginecore/pkg/enginecore/event"
	"github.com/randalmurphal/enginecore/pkg/enginecore/job"
	"github.com/randalmurphal/enginecore/pkg/enginecore/journal"
	"github.com/randalmurphal/enginecore/pkg/enginecore/observability"
	"github.com/randalmurphal/enginecore/pkg/enginecore/thread"
	"github.com/randalmurphal/enginecore/pkg/enginecore/variant"
)

// Runtime owns the event queue, the channel registry, the job scheduler and
// the optional journal of one engine instance.
type Runtime struct {
	id     string
	cfg    config.Config
	ctx    context.Context
	cancel context.CancelFunc

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager

	objs     *variant.ObjectTable
	events   *event.Queue
	registry *thread.Registry
	jobs     *job.Scheduler

	store     journal.Store
	ownsStore bool
	recorder  *journal.Recorder

	bindings *Bindings

	closeOnce sync.Once
	closeErr  error
	closed    chan struct{}
}

// Bindings groups the host-value facades of a runtime. They share the
// runtime's object table, so an object keeps one host identity across
// channels, events and threads.
type Bindings struct {
	Events  *binding.Events
	Threads *binding.Threads
	rt      *Runtime
}

// Channel returns the host facade of the named channel.
func (b *Bindings) Channel(name string) *binding.Channel {
	return binding.NewChannel(b.rt.Channel(name), b.rt.objs)
}

// New creates a runtime from cfg. The configuration is validated first.
func New(cfg config.Config, opts ...Option) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	o := options{ctx: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}

	r := &Runtime{
		id:     uuid.New().String(),
		cfg:    cfg,
		objs:   variant.NewObjectTable(),
		closed: make(chan struct{}),
	}
	r.ctx, r.cancel = context.WithCancel(o.ctx)

	r.logger = o.logger
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	}
	r.logger = r.logger.With(slog.String("runtime_id", r.id))

	r.metrics = o.metrics
	if r.metrics == nil {
		if cfg.Observability.Metrics {
			r.metrics = observability.NewMetricsRecorder()
		} else {
			r.metrics = observability.NoopMetrics{}
		}
	}
	r.spans = o.spans
	if r.spans == nil {
		if cfg.Observability.Tracing {
			r.spans = observability.NewSpanManager()
		} else {
			r.spans = observability.NoopSpanManager{}
		}
	}

	workers := cfg.ResolveWorkers(goruntime.NumCPU())

	r.events = event.NewQueue(
		event.WithCapacity(cfg.EventCapacity),
		event.WithLogger(r.logger),
		event.WithMetrics(r.metrics),
	)

	channelOpts := []channel.Option{channel.WithMetrics(r.metrics)}
	if o.clock != nil {
		channelOpts = append(channelOpts, channel.WithClock(o.clock))
	}
	r.registry = thread.NewRegistry(workers,
		thread.WithRegistryLogger(r.logger),
		thread.WithChannelOptions(channelOpts...),
	)

	jobs, err := job.New(job.Config{
		Workers:      workers,
		Capacity:     cfg.JobCapacity,
		WaitStrategy: cfg.WaitStrategy,
		Logger:       r.logger,
		Metrics:      r.metrics,
		Spans:        r.spans,
	})
	if err != nil {
		r.cancel()
		return nil, ecerrors.Fatal(fmt.Errorf("%w: %w", ErrInvalidConfig, err), "start job scheduler")
	}
	r.jobs = jobs

	if err := r.openJournal(o.store); err != nil {
		r.jobs.Close()
		r.cancel()
		return nil, ecerrors.Fatal(err, "open journal")
	}

	r.bindings = &Bindings{
		Events:  binding.NewEvents(r.events, r.objs),
		Threads: binding.NewThreads(r.objs, r.threadOptions()...),
		rt:      r,
	}

	observability.LogRuntimeStart(r.logger, r.id, workers, cfg.JobCapacity)
	return r, nil
}

// openJournal attaches a recorder when a store is supplied or the
// configuration enables the journal.
func (r *Runtime) openJournal(store journal.Store) error {
	jc := r.cfg.Journal
	switch {
	case store != nil:
		r.store = store
	case !jc.Enabled:
		return nil
	case jc.Path != "":
		s, err := journal.NewSQLiteStore(jc.Path)
		if err != nil {
			return &JournalError{Session: jc.Session, Op: "open", Err: err}
		}
		r.store, r.ownsStore = s, true
	default:
		r.store, r.ownsStore = journal.NewMemoryStore(), true
	}

	r.recorder = journal.NewRecorder(r.store,
		journal.WithSession(jc.Session),
		journal.WithRecorderLogger(r.logger),
	)
	// Resuming a named session reads the store.
	if err := r.recorder.Err(); err != nil {
		r.recorder.Close()
		if r.ownsStore {
			r.store.Close()
		}
		return &JournalError{Session: r.recorder.Session(), Op: "open", Err: err}
	}
	r.events.SetRecorder(r.recorder)
	return nil
}

func (r *Runtime) threadOptions() []thread.Option {
	return []thread.Option{
		thread.WithEvents(r.events),
		thread.WithContext(r.ctx),
		thread.WithLogger(r.logger),
		thread.WithMetrics(r.metrics),
		thread.WithSpanManager(r.spans),
	}
}

// ID returns the runtime's unique id.
func (r *Runtime) ID() string { return r.id }

// Config returns the configuration the runtime was built from.
func (r *Runtime) Config() config.Config { return r.cfg }

// Logger returns the runtime logger.
func (r *Runtime) Logger() *slog.Logger { return r.logger }

// Events returns the event queue.
func (r *Runtime) Events() *event.Queue { return r.events }

// Channel returns the named channel, creating it on first use.
func (r *Runtime) Channel(name string) *channel.Channel {
	return r.registry.Channel(name)
}

// Registry returns the channel registry.
func (r *Runtime) Registry() *thread.Registry { return r.registry }

// Jobs returns the job scheduler.
func (r *Runtime) Jobs() *job.Scheduler { return r.jobs }

// Objects returns the table mapping engine objects to host proxies.
func (r *Runtime) Objects() *variant.ObjectTable { return r.objs }

// Bindings returns the host-value facades.
func (r *Runtime) Bindings() *Bindings { return r.bindings }

// NewThread creates a stopped thread wired to the runtime: failures are
// pushed to the event queue and the body's context is cancelled by Close.
// The caller owns the returned reference.
func (r *Runtime) NewThread(body thread.Body, opts ...thread.Option) *thread.Thread {
	return thread.New(body, append(r.threadOptions(), opts...)...)
}

// Recorder returns the journal recorder, or nil when the journal is off.
func (r *Runtime) Recorder() *journal.Recorder { return r.recorder }

// Replay registers a pump that feeds a recorded session back into the event
// queue, one recorded frame per Pump. The returned id removes the pump.
func (r *Runtime) Replay(session string) (*journal.Replayer, event.PumpID, error) {
	select {
	case <-r.closed:
		return nil, 0, ErrClosed
	default:
	}
	if r.store == nil {
		return nil, 0, ErrJournalDisabled
	}
	if r.recorder != nil {
		r.recorder.Flush()
	}

	replayer, err := journal.NewReplayer(r.store, session)
	if err != nil {
		return nil, 0, &JournalError{Session: session, Op: "replay", Err: err}
	}
	return replayer, r.events.AddPump(replayer.Pump), nil
}

// Close shuts the runtime down: thread contexts are cancelled, pending jobs
// finish, channels are destroyed, queued events are released, the journal
// recorder is flushed and an owned journal store is closed. Every failure is
// reported in the combined error. Close is idempotent.
func (r *Runtime) Close() error {
	r.closeOnce.Do(func() {
		close(r.closed)
		r.cancel()

		r.jobs.Close()

		var errs error
		errs = multierr.Append(errs, r.registry.Close())

		r.events.Close()

		if r.recorder != nil {
			if err := r.recorder.Close(); err != nil {
				errs = multierr.Append(errs, ecerrors.Degraded(
					&JournalError{Session: r.recorder.Session(), Op: "record", Err: err},
					"journal"))
			}
		}
		if r.ownsStore {
			if err := r.store.Close(); err != nil {
				errs = multierr.Append(errs, &JournalError{Op: "close", Err: err})
			}
		}

		r.closeErr = errs
		observability.LogRuntimeStop(r.logger, r.id, errs)
	})
	return r.closeErr
}
