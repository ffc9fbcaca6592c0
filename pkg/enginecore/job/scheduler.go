package job

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/enginecore/pkg/enginecore/config"
	ecerrors "github.com/randalmurphal/enginecore/pkg/enginecore/errors"
	"github.com/randalmurphal/enginecore/pkg/enginecore/observability"
)

// Wait strategies.
const (
	// WaitSpin yields the processor between steal attempts.
	WaitSpin = config.WaitSpin
	// WaitBlock sleeps on a condition variable between steal attempts.
	WaitBlock = config.WaitBlock
)

// Limits.
const (
	MaxWorkers = config.MaxWorkers
	MaxJobs    = config.MaxJobs
)

// Config configures a Scheduler.
type Config struct {
	// Workers is the number of worker goroutines, capped at MaxWorkers.
	// Zero runs every job synchronously.
	Workers int

	// Capacity is the number of job slots.
	// Default: MaxJobs
	Capacity int

	// WaitStrategy is WaitSpin or WaitBlock.
	// Default: WaitSpin
	WaitStrategy string

	Logger  *slog.Logger
	Metrics observability.MetricsRecorder
	Spans   observability.SpanManager
}

// Job slot states. Transitions only move forward: free, queued, running,
// done, then back to free when a waiter recycles the slot.
const (
	stateFree uint32 = iota
	stateQueued
	stateRunning
	stateDone
)

type slot struct {
	fn    func()
	gen   uint32
	state atomic.Uint32
}

// Handle identifies a started job. The zero Handle means the job already ran
// synchronously.
type Handle struct {
	slot uint32 // index+1; zero for synchronous jobs
	gen  uint32
}

// Async reports whether the job was queued rather than run inline.
func (h Handle) Async() bool {
	return h.slot != 0
}

// Stats are cumulative scheduler counters.
type Stats struct {
	Started     uint64 // jobs queued on a slot
	Synchronous uint64 // jobs run inline by Start
	Stolen      uint64 // queued jobs run by a waiting goroutine
	Completed   uint64 // queued jobs finished
}

// Scheduler is a fixed-capacity worker pool.
type Scheduler struct {
	mu      sync.Mutex
	hasJob  *sync.Cond
	jobDone *sync.Cond

	slots   []slot
	free    []int32
	pending []int32 // ring buffer of slot indices
	head    int
	count   int
	quit    bool

	workers  int
	strategy string
	wg       sync.WaitGroup
	once     sync.Once

	started     atomic.Uint64
	synchronous atomic.Uint64
	stolen      atomic.Uint64
	completed   atomic.Uint64

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// New creates a scheduler and starts its workers.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkers, cfg.Workers)
	}
	if cfg.Capacity < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, cfg.Capacity)
	}
	switch cfg.WaitStrategy {
	case "":
		cfg.WaitStrategy = WaitSpin
	case WaitSpin, WaitBlock:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidWaitStrategy, cfg.WaitStrategy)
	}
	if cfg.Capacity == 0 {
		cfg.Capacity = MaxJobs
	}
	if cfg.Workers > MaxWorkers {
		cfg.Workers = MaxWorkers
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observability.NoopMetrics{}
	}
	if cfg.Spans == nil {
		cfg.Spans = observability.NoopSpanManager{}
	}

	s := &Scheduler{
		slots:    make([]slot, cfg.Capacity),
		free:     make([]int32, cfg.Capacity),
		pending:  make([]int32, cfg.Capacity),
		workers:  cfg.Workers,
		strategy: cfg.WaitStrategy,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		spans:    cfg.Spans,
	}
	s.hasJob = sync.NewCond(&s.mu)
	s.jobDone = sync.NewCond(&s.mu)

	// Free stack pops from the end; hand out low indices first.
	for i := range s.free {
		s.free[i] = int32(cfg.Capacity - 1 - i)
	}

	observability.LogSchedulerStart(s.logger, s.workers, cfg.Capacity, s.strategy)

	s.wg.Add(s.workers)
	for i := 0; i < s.workers; i++ {
		go s.workerLoop()
	}
	return s, nil
}

// Workers returns the number of worker goroutines.
func (s *Scheduler) Workers() int { return s.workers }

// Capacity returns the number of job slots.
func (s *Scheduler) Capacity() int { return len(s.slots) }

func (s *Scheduler) workerLoop() {
	defer s.wg.Done()
	for {
		s.mu.Lock()
		for s.count == 0 && !s.quit {
			s.hasJob.Wait()
		}
		if s.quit {
			s.mu.Unlock()
			return
		}
		idx := s.dequeueLocked()
		s.mu.Unlock()

		s.execute(idx)
	}
}

// Start queues fn and returns its handle. If no slot is free, the pool has no
// workers or the scheduler is closed, fn runs synchronously and the zero
// Handle is returned.
func (s *Scheduler) Start(fn func()) Handle {
	s.mu.Lock()
	reason := ""
	switch {
	case s.quit:
		reason = "scheduler closed"
	case s.workers == 0:
		reason = "no workers"
	case len(s.free) == 0:
		reason = "job slots exhausted"
	}
	if reason != "" {
		s.mu.Unlock()
		s.runInline(fn, reason)
		return Handle{}
	}

	idx := s.free[len(s.free)-1]
	s.free = s.free[:len(s.free)-1]
	sl := &s.slots[idx]
	sl.gen++
	sl.fn = fn
	sl.state.Store(stateQueued)
	s.pending[(s.head+s.count)%len(s.pending)] = idx
	s.count++
	h := Handle{slot: uint32(idx) + 1, gen: sl.gen}
	s.mu.Unlock()

	s.hasJob.Signal()
	s.started.Add(1)
	s.metrics.RecordJobStart(context.Background(), true)
	return h
}

func (s *Scheduler) runInline(fn func(), reason string) {
	s.synchronous.Add(1)
	s.metrics.RecordJobStart(context.Background(), false)
	observability.LogJobFallback(s.logger, reason)
	s.protect(fn)
}

// dequeueLocked pops the oldest pending slot. Must be called with s.mu held
// and s.count > 0.
func (s *Scheduler) dequeueLocked() int32 {
	idx := s.pending[s.head]
	s.head = (s.head + 1) % len(s.pending)
	s.count--
	if s.count == 0 {
		s.head = 0
	}
	return idx
}

// execute runs a dequeued job and marks it done.
func (s *Scheduler) execute(idx int32) {
	sl := &s.slots[idx]
	sl.state.Store(stateRunning)
	s.protect(sl.fn)
	s.completed.Add(1)
	sl.state.Store(stateDone)

	if s.strategy == WaitBlock {
		s.mu.Lock()
		s.jobDone.Broadcast()
		s.mu.Unlock()
	}
}

// protect runs fn, logging and swallowing a panic.
func (s *Scheduler) protect(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			observability.LogJobPanic(s.logger, r, string(debug.Stack()))
		}
	}()
	fn()
}

// Wait blocks until the job behind h has finished, running other pending
// jobs in the meantime, and then recycles its slot. Waiting on the zero
// Handle returns at once. Waiting twice on the same handle, including from two
// goroutines at once, panics with a ContractError.
func (s *Scheduler) Wait(h Handle) {
	s.wait(h)
}

// wait implements Wait and returns how many pending jobs it ran.
func (s *Scheduler) wait(h Handle) int {
	if h.slot == 0 {
		return 0
	}
	idx := int32(h.slot - 1)

	s.mu.Lock()
	if int(idx) >= len(s.slots) {
		s.mu.Unlock()
		panic(ecerrors.Contract("job", "wait on unknown job handle"))
	}
	sl := &s.slots[idx]

	stolen := 0
	for {
		// Another waiter may have recycled the slot while s.mu was released.
		if sl.gen != h.gen || sl.state.Load() == stateFree {
			s.mu.Unlock()
			panic(ecerrors.Contract("job", "wait on recycled job handle"))
		}
		if sl.state.Load() == stateDone {
			break
		}

		if s.count > 0 {
			task := s.dequeueLocked()
			s.mu.Unlock()
			s.execute(task)
			s.stolen.Add(1)
			s.metrics.RecordJobSteal(context.Background())
			stolen++
			s.mu.Lock()
			continue
		}

		if s.strategy == WaitBlock {
			s.jobDone.Wait()
		} else {
			s.mu.Unlock()
			runtime.Gosched()
			s.mu.Lock()
		}
	}

	sl.state.Store(stateFree)
	sl.fn = nil
	s.free = append(s.free, idx)
	s.mu.Unlock()
	return stolen
}

// WaitTraced is Wait recorded as a span under ctx. Job execution is not
// cancellable, so ctx only carries the trace. The span notes jobs that ran
// inline at Start and pending jobs the waiter ran itself.
func (s *Scheduler) WaitTraced(ctx context.Context, h Handle) {
	ctx, span := s.spans.StartJobWaitSpan(ctx)
	defer s.spans.EndSpanWithError(span, nil)

	if h.slot == 0 {
		s.spans.AddSpanEvent(ctx, "job.inline")
		return
	}
	if n := s.wait(h); n > 0 {
		s.spans.AddSpanEvent(ctx, "job.steal", attribute.Int("jobs", n))
	}
}

// Close stops the workers and runs any jobs still pending on the caller.
// Later Start calls run synchronously. Close is idempotent.
func (s *Scheduler) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		s.quit = true
		s.mu.Unlock()
		s.hasJob.Broadcast()
		s.wg.Wait()

		for {
			s.mu.Lock()
			if s.count == 0 {
				s.mu.Unlock()
				break
			}
			idx := s.dequeueLocked()
			s.mu.Unlock()
			s.execute(idx)
		}
	})
}

// Stats returns a snapshot of the counters.
func (s *Scheduler) Stats() Stats {
	return Stats{
		Started:     s.started.Load(),
		Synchronous: s.synchronous.Load(),
		Stolen:      s.stolen.Load(),
		Completed:   s.completed.Load(),
	}
}

// Pending returns the number of queued jobs not yet picked up.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}
