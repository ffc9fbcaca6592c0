package channel

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/cespare/xxhash/v2"

	ecerrors "github.com/randalmurphal/enginecore/pkg/enginecore/errors"
	"github.com/randalmurphal/enginecore/pkg/enginecore/observability"
	"github.com/randalmurphal/enginecore/pkg/enginecore/variant"
)

// HashName returns the 64-bit key a channel name is registered under.
func HashName(name string) uint64 {
	return xxhash.Sum64String(name)
}

// Channel is a blocking multi-producer multi-consumer FIFO of variants.
//
// One mutex guards the queue and both counters. Every state change that could
// unblock a waiter closes the current notify channel and installs a new one.
type Channel struct {
	name string
	hash uint64

	mu        sync.Mutex
	messages  []variant.Variant
	head      int
	sent      uint64
	received  uint64
	notify    chan struct{}
	pinned    bool
	destroyed bool

	clock   clock.Clock
	logger  *slog.Logger
	metrics observability.MetricsRecorder
}

// Option configures a Channel.
type Option func(*Channel)

// WithClock sets the clock used for timeouts. Tests pass clock.NewMock().
func WithClock(c clock.Clock) Option {
	return func(ch *Channel) {
		if c != nil {
			ch.clock = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(ch *Channel) {
		ch.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(ch *Channel) {
		if m != nil {
			ch.metrics = m
		}
	}
}

// New creates an empty channel.
func New(name string, opts ...Option) *Channel {
	ch := &Channel{
		name:    name,
		hash:    HashName(name),
		notify:  make(chan struct{}),
		clock:   clock.New(),
		logger:  slog.Default(),
		metrics: observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(ch)
	}
	return ch
}

// Name returns the channel name.
func (c *Channel) Name() string { return c.name }

// Hash returns the registry key of the channel name.
func (c *Channel) Hash() uint64 { return c.hash }

// broadcast wakes every waiter. Must be called with c.mu held.
func (c *Channel) broadcast() {
	close(c.notify)
	c.notify = make(chan struct{})
}

// Push appends v and waits per timeout for it to be read. The channel takes
// ownership of v. It returns the message id and whether the message had been
// read (or cleared) when Push returned.
func (c *Channel) Push(v variant.Variant, timeout Timeout) (id uint64, read bool) {
	id, read, _ = c.PushContext(context.Background(), v, timeout)
	return id, read
}

// PushContext is Push with cancellation. When ctx is done first the message
// stays queued and ctx.Err() is returned alongside its id.
//
// Pushing to a destroyed channel panics with a ContractError.
func (c *Channel) PushContext(ctx context.Context, v variant.Variant, timeout Timeout) (uint64, bool, error) {
	start := c.clock.Now()

	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		v.Release()
		panic(ecerrors.Contract("channel", "push to destroyed channel %q", c.name))
	}
	c.messages = append(c.messages, v)
	c.pinned = true
	c.sent++
	id := c.sent
	c.broadcast()

	var err error
	if !timeout.IsNoWait() {
		err = c.waitLocked(ctx, timeout, func() bool { return c.received >= id })
	}
	read := c.received >= id
	c.mu.Unlock()

	c.metrics.RecordChannelPush(ctx, c.name, c.clock.Since(start), read)
	return id, read, err
}

// Pop removes the oldest message, waiting per timeout while the channel is
// empty. The caller owns the returned variant.
func (c *Channel) Pop(timeout Timeout) (variant.Variant, bool) {
	v, ok, _ := c.PopContext(context.Background(), timeout)
	return v, ok
}

// PopContext is Pop with cancellation.
func (c *Channel) PopContext(ctx context.Context, timeout Timeout) (variant.Variant, bool, error) {
	c.mu.Lock()

	var err error
	if !timeout.IsNoWait() {
		err = c.waitLocked(ctx, timeout, func() bool { return c.head < len(c.messages) || c.destroyed })
	}
	if c.head >= len(c.messages) {
		c.mu.Unlock()
		return variant.Nil(), false, err
	}

	v := c.messages[c.head]
	c.messages[c.head] = variant.Variant{}
	c.head++
	if c.head == len(c.messages) {
		c.head = 0
		c.messages = c.messages[:0]
		c.pinned = false
	}
	c.received++
	c.broadcast()
	c.mu.Unlock()

	c.metrics.RecordChannelPop(ctx, c.name)
	return v, true, nil
}

// waitLocked blocks until done reports true, the timeout expires or ctx is
// done. Must be called with c.mu held; the lock is released while sleeping.
// The remaining time is recomputed after every wakeup.
func (c *Channel) waitLocked(ctx context.Context, timeout Timeout, done func() bool) error {
	var deadline time.Time
	if !timeout.IsForever() {
		deadline = c.clock.Now().Add(timeout.Duration())
	}

	for !done() {
		var remaining time.Duration
		if !timeout.IsForever() {
			remaining = deadline.Sub(c.clock.Now())
			if remaining <= 0 {
				return nil
			}
		}

		notify := c.notify
		c.mu.Unlock()
		err := c.sleep(ctx, notify, remaining, timeout.IsForever())
		c.mu.Lock()
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Channel) sleep(ctx context.Context, notify <-chan struct{}, d time.Duration, unbounded bool) error {
	if unbounded {
		select {
		case <-notify:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	timer := c.clock.Timer(d)
	defer timer.Stop()
	select {
	case <-notify:
	case <-timer.C:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// Peek returns a copy of the oldest message without removing it. Object
// references in the copy are retained; the caller releases the copy.
func (c *Channel) Peek() (variant.Variant, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.head >= len(c.messages) {
		return variant.Nil(), false
	}
	return c.messages[c.head].Clone(), true
}

// Clear discards every pending message, marks them all as read and returns
// how many were discarded. Pushers waiting on a discarded message return
// with read=true.
func (c *Channel) Clear() int {
	c.mu.Lock()
	pending := make([]variant.Variant, len(c.messages)-c.head)
	copy(pending, c.messages[c.head:])
	clear(c.messages)
	c.messages = c.messages[:0]
	c.head = 0
	c.received = c.sent
	c.pinned = false
	c.broadcast()
	c.mu.Unlock()

	variant.ReleaseAll(pending)
	c.metrics.RecordChannelClear(context.Background(), c.name, len(pending))
	return len(pending)
}

// Destroy clears the channel and marks it unusable. Blocked pushers return
// read and blocked pops return empty. It returns how many undelivered messages
// were released. Destroying twice is a no-op.
func (c *Channel) Destroy() int {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return 0
	}
	c.destroyed = true
	c.broadcast()
	c.mu.Unlock()

	n := c.Clear()
	observability.LogChannelDestroyed(c.logger, c.name, n)
	return n
}

// Count returns the number of pending messages.
func (c *Channel) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages) - c.head
}

// HasRead reports whether message id has been consumed or cleared. Once true
// for an id it stays true.
func (c *Channel) HasRead(id uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.received >= id
}

// Sent returns the number of messages ever pushed.
func (c *Channel) Sent() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent
}

// Received returns the number of messages consumed or cleared.
func (c *Channel) Received() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.received
}

// Pinned reports whether the channel holds undelivered messages and must
// outlive its users.
func (c *Channel) Pinned() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pinned
}

// Destroyed reports whether Destroy has been called.
func (c *Channel) Destroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}
