package thread

import (
	"fmt"
	"log/slog"
	"sort"

	"go.uber.org/multierr"

	"github.com/randalmurphal/enginecore/pkg/enginecore/channel"
	ecerrors "github.com/randalmurphal/enginecore/pkg/enginecore/errors"
	"github.com/randalmurphal/enginecore/pkg/enginecore/observability"
	"github.com/randalmurphal/enginecore/pkg/enginecore/registry"
)

// Registry is the directory of named channels. It is the single owner of
// every channel it hands out: channels live until Close, so a channel with
// pending messages is never destroyed under a consumer.
type Registry struct {
	channels    *registry.Registry[uint64, *channel.Channel]
	workers     int
	logger      *slog.Logger
	channelOpts []channel.Option
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used by the registry and its channels.
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithChannelOptions sets options applied to every channel the registry
// creates.
func WithChannelOptions(opts ...channel.Option) RegistryOption {
	return func(r *Registry) {
		r.channelOpts = append(r.channelOpts, opts...)
	}
}

// NewRegistry creates an empty registry. workers is the resolved job worker
// count reported by WorkerCount.
func NewRegistry(workers int, opts ...RegistryOption) *Registry {
	r := &Registry{
		channels: registry.New[uint64, *channel.Channel](),
		workers:  workers,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Channel returns the channel registered under name, creating it on first
// use. Names are keyed by their 64-bit hash, so colliding names share a
// channel. After Close, Channel returns a fresh unregistered channel.
func (r *Registry) Channel(name string) *channel.Channel {
	hash := channel.HashName(name)
	ch, created := r.channels.GetOrCreate(hash, func() *channel.Channel {
		logger := observability.EnrichLogger(r.logger, "channel", name)
		opts := append([]channel.Option{channel.WithLogger(logger)}, r.channelOpts...)
		return channel.New(name, opts...)
	})
	if created {
		observability.LogChannelCreated(r.logger, name, hash)
	}
	return ch
}

// Lookup returns the channel for name without creating it.
func (r *Registry) Lookup(name string) (*channel.Channel, bool) {
	return r.channels.Get(channel.HashName(name))
}

// Channels returns the names of all registered channels, sorted.
func (r *Registry) Channels() []string {
	names := make([]string, 0, r.channels.Len())
	r.channels.Range(func(_ uint64, ch *channel.Channel) bool {
		names = append(names, ch.Name())
		return true
	})
	sort.Strings(names)
	return names
}

// WorkerCount returns the job worker count the registry was created with.
func (r *Registry) WorkerCount() int {
	return r.workers
}

// Close destroys every channel, releasing undelivered messages one by one.
// The returned error lists channels that still held messages; it is a
// degraded-category error and the teardown itself always completes.
func (r *Registry) Close() error {
	if r.channels.Drained() {
		return nil
	}

	drained := r.channels.Drain()
	names := make([]string, 0, len(drained))
	byName := make(map[string]*channel.Channel, len(drained))
	for _, ch := range drained {
		names = append(names, ch.Name())
		byName[ch.Name()] = ch
	}
	sort.Strings(names)

	var errs error
	for _, name := range names {
		if n := byName[name].Destroy(); n > 0 {
			errs = multierr.Append(errs,
				fmt.Errorf("channel %q: %w (%d discarded)", name, ErrUndelivered, n))
		}
	}
	if errs != nil {
		return ecerrors.Degraded(errs, "close channel registry")
	}
	return nil
}
