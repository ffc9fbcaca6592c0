package registry

import "sync"

// Registry is a thread-safe registry for values indexed by key.
// It uses sync.RWMutex because lookups vastly outnumber insertions:
// a channel is created once and then fetched by name every frame.
type Registry[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
	closed  bool
}

// New creates a new empty registry.
func New[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{
		entries: make(map[K]V),
	}
}

// Register adds or updates a value in the registry.
// Registering into a drained registry is a no-op.
func (r *Registry[K, V]) Register(key K, value V) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.entries[key] = value
}

// Get returns the value for a key and whether it exists.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[key]
	return v, ok
}

// Len returns the number of entries in the registry.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Range iterates over a snapshot of the registry. If fn returns false,
// iteration stops. Register may be called from fn.
func (r *Registry[K, V]) Range(fn func(K, V) bool) {
	r.mu.RLock()
	snapshot := make(map[K]V, len(r.entries))
	for k, v := range r.entries {
		snapshot[k] = v
	}
	r.mu.RUnlock()

	for k, v := range snapshot {
		if !fn(k, v) {
			return
		}
	}
}

// GetOrCreate returns the value for a key, creating it with the factory
// if it doesn't exist. The factory is called at most once per key, even
// under concurrent access. created reports whether this call stored the value.
//
// Once the registry has been drained, GetOrCreate still returns a fresh
// value from the factory but does not store it.
func (r *Registry[K, V]) GetOrCreate(key K, factory func() V) (v V, created bool) {
	r.mu.RLock()
	v, ok := r.entries[key]
	r.mu.RUnlock()
	if ok {
		return v, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.entries[key]; ok {
		return v, false
	}

	v = factory()
	if r.closed {
		return v, false
	}
	r.entries[key] = v
	return v, true
}

// Drain removes every entry and returns them. After Drain the registry
// stays empty: later Register calls are ignored. It is used at teardown,
// where the registry is the owner that releases each value.
func (r *Registry[K, V]) Drain() map[K]V {
	r.mu.Lock()
	defer r.mu.Unlock()

	drained := r.entries
	r.entries = make(map[K]V)
	r.closed = true
	return drained
}

// Drained reports whether Drain has been called.
func (r *Registry[K, V]) Drained() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closed
}
