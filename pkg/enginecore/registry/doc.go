// Package registry provides a generic thread-safe registry for values indexed by key.
//
// The engine uses it in two places: the thread module's channel directory
// (keyed by the 64-bit hash of the channel name) and the variant package's
// object wrapper factories (keyed by type name).
//
// # Lazy Initialization
//
// Use GetOrCreate for thread-safe lazy initialization:
//
//	channels := registry.New[uint64, *channel.Channel]()
//
//	ch, created := channels.GetOrCreate(hash, func() *channel.Channel {
//	    return channel.New(name)
//	})
//
// GetOrCreate is atomic - the factory function is called at most once per key,
// even under concurrent access.
//
// # Teardown
//
// A registry that owns its values hands them back with Drain, which empties the
// registry and refuses further registrations:
//
//	for _, ch := range channels.Drain() {
//	    ch.Destroy()
//	}
//
// # Thread Safety
//
// All Registry methods are safe for concurrent use. Range iterates over a
// snapshot, so mutations during iteration do not affect the iteration itself.
package registry
