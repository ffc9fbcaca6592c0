// Package channel provides named blocking FIFO queues of variants for
// passing values between threads.
//
// Every push gets an id equal to the channel's post-increment sent counter.
// A message with id n has been consumed once the received counter reaches n,
// which HasRead reports without blocking:
//
//	id, _ := ch.Push(variant.Number(42), channel.NoWait())
//	// ... later
//	if ch.HasRead(id) {
//	    // delivered (or discarded by Clear)
//	}
//
// Push and Pop block according to a Timeout: NoWait returns at once, Forever
// waits without limit, and After waits up to a duration measured on the
// channel's clock. The Context variants additionally stop waiting when the
// context is done.
//
// Clear discards pending messages and fast-forwards the received counter, so
// a pusher blocked on a cleared message returns with read=true.
package channel
