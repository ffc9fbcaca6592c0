// Package event provides the per-frame event queue.
//
// Producers (platform callbacks, headset drivers, scripted code, background
// threads) push typed events from any goroutine. The main loop pumps the
// registered producers and then drains the queue once per frame:
//
//	q := event.NewQueue()
//	q.AddPump(platformPump)
//
//	for {
//	    q.Pump()
//	    for {
//	        e, ok := q.Poll()
//	        if !ok {
//	            break
//	        }
//	        name, values := e.Values(objects)
//	        dispatch(name, values)
//	    }
//	}
//
// # Ownership
//
// An event owns its payload from the moment it is pushed. Strings are copied
// on push, thread-error events take a strong reference to their thread, and
// custom events own their argument variants. Polling hands ownership to the
// caller, who must call Release or Values exactly once. Clear releases
// everything still queued.
package event
