// Package thread provides the named-channel directory and the goroutine
// wrapper used for scripted background work.
//
// A Registry maps channel names to channels, creating them on first lookup
// and owning them until Close. Lookups return borrowed channels; callers never
// release them.
//
// A Thread wraps a Body and runs it on its own goroutine:
//
//	th := thread.New(func(ctx context.Context, t *thread.Thread, args []variant.Variant) error {
//	    in := reg.Channel("jobs")
//	    for {
//	        v, ok := in.Pop(channel.Forever())
//	        ...
//	    }
//	}, thread.WithEvents(queue))
//
//	if err := th.Start(variant.String("config.json")); err != nil {
//	    return err
//	}
//	th.Wait()
//
// A failing body (returned error or panic) is recorded on the thread and, when
// an event queue is configured, reported as a threaderror event carrying the
// thread.
package thread
