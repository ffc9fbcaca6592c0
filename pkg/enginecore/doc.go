/*
Package enginecore provides the concurrency core of an engine runtime: an
event queue fed by producers, named message channels between threads,
reference-counted threads and a work-stealing job scheduler.

# Overview

A Runtime owns one instance of every subsystem. Nothing is process global,
so several runtimes can coexist (one per test, for example).

	rt, err := enginecore.New(config.Default())
	if err != nil {
	    log.Fatal(err)
	}
	defer rt.Close()

	// A worker thread answering on a channel.
	worker := rt.NewThread(func(ctx context.Context, t *thread.Thread, args []variant.Variant) error {
	    in := rt.Channel("jobs")
	    out := rt.Channel("results")
	    v, ok := in.Pop(channel.Forever())
	    if !ok {
	        return nil
	    }
	    out.Push(variant.Number(v.AsNumber()*2), channel.NoWait())
	    return nil
	})
	defer worker.Release()
	worker.Start()

	rt.Channel("jobs").Push(variant.Number(21), channel.Forever())

# Frame loop

The main loop pumps producers, then drains the queue:

	for {
	    rt.Events().Pump()
	    for {
	        ev, ok := rt.Events().Poll()
	        if !ok {
	            break
	        }
	        if ev.Type == event.TypeQuit {
	            return
	        }
	        ev.Release()
	    }
	}

Threads that fail push a threaderror event carrying the thread and its
message, so failures surface in the same loop.

# Jobs

Short, fine-grained work goes to the job scheduler. Start never blocks: when
every slot is busy (or there are no workers) the job runs inline. Wait steals
queued jobs while the awaited one is pending.

	h := rt.Jobs().Start(func() { work() })
	rt.Jobs().Wait(h)

# Host bindings

The binding package converts between variants and plain Go values for
dynamically typed hosts; Runtime.Bindings returns facades sharing the
runtime's object table.

# Journal

With journal.enabled set, every pushed event is recorded (to SQLite when
journal.path is set, in memory otherwise). Runtime.Replay feeds a recorded
session back through the event queue one frame per pump.

# Observability

Logging uses log/slog. Metrics and tracing use OpenTelemetry through the
global providers and are off unless enabled in the configuration.
*/
package enginecore
