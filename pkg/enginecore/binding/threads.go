package binding

import (
	"github.com/randalmurphal/enginecore/pkg/enginecore/thread"
	"github.com/randalmurphal/enginecore/pkg/enginecore/variant"
)

// ThreadHandle is the host wrapper of a thread. It keeps the thread alive
// while the host holds it.
type ThreadHandle struct {
	proxy *variant.Proxy
}

// Proxy implements variant.Wrapper.
func (h *ThreadHandle) Proxy() *variant.Proxy { return h.proxy }

// Thread returns the wrapped thread.
func (h *ThreadHandle) Thread() *thread.Thread {
	return h.proxy.Object().(*thread.Thread)
}

// Threads creates and drives threads with host values.
type Threads struct {
	objs *variant.ObjectTable
	opts []thread.Option
}

// NewThreads registers the thread wrapper on objs. opts apply to every
// thread created through Create.
func NewThreads(objs *variant.ObjectTable, opts ...thread.Option) *Threads {
	objs.RegisterType(thread.TypeName, func(p *variant.Proxy) any {
		return &ThreadHandle{proxy: p}
	})
	return &Threads{objs: objs, opts: opts}
}

// Create returns a stopped thread running body.
func (ts *Threads) Create(body thread.Body) *ThreadHandle {
	t := thread.New(body, ts.opts...)
	return &ThreadHandle{proxy: ts.objs.Wrap(t)}
}

// Start converts args and starts the thread.
func (ts *Threads) Start(h *ThreadHandle, args ...any) error {
	vs := make([]variant.Variant, 0, len(args))
	for _, arg := range args {
		v, err := variant.FromValue(arg)
		if err != nil {
			variant.ReleaseAll(vs)
			return err
		}
		vs = append(vs, v)
	}
	return h.Thread().Start(vs...)
}

// Wait blocks until the thread's current run finishes.
func (ts *Threads) Wait(h *ThreadHandle) {
	h.Thread().Wait()
}

// IsRunning reports whether the thread is executing.
func (ts *Threads) IsRunning(h *ThreadHandle) bool {
	return h.Thread().IsRunning()
}

// Error returns the failure message of the last run, or nil.
func (ts *Threads) Error(h *ThreadHandle) any {
	if msg, failed := h.Thread().Error(); failed {
		return msg
	}
	return nil
}
