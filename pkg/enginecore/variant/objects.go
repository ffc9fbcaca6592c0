package variant

import (
	"runtime"
	"sync"
	"weak"

	"github.com/randalmurphal/enginecore/pkg/enginecore/registry"
)

// Proxy is the host-side handle for an engine object. It owns one strong
// reference, which is released after the proxy becomes unreachable.
type Proxy struct {
	obj Object
}

// Object returns the referenced object. The proxy keeps its reference.
func (p *Proxy) Object() Object {
	return p.obj
}

// TypeName returns the object's type tag.
func (p *Proxy) TypeName() string {
	return p.obj.TypeName()
}

// Wrapper is implemented by typed host wrappers built by a WrapperFunc, so
// they convert back to the object they wrap.
type Wrapper interface {
	Proxy() *Proxy
}

// WrapperFunc builds a host wrapper around a proxy for one object type.
type WrapperFunc func(p *Proxy) any

// ObjectTable maps engine objects to their live proxies. Entries are weak:
// the table never keeps a proxy alive.
type ObjectTable struct {
	mu      sync.Mutex
	proxies map[Object]weak.Pointer[Proxy]
	types   *registry.Registry[string, WrapperFunc]
}

// NewObjectTable creates an empty table.
func NewObjectTable() *ObjectTable {
	return &ObjectTable{
		proxies: make(map[Object]weak.Pointer[Proxy]),
		types:   registry.New[string, WrapperFunc](),
	}
}

// RegisterType installs a wrapper factory for objects whose TypeName is name.
func (t *ObjectTable) RegisterType(name string, fn WrapperFunc) {
	t.types.Register(name, fn)
}

// Wrap returns the live proxy for obj, creating one if needed. The caller's
// strong reference moves into the table: it becomes the proxy's reference, or
// is released when a live proxy already holds one.
func (t *ObjectTable) Wrap(obj Object) *Proxy {
	t.mu.Lock()
	defer t.mu.Unlock()

	if wp, ok := t.proxies[obj]; ok {
		if p := wp.Value(); p != nil {
			obj.Release()
			return p
		}
	}

	p := &Proxy{obj: obj}
	t.proxies[obj] = weak.Make(p)
	runtime.AddCleanup(p, t.collect, obj)
	return p
}

// wrapValue is Wrap followed by the registered wrapper factory, if any.
func (t *ObjectTable) wrapValue(obj Object) any {
	p := t.Wrap(obj)
	if fn, ok := t.types.Get(obj.TypeName()); ok {
		return fn(p)
	}
	return p
}

// collect runs after a proxy is garbage collected.
func (t *ObjectTable) collect(obj Object) {
	t.mu.Lock()
	if wp, ok := t.proxies[obj]; ok && wp.Value() == nil {
		delete(t.proxies, obj)
	}
	t.mu.Unlock()
	obj.Release()
}

// Len returns the number of tracked objects, including entries whose proxy
// has died but not yet been collected.
func (t *ObjectTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.proxies)
}
