package variant

import (
	"sync/atomic"

	ecerrors "github.com/randalmurphal/enginecore/pkg/enginecore/errors"
)

// Object is a reference-counted engine object that can travel inside a
// Variant. Implementations must be comparable (pointer types) because the
// ObjectTable keys proxies by object identity.
type Object interface {
	Retain()
	Release()
	TypeName() string
}

// RefCount is an embeddable atomic reference counter.
//
// Call Init once before sharing the object; the creator holds the first
// reference. The destructor runs when the count drops to zero.
type RefCount struct {
	refs    atomic.Int32
	destroy func()
}

// Init sets the count to one and records the destructor.
func (r *RefCount) Init(destroy func()) {
	r.destroy = destroy
	r.refs.Store(1)
}

// Retain adds a strong reference.
func (r *RefCount) Retain() {
	r.refs.Add(1)
}

// Release drops a strong reference and runs the destructor on the last one.
// Releasing more often than retaining panics with a ContractError.
func (r *RefCount) Release() {
	n := r.refs.Add(-1)
	switch {
	case n == 0:
		if r.destroy != nil {
			r.destroy()
		}
	case n < 0:
		panic(ecerrors.Contract("variant", "object released more times than retained"))
	}
}

// Refs returns the current reference count.
func (r *RefCount) Refs() int32 {
	return r.refs.Load()
}
