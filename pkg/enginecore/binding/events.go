package binding

import (
	"math"

	ecerrors "github.com/randalmurphal/enginecore/pkg/enginecore/errors"
	"github.com/randalmurphal/enginecore/pkg/enginecore/event"
	"github.com/randalmurphal/enginecore/pkg/enginecore/variant"
)

// Events exposes an event queue with host values.
type Events struct {
	q    *event.Queue
	objs *variant.ObjectTable
}

// NewEvents wraps q. Objects carried by polled events are wrapped through objs.
func NewEvents(q *event.Queue, objs *variant.ObjectTable) *Events {
	return &Events{q: q, objs: objs}
}

// Push queues a custom event. Only the first event.MaxCustomArgs arguments
// are kept; extra arguments are not converted.
func (e *Events) Push(name string, args ...any) error {
	if len(args) > event.MaxCustomArgs {
		args = args[:event.MaxCustomArgs]
	}

	vs := make([]variant.Variant, 0, len(args))
	for _, arg := range args {
		v, err := variant.FromValue(arg)
		if err != nil {
			variant.ReleaseAll(vs)
			return err
		}
		vs = append(vs, v)
	}

	e.q.Push(event.Custom(name, vs...))
	return nil
}

// Quit queues a quit event. code is nil (exit code 0), a number, or the
// string "restart".
func (e *Events) Quit(code any) error {
	switch x := code.(type) {
	case nil:
		e.q.Push(event.Quit(0))
	case string:
		if x != "restart" {
			return ecerrors.Contract("binding", "bad quit argument %q", x)
		}
		e.q.Push(event.Restart())
	case int:
		e.q.Push(event.Quit(x))
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return ecerrors.Contract("binding", "bad exit code %v", x)
		}
		e.q.Push(event.Quit(int(x)))
	default:
		return ecerrors.Contract("binding", "bad quit argument type %T", code)
	}
	return nil
}

// Restart queues a restart request.
func (e *Events) Restart() {
	e.q.Push(event.Restart())
}

// Poll returns the next event as a name and its values.
func (e *Events) Poll() (string, []any, bool) {
	ev, ok := e.q.Poll()
	if !ok {
		return "", nil, false
	}
	name, values := ev.Values(e.objs)
	return name, values, true
}

// Pump runs every registered event producer once.
func (e *Events) Pump() {
	e.q.Pump()
}

// Clear drops every pending event.
func (e *Events) Clear() int {
	return e.q.Clear()
}
