package channel

import (
	"math"
	"time"
)

type timeoutKind uint8

const (
	noWait timeoutKind = iota
	forever
	bounded
)

// Timeout controls how long Push and Pop block. The zero Timeout is NoWait.
type Timeout struct {
	kind timeoutKind
	d    time.Duration
}

// NoWait returns a timeout that never blocks.
func NoWait() Timeout { return Timeout{kind: noWait} }

// Forever returns a timeout that blocks until the condition holds.
func Forever() Timeout { return Timeout{kind: forever} }

// After returns a timeout that blocks for at most d. A negative d is NoWait;
// zero checks once without sleeping.
func After(d time.Duration) Timeout {
	if d < 0 {
		return NoWait()
	}
	return Timeout{kind: bounded, d: d}
}

// TimeoutFromSeconds maps a scripting timeout in seconds: NaN or negative is
// NoWait and +Inf is Forever.
func TimeoutFromSeconds(seconds float64) Timeout {
	switch {
	case math.IsNaN(seconds) || seconds < 0:
		return NoWait()
	case math.IsInf(seconds, 1):
		return Forever()
	case seconds > float64(math.MaxInt64)/float64(time.Second):
		return Forever()
	default:
		return After(time.Duration(seconds * float64(time.Second)))
	}
}

// IsNoWait reports whether the timeout never blocks.
func (t Timeout) IsNoWait() bool { return t.kind == noWait }

// IsForever reports whether the timeout never expires.
func (t Timeout) IsForever() bool { return t.kind == forever }

// Duration returns the bound of an After timeout, or zero.
func (t Timeout) Duration() time.Duration {
	if t.kind != bounded {
		return 0
	}
	return t.d
}

// String implements fmt.Stringer.
func (t Timeout) String() string {
	switch t.kind {
	case forever:
		return "forever"
	case bounded:
		return t.d.String()
	default:
		return "nowait"
	}
}
