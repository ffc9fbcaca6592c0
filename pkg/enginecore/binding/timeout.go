package binding

import (
	"github.com/randalmurphal/enginecore/pkg/enginecore/channel"
	ecerrors "github.com/randalmurphal/enginecore/pkg/enginecore/errors"
)

// ParseTimeout converts a host timeout argument. nil and false never wait,
// true waits forever and a number is seconds (negative or NaN never waits,
// +Inf waits forever).
func ParseTimeout(v any) (channel.Timeout, error) {
	switch x := v.(type) {
	case nil:
		return channel.NoWait(), nil
	case bool:
		if x {
			return channel.Forever(), nil
		}
		return channel.NoWait(), nil
	case float64:
		return channel.TimeoutFromSeconds(x), nil
	case float32:
		return channel.TimeoutFromSeconds(float64(x)), nil
	case int:
		return channel.TimeoutFromSeconds(float64(x)), nil
	case int64:
		return channel.TimeoutFromSeconds(float64(x)), nil
	default:
		return channel.NoWait(), ecerrors.Contract("binding", "bad timeout type %T (expected nil, boolean or number)", v)
	}
}
