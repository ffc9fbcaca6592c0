// Package variant provides the tagged value type carried by events, channel
// messages and thread arguments.
//
// A Variant is one of nil, boolean, number, string, object reference, vector,
// matrix or table. Variants own their payload: object variants hold one strong
// reference, and Release gives back whatever the variant owns exactly once.
//
// # Host Conversion
//
// FromValue builds a Variant from an ordinary Go value. Take converts back,
// consuming the variant; Peek converts a copy and leaves the variant intact:
//
//	v, err := variant.FromValue(map[string]any{"speed": 2.5})
//	if err != nil {
//	    return err
//	}
//	host := v.Take(objects) // v is now Nil
//
// Object references surface on the host side as *Proxy values. The
// ObjectTable keeps one live proxy per object so repeated conversions of the
// same object yield the same proxy. Types with a registered wrapper factory
// surface as the factory's result instead.
package variant
