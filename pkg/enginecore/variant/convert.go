package variant

import (
	"sort"

	ecerrors "github.com/randalmurphal/enginecore/pkg/enginecore/errors"
)

// FromValue builds a Variant from a host value.
//
// Supported: nil, bool, integer and float kinds, string, []byte, Object
// (retained), *Proxy and Wrapper (their object, retained), Vec2, Vec3, Vec4, Quat, Mat4,
// map[string]any, []any and Variant itself (cloned). Anything else returns a
// *errors.ContractError.
func FromValue(value any) (Variant, error) {
	switch x := value.(type) {
	case nil:
		return Nil(), nil
	case Variant:
		return x.Clone(), nil
	case bool:
		return Bool(x), nil
	case int:
		return Number(float64(x)), nil
	case int8:
		return Number(float64(x)), nil
	case int16:
		return Number(float64(x)), nil
	case int32:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case uint:
		return Number(float64(x)), nil
	case uint8:
		return Number(float64(x)), nil
	case uint16:
		return Number(float64(x)), nil
	case uint32:
		return Number(float64(x)), nil
	case uint64:
		return Number(float64(x)), nil
	case float32:
		return Number(float64(x)), nil
	case float64:
		return Number(x), nil
	case string:
		return String(x), nil
	case []byte:
		return String(string(x)), nil
	case *Proxy:
		if x == nil {
			return Nil(), nil
		}
		return ObjectOf(x.obj), nil
	case Wrapper:
		p := x.Proxy()
		if p == nil {
			return Nil(), nil
		}
		return ObjectOf(p.obj), nil
	case Object:
		return ObjectOf(x), nil
	case Vec2:
		return Vector(KindVec2, x[:]...), nil
	case Vec3:
		return Vector(KindVec3, x[:]...), nil
	case Vec4:
		return Vector(KindVec4, x[:]...), nil
	case Quat:
		return Vector(KindQuat, x[:]...), nil
	case Mat4:
		return Matrix(x), nil
	case map[string]any:
		return tableFromMap(x)
	case []any:
		return tableFromSlice(x)
	default:
		return Nil(), ecerrors.Contract("variant", "bad variant type %T", value)
	}
}

func tableFromMap(m map[string]any) (Variant, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]Pair, 0, len(keys))
	for _, k := range keys {
		val, err := FromValue(m[k])
		if err != nil {
			releasePairs(pairs)
			return Nil(), err
		}
		pairs = append(pairs, Pair{Key: String(k), Value: val})
	}
	return Table(pairs...), nil
}

func tableFromSlice(items []any) (Variant, error) {
	pairs := make([]Pair, 0, len(items))
	for i, item := range items {
		val, err := FromValue(item)
		if err != nil {
			releasePairs(pairs)
			return Nil(), err
		}
		pairs = append(pairs, Pair{Key: Number(float64(i)), Value: val})
	}
	return Table(pairs...), nil
}

func releasePairs(pairs []Pair) {
	for i := range pairs {
		pairs[i].Key.Release()
		pairs[i].Value.Release()
	}
}

// Take converts the variant to a host value and consumes it: afterwards v is
// Nil and owns nothing.
//
// Object references move into a proxy from objs (or the object itself when
// objs is nil, in which case the caller owns the reference). Tables become
// []any when their keys are 0..n-1 in order, map[string]any when every key is
// a string, and map[any]any otherwise.
func (v *Variant) Take(objs *ObjectTable) any {
	out := v.take(objs)
	*v = Variant{}
	return out
}

func (v *Variant) take(objs *ObjectTable) any {
	switch v.kind {
	case KindBoolean:
		return v.flag
	case KindNumber:
		return v.number
	case KindString:
		return v.str
	case KindObject:
		if objs == nil {
			return v.obj
		}
		return objs.wrapValue(v.obj)
	case KindVector:
		switch v.vkind {
		case KindVec2:
			return Vec2{v.vec[0], v.vec[1]}
		case KindVec3:
			return Vec3{v.vec[0], v.vec[1], v.vec[2]}
		case KindQuat:
			return Quat(v.vec)
		default:
			return Vec4(v.vec)
		}
	case KindMatrix:
		return v.AsMatrix()
	case KindTable:
		return takeTable(v.table, objs)
	default:
		return nil
	}
}

func takeTable(pairs []Pair, objs *ObjectTable) any {
	sequential, stringKeys := true, true
	for i, p := range pairs {
		if p.Key.kind != KindNumber || p.Key.number != float64(i) {
			sequential = false
		}
		if p.Key.kind != KindString {
			stringKeys = false
		}
	}

	switch {
	case sequential:
		out := make([]any, len(pairs))
		for i := range pairs {
			out[i] = pairs[i].Value.Take(objs)
		}
		return out
	case stringKeys:
		out := make(map[string]any, len(pairs))
		for i := range pairs {
			out[pairs[i].Key.str] = pairs[i].Value.Take(objs)
		}
		return out
	default:
		out := make(map[any]any, len(pairs))
		for i := range pairs {
			key := pairs[i].Key.Take(objs)
			out[key] = pairs[i].Value.Take(objs)
		}
		return out
	}
}

// Peek converts a copy of the variant to a host value, leaving v untouched.
// Object references are retained for the returned value.
func (v Variant) Peek(objs *ObjectTable) any {
	c := v.Clone()
	return c.Take(objs)
}
