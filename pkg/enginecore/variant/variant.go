package variant

// Kind identifies which payload a Variant holds.
type Kind uint8

// Variant kinds. The zero value is Nil.
const (
	KindNil Kind = iota
	KindBoolean
	KindNumber
	KindString
	KindObject
	KindVector
	KindMatrix
	KindTable
)

var kindNames = [...]string{
	KindNil:     "nil",
	KindBoolean: "boolean",
	KindNumber:  "number",
	KindString:  "string",
	KindObject:  "object",
	KindVector:  "vector",
	KindMatrix:  "matrix",
	KindTable:   "table",
}

// String returns the lowercase kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

func parseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return KindNil, false
}

// Pair is one key/value entry of a table variant.
type Pair struct {
	Key   Variant
	Value Variant
}

// Variant is a tagged value. The zero Variant is Nil.
//
// A Variant is not safe for concurrent use; ownership moves with the value
// (pushed into a channel, carried by an event, handed to a thread).
type Variant struct {
	kind   Kind
	flag   bool
	number float64
	str    string
	obj    Object
	vkind  VectorKind
	vec    [4]float32
	mat    *Mat4
	table  []Pair
}

// Nil returns the nil variant.
func Nil() Variant { return Variant{} }

// Bool returns a boolean variant.
func Bool(b bool) Variant { return Variant{kind: KindBoolean, flag: b} }

// Number returns a number variant.
func Number(n float64) Variant { return Variant{kind: KindNumber, number: n} }

// String returns a string variant.
func String(s string) Variant { return Variant{kind: KindString, str: s} }

// ObjectOf returns an object variant holding a new strong reference to obj.
// A nil obj yields Nil.
func ObjectOf(obj Object) Variant {
	if obj == nil {
		return Variant{}
	}
	obj.Retain()
	return Variant{kind: KindObject, obj: obj}
}

// adoptObject wraps obj without retaining; the caller's reference moves in.
func adoptObject(obj Object) Variant {
	return Variant{kind: KindObject, obj: obj}
}

// Vector returns a vector variant. Components beyond the shape are zeroed.
func Vector(kind VectorKind, components ...float32) Variant {
	v := Variant{kind: KindVector, vkind: kind}
	copy(v.vec[:kind.Components()], components)
	return v
}

// Matrix returns a matrix variant.
func Matrix(m Mat4) Variant {
	return Variant{kind: KindMatrix, mat: &m}
}

// Table returns a table variant that owns the given pairs.
func Table(pairs ...Pair) Variant {
	return Variant{kind: KindTable, table: pairs}
}

// Kind returns the variant's kind.
func (v Variant) Kind() Kind { return v.kind }

// IsNil reports whether the variant is Nil.
func (v Variant) IsNil() bool { return v.kind == KindNil }

// AsBool returns the boolean payload, or false for other kinds.
func (v Variant) AsBool() bool { return v.kind == KindBoolean && v.flag }

// AsNumber returns the number payload, or zero for other kinds.
func (v Variant) AsNumber() float64 {
	if v.kind != KindNumber {
		return 0
	}
	return v.number
}

// AsString returns the string payload, or "" for other kinds.
func (v Variant) AsString() string {
	if v.kind != KindString {
		return ""
	}
	return v.str
}

// AsObject returns the referenced object without retaining it.
func (v Variant) AsObject() Object {
	if v.kind != KindObject {
		return nil
	}
	return v.obj
}

// AsVector returns the vector shape and components.
func (v Variant) AsVector() (VectorKind, [4]float32) {
	if v.kind != KindVector {
		return 0, [4]float32{}
	}
	return v.vkind, v.vec
}

// AsMatrix returns the matrix payload, or the zero matrix for other kinds.
func (v Variant) AsMatrix() Mat4 {
	if v.kind != KindMatrix || v.mat == nil {
		return Mat4{}
	}
	return *v.mat
}

// Pairs returns the table entries. The slice is owned by the variant.
func (v Variant) Pairs() []Pair {
	if v.kind != KindTable {
		return nil
	}
	return v.table
}

// Release gives back everything the variant owns and resets it to Nil.
// Releasing a Nil variant is a no-op, so double release is harmless.
func (v *Variant) Release() {
	switch v.kind {
	case KindObject:
		if v.obj != nil {
			v.obj.Release()
		}
	case KindTable:
		for i := range v.table {
			v.table[i].Key.Release()
			v.table[i].Value.Release()
		}
	}
	*v = Variant{}
}

// Clone returns a deep copy. Object references are retained; tables are
// copied recursively.
func (v Variant) Clone() Variant {
	switch v.kind {
	case KindObject:
		return ObjectOf(v.obj)
	case KindMatrix:
		return Matrix(v.AsMatrix())
	case KindTable:
		pairs := make([]Pair, len(v.table))
		for i, p := range v.table {
			pairs[i] = Pair{Key: p.Key.Clone(), Value: p.Value.Clone()}
		}
		return Table(pairs...)
	default:
		return v
	}
}

// ReleaseAll releases every variant in vs.
func ReleaseAll(vs []Variant) {
	for i := range vs {
		vs[i].Release()
	}
}
