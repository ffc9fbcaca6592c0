package variant

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// wireVariant is the JSON shape of a Variant.
type wireVariant struct {
	Kind   string          `json:"kind"`
	Value  json.RawMessage `json:"value,omitempty"`
	Vector string          `json:"vector,omitempty"`
	Type   string          `json:"type,omitempty"`
}

type wirePair struct {
	Key   Variant `json:"key"`
	Value Variant `json:"value"`
}

// MarshalJSON encodes the variant. Object references encode their type tag
// only; non-finite numbers encode as strings.
func (v Variant) MarshalJSON() ([]byte, error) {
	w := wireVariant{Kind: v.kind.String()}
	var (
		raw any
		err error
	)
	switch v.kind {
	case KindNil:
	case KindBoolean:
		raw = v.flag
	case KindNumber:
		raw = encodeNumber(v.number)
	case KindString:
		raw = v.str
	case KindObject:
		w.Type = v.obj.TypeName()
	case KindVector:
		w.Vector = v.vkind.String()
		raw = v.vec[:v.vkind.Components()]
	case KindMatrix:
		raw = v.AsMatrix()
	case KindTable:
		pairs := make([]wirePair, len(v.table))
		for i, p := range v.table {
			pairs[i] = wirePair(p)
		}
		raw = pairs
	default:
		return nil, fmt.Errorf("marshal variant: unknown kind %d", v.kind)
	}
	if raw != nil {
		if w.Value, err = json.Marshal(raw); err != nil {
			return nil, fmt.Errorf("marshal variant: %w", err)
		}
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a variant. Object references decode to Nil since
// object identity does not survive serialization.
func (v *Variant) UnmarshalJSON(data []byte) error {
	var w wireVariant
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("unmarshal variant: %w", err)
	}
	kind, ok := parseKind(w.Kind)
	if !ok {
		return fmt.Errorf("unmarshal variant: unknown kind %q", w.Kind)
	}

	var out Variant
	switch kind {
	case KindNil, KindObject:
	case KindBoolean:
		var b bool
		if err := json.Unmarshal(w.Value, &b); err != nil {
			return fmt.Errorf("unmarshal boolean: %w", err)
		}
		out = Bool(b)
	case KindNumber:
		n, err := decodeNumber(w.Value)
		if err != nil {
			return err
		}
		out = Number(n)
	case KindString:
		var s string
		if err := json.Unmarshal(w.Value, &s); err != nil {
			return fmt.Errorf("unmarshal string: %w", err)
		}
		out = String(s)
	case KindVector:
		vk, ok := parseVectorKind(w.Vector)
		if !ok {
			return fmt.Errorf("unmarshal variant: unknown vector shape %q", w.Vector)
		}
		var comps []float32
		if err := json.Unmarshal(w.Value, &comps); err != nil {
			return fmt.Errorf("unmarshal vector: %w", err)
		}
		out = Vector(vk, comps...)
	case KindMatrix:
		var m Mat4
		if err := json.Unmarshal(w.Value, &m); err != nil {
			return fmt.Errorf("unmarshal matrix: %w", err)
		}
		out = Matrix(m)
	case KindTable:
		var pairs []wirePair
		if err := json.Unmarshal(w.Value, &pairs); err != nil {
			return fmt.Errorf("unmarshal table: %w", err)
		}
		table := make([]Pair, len(pairs))
		for i, p := range pairs {
			table[i] = Pair(p)
		}
		out = Table(table...)
	}
	*v = out
	return nil
}

func encodeNumber(n float64) any {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return n
}

func decodeNumber(raw json.RawMessage) (float64, error) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("unmarshal number: %w", err)
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unmarshal number: %w", err)
	}
	return n, nil
}
