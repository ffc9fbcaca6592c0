package variant

// VectorKind identifies the shape of a vector variant.
type VectorKind uint8

// Vector shapes.
const (
	KindVec2 VectorKind = iota + 1
	KindVec3
	KindVec4
	KindQuat
)

var vectorKindNames = map[VectorKind]string{
	KindVec2: "vec2",
	KindVec3: "vec3",
	KindVec4: "vec4",
	KindQuat: "quat",
}

// String returns the lowercase shape name.
func (k VectorKind) String() string {
	if s, ok := vectorKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Components returns how many of the four slots are meaningful.
func (k VectorKind) Components() int {
	switch k {
	case KindVec2:
		return 2
	case KindVec3:
		return 3
	case KindVec4, KindQuat:
		return 4
	default:
		return 0
	}
}

func parseVectorKind(s string) (VectorKind, bool) {
	for k, name := range vectorKindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Host-side math values.
type (
	Vec2 [2]float32
	Vec3 [3]float32
	Vec4 [4]float32
	Quat [4]float32
	// Mat4 is a 4x4 matrix in column-major order.
	Mat4 [16]float32
)

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}
