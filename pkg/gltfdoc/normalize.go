package gltfdoc

// The gltf package stores optional indices as pointers and numbers in
// several widths depending on the field. These helpers flatten them to the
// int and float32 forms used by gltfsrc.

// optIndex returns the index held by v, or -1 when it is unset.
func optIndex(v any) int {
	switch x := v.(type) {
	case *int:
		if x != nil {
			return *x
		}
	case *uint32:
		if x != nil {
			return int(*x)
		}
	case int:
		return x
	case uint32:
		return int(x)
	}
	return -1
}

func intValue(v any) int {
	switch x := v.(type) {
	case int:
		return x
	case uint32:
		return int(x)
	case int64:
		return int(x)
	case uint64:
		return int(x)
	case *int:
		if x != nil {
			return *x
		}
	case *uint32:
		if x != nil {
			return int(*x)
		}
	}
	return 0
}

func indexList(v any) []int {
	switch x := v.(type) {
	case []int:
		out := make([]int, len(x))
		copy(out, x)
		return out
	case []uint32:
		out := make([]int, len(x))
		for i, n := range x {
			out[i] = int(n)
		}
		return out
	}
	return nil
}

func floatValue(v any) float32 {
	switch x := v.(type) {
	case float32:
		return x
	case float64:
		return float32(x)
	case *float32:
		if x != nil {
			return *x
		}
	case *float64:
		if x != nil {
			return float32(*x)
		}
	}
	return 0
}

func floatList(v any) []float32 {
	switch x := v.(type) {
	case []float32:
		out := make([]float32, len(x))
		copy(out, x)
		return out
	case []float64:
		out := make([]float32, len(x))
		for i, f := range x {
			out[i] = float32(f)
		}
		return out
	case [3]float32:
		return x[:]
	case [3]float64:
		return floatList(x[:])
	case [4]float32:
		return x[:]
	case [4]float64:
		return floatList(x[:])
	case [16]float32:
		return x[:]
	case [16]float64:
		return floatList(x[:])
	case *[3]float32:
		if x != nil {
			return x[:]
		}
	case *[3]float64:
		if x != nil {
			return floatList(x[:])
		}
	case *[4]float32:
		if x != nil {
			return x[:]
		}
	case *[4]float64:
		if x != nil {
			return floatList(x[:])
		}
	case *[16]float32:
		if x != nil {
			return x[:]
		}
	case *[16]float64:
		if x != nil {
			return floatList(x[:])
		}
	}
	return nil
}

func equalFloats(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func allZero(a []float32) bool {
	for _, f := range a {
		if f != 0 {
			return false
		}
	}
	return true
}

var (
	zeroTranslation  = []float32{0, 0, 0}
	identityRotation = []float32{0, 0, 0, 1}
	unitScale        = []float32{1, 1, 1}
	identityMatrix   = []float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
)

// vec3 returns v as a pointer, or nil when it is empty or equal to def.
func vec3(v any, def []float32) *[3]float32 {
	f := floatList(v)
	if len(f) != 3 || equalFloats(f, def) {
		return nil
	}
	return &[3]float32{f[0], f[1], f[2]}
}

func vec4(v any, def []float32) *[4]float32 {
	f := floatList(v)
	if len(f) != 4 || equalFloats(f, def) {
		return nil
	}
	return &[4]float32{f[0], f[1], f[2], f[3]}
}

func mat4(v any) *[16]float32 {
	f := floatList(v)
	if len(f) != 16 || equalFloats(f, identityMatrix) {
		return nil
	}
	var m [16]float32
	copy(m[:], f)
	return &m
}
