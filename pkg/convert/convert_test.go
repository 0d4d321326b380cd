package convert

import (
	"errors"
	"testing"
)

var allTypes = []ValueType{Int8, Int16, Int32, Uint8, Uint16, Uint32, Float32}

// encode packs values as count elements of comps components of type t.
func encode(t ValueType, comps, stride int, values []float32) []byte {
	count := len(values) / comps
	b := make([]byte, count*stride)
	for i := 0; i < count; i++ {
		for c := 0; c < comps; c++ {
			p := b[i*stride+c*t.Size():]
			v := values[i*comps+c]
			switch t {
			case Int8:
				Store(p, int8(v))
			case Int16:
				Store(p, int16(v))
			case Int32:
				Store(p, int32(v))
			case Uint8:
				Store(p, uint8(v))
			case Uint16:
				Store(p, uint16(v))
			case Uint32:
				Store(p, uint32(v))
			case Float32:
				Store(p, v)
			}
		}
	}
	return b
}

// decode reads one component of type t back as float32.
func decode(t ValueType, b []byte) float32 {
	switch t {
	case Int8:
		return float32(Load[int8](b))
	case Int16:
		return float32(Load[int16](b))
	case Int32:
		return float32(Load[int32](b))
	case Uint8:
		return float32(Load[uint8](b))
	case Uint16:
		return float32(Load[uint16](b))
	case Uint32:
		return float32(Load[uint32](b))
	default:
		return Load[float32](b)
	}
}

func TestValueType_Size(t *testing.T) {
	tests := []struct {
		vt   ValueType
		want int
	}{
		{Int8, 1}, {Uint8, 1},
		{Int16, 2}, {Uint16, 2},
		{Int32, 4}, {Uint32, 4}, {Float32, 4},
		{Undefined, 0}, {ValueType(42), 0},
	}
	for _, tt := range tests {
		if got := tt.vt.Size(); got != tt.want {
			t.Errorf("%s.Size() = %d, want %d", tt.vt, got, tt.want)
		}
	}
}

func TestParseValueType(t *testing.T) {
	for _, vt := range allTypes {
		got, err := ParseValueType(vt.String())
		if err != nil {
			t.Fatalf("ParseValueType(%q): %v", vt.String(), err)
		}
		if got != vt {
			t.Errorf("ParseValueType(%q) = %s, want %s", vt.String(), got, vt)
		}
	}

	if got, err := ParseValueType(" Float "); err != nil || got != Float32 {
		t.Errorf("ParseValueType(\" Float \") = %s, %v; want float32", got, err)
	}
	if _, err := ParseValueType("float16"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported for float16, got %v", err)
	}
}

func TestWrite_AllPairs(t *testing.T) {
	// Small non-negative integers are representable by every type.
	values := []float32{0, 1, 7, 42, 100, 127}

	for _, st := range allTypes {
		for _, dt := range allTypes {
			t.Run(st.String()+"->"+dt.String(), func(t *testing.T) {
				if !Supported(st, dt) {
					t.Fatalf("pair %s->%s not supported", st, dt)
				}
				srcStride := st.Size() + 3 // deliberately padded
				src := Elements{Data: encode(st, 1, srcStride, values), Type: st, Comps: 1, Stride: srcStride}
				dstStride := dt.Size() * 2
				dst := Elements{Data: make([]byte, len(values)*dstStride), Type: dt, Comps: 1, Stride: dstStride}

				if err := Write(dst, src, len(values)); err != nil {
					t.Fatalf("Write: %v", err)
				}
				for i, want := range values {
					if got := decode(dt, dst.Data[i*dstStride:]); got != want {
						t.Errorf("element %d: got %v, want %v", i, got, want)
					}
				}
			})
		}
	}
}

func TestWrite_ComponentCountMismatch(t *testing.T) {
	// vec3 -> vec4: fourth component stays untouched.
	src := Elements{Data: encode(Float32, 3, 12, []float32{1, 2, 3, 4, 5, 6}), Type: Float32, Comps: 3, Stride: 12}
	dst := Elements{Data: make([]byte, 2*16), Type: Float32, Comps: 4, Stride: 16}
	Store(dst.Data[12:], float32(9))
	Store(dst.Data[28:], float32(9))

	if err := Write(dst, src, 2); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := []float32{1, 2, 3, 9, 4, 5, 6, 9}
	for i, w := range want {
		if got := Load[float32](dst.Data[i*4:]); got != w {
			t.Errorf("component %d: got %v, want %v", i, got, w)
		}
	}

	// vec4 -> vec2: extra source components are dropped.
	src = Elements{Data: encode(Uint16, 4, 8, []float32{1, 2, 3, 4}), Type: Uint16, Comps: 4, Stride: 8}
	dst = Elements{Data: make([]byte, 8), Type: Float32, Comps: 2, Stride: 8}
	if err := Write(dst, src, 1); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if a, b := Load[float32](dst.Data), Load[float32](dst.Data[4:]); a != 1 || b != 2 {
		t.Errorf("got (%v, %v), want (1, 2)", a, b)
	}
}

func TestWrite_Narrowing(t *testing.T) {
	src := Elements{Data: encode(Float32, 1, 4, []float32{2.75, -1.5}), Type: Float32, Comps: 1, Stride: 4}
	dst := Elements{Data: make([]byte, 2*4), Type: Int32, Comps: 1, Stride: 4}
	if err := Write(dst, src, 2); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := Load[int32](dst.Data); got != 2 {
		t.Errorf("2.75 -> int32: got %d, want 2", got)
	}
	if got := Load[int32](dst.Data[4:]); got != -1 {
		t.Errorf("-1.5 -> int32: got %d, want -1", got)
	}

	src = Elements{Data: encode(Uint32, 1, 4, []float32{0x1234}), Type: Uint32, Comps: 1, Stride: 4}
	dst = Elements{Data: make([]byte, 1), Type: Uint8, Comps: 1, Stride: 1}
	if err := Write(dst, src, 1); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if dst.Data[0] != 0x34 {
		t.Errorf("uint32 0x1234 -> uint8: got %#x, want 0x34", dst.Data[0])
	}
}

func TestWrite_Errors(t *testing.T) {
	ok := Elements{Data: make([]byte, 16), Type: Float32, Comps: 1, Stride: 4}

	tests := []struct {
		name    string
		dst     Elements
		src     Elements
		count   int
		wantErr error
	}{
		{
			name:    "undefined source",
			dst:     ok,
			src:     Elements{Data: make([]byte, 16), Type: Undefined, Comps: 1, Stride: 4},
			count:   1,
			wantErr: ErrUnsupported,
		},
		{
			name:    "undefined destination",
			dst:     Elements{Data: make([]byte, 16), Type: ValueType(99), Comps: 1, Stride: 4},
			src:     ok,
			count:   1,
			wantErr: ErrUnsupported,
		},
		{
			name:  "stride too small",
			dst:   ok,
			src:   Elements{Data: make([]byte, 16), Type: Float32, Comps: 3, Stride: 8},
			count: 1,
		},
		{
			name:  "source too short",
			dst:   Elements{Data: make([]byte, 64), Type: Float32, Comps: 1, Stride: 4},
			src:   ok,
			count: 5,
		},
		{
			name:  "destination too short",
			dst:   Elements{Data: make([]byte, 2), Type: Float32, Comps: 1, Stride: 4},
			src:   ok,
			count: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Write(tt.dst, tt.src, tt.count)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestWrite_ZeroCount(t *testing.T) {
	if err := Write(Elements{Type: Float32, Comps: 3, Stride: 12}, Elements{Type: Float32, Comps: 3, Stride: 12}, 0); err != nil {
		t.Errorf("zero count should be a no-op, got %v", err)
	}
}
