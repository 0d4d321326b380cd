// Package convert converts strided vertex component data between numeric
// value types.
//
// All data is little-endian. Conversions are plain numeric casts: integer
// sources are not normalized when written to floating-point destinations,
// and floating-point sources are truncated toward zero when written to
// integer destinations.
package convert

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnsupported is returned for value types outside the enumeration.
var ErrUnsupported = errors.New("unsupported value type")

// ValueType identifies the scalar type of a vertex component.
type ValueType int

// Value types.
const (
	Undefined ValueType = iota
	Int8
	Int16
	Int32
	Uint8
	Uint16
	Uint32
	Float32

	numValueTypes
)

// Size returns the size of one component in bytes, or 0 for
// unsupported types.
func (t ValueType) Size() int {
	switch t {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	default:
		return 0
	}
}

// String returns the lower-case type name.
func (t ValueType) String() string {
	switch t {
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Float32:
		return "float32"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// Valid reports whether t is a member of the enumeration.
func (t ValueType) Valid() bool {
	return t > Undefined && t < numValueTypes
}

// ParseValueType parses a type name as produced by String.
// "float" is accepted as an alias of "float32".
func ParseValueType(s string) (ValueType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int8":
		return Int8, nil
	case "int16":
		return Int16, nil
	case "int32":
		return Int32, nil
	case "uint8":
		return Uint8, nil
	case "uint16":
		return Uint16, nil
	case "uint32":
		return Uint32, nil
	case "float32", "float":
		return Float32, nil
	default:
		return Undefined, fmt.Errorf("%w: %q", ErrUnsupported, s)
	}
}

// Elements describes count strided elements of comps components each.
type Elements struct {
	Data   []byte
	Type   ValueType
	Comps  int
	Stride int
}

// span returns the number of bytes the elements touch.
func (e Elements) span(count int) int {
	if count <= 0 {
		return 0
	}
	return (count-1)*e.Stride + e.Comps*e.Type.Size()
}

// Write converts count elements from src into dst.
// Only the first min(src.Comps, dst.Comps) components of every element are
// written; the remaining destination components are left untouched.
func Write(dst, src Elements, count int) error {
	if !src.Type.Valid() {
		return fmt.Errorf("%w: source %s", ErrUnsupported, src.Type)
	}
	if !dst.Type.Valid() {
		return fmt.Errorf("%w: destination %s", ErrUnsupported, dst.Type)
	}
	if count <= 0 {
		return nil
	}
	comps := min(src.Comps, dst.Comps)
	if comps <= 0 {
		return nil
	}
	if src.Stride < src.Comps*src.Type.Size() {
		return fmt.Errorf("source stride %d is too small for %d x %s", src.Stride, src.Comps, src.Type)
	}
	if n := src.span(count); n > len(src.Data) {
		return fmt.Errorf("source data too short: need %d bytes, have %d", n, len(src.Data))
	}
	if n := dst.span(count); n > len(dst.Data) {
		return fmt.Errorf("destination data too short: need %d bytes, have %d", n, len(dst.Data))
	}

	conv := table[src.Type][dst.Type]
	conv(dst.Data, dst.Stride, src.Data, src.Stride, comps, count)
	return nil
}

// Supported reports whether a conversion from src to dst exists.
func Supported(src, dst ValueType) bool {
	return src.Valid() && dst.Valid() && table[src][dst] != nil
}

type scalar interface {
	int8 | int16 | int32 | uint8 | uint16 | uint32 | float32
}

type convertFunc func(dst []byte, dstStride int, src []byte, srcStride int, comps, count int)

// table is indexed by [source][destination].
var table = [numValueTypes][numValueTypes]convertFunc{
	Int8:    row[int8](),
	Int16:   row[int16](),
	Int32:   row[int32](),
	Uint8:   row[uint8](),
	Uint16:  row[uint16](),
	Uint32:  row[uint32](),
	Float32: row[float32](),
}

func row[S scalar]() [numValueTypes]convertFunc {
	return [numValueTypes]convertFunc{
		Int8:    convertElements[S, int8],
		Int16:   convertElements[S, int16],
		Int32:   convertElements[S, int32],
		Uint8:   convertElements[S, uint8],
		Uint16:  convertElements[S, uint16],
		Uint32:  convertElements[S, uint32],
		Float32: convertElements[S, float32],
	}
}

func convertElements[S, D scalar](dst []byte, dstStride int, src []byte, srcStride int, comps, count int) {
	var s S
	var d D
	ssz := sizeOf(s)
	dsz := sizeOf(d)
	for i := 0; i < count; i++ {
		sp := src[i*srcStride:]
		dp := dst[i*dstStride:]
		for c := 0; c < comps; c++ {
			v := Load[S](sp[c*ssz:])
			Store(dp[c*dsz:], D(v))
		}
	}
}

func sizeOf[T scalar](v T) int {
	switch any(v).(type) {
	case int8, uint8:
		return 1
	case int16, uint16:
		return 2
	default:
		return 4
	}
}

// Load decodes one little-endian scalar from the start of b.
func Load[T scalar](b []byte) T {
	var v T
	switch p := any(&v).(type) {
	case *int8:
		*p = int8(b[0])
	case *uint8:
		*p = b[0]
	case *int16:
		*p = int16(binary.LittleEndian.Uint16(b))
	case *uint16:
		*p = binary.LittleEndian.Uint16(b)
	case *int32:
		*p = int32(binary.LittleEndian.Uint32(b))
	case *uint32:
		*p = binary.LittleEndian.Uint32(b)
	case *float32:
		*p = math.Float32frombits(binary.LittleEndian.Uint32(b))
	}
	return v
}

// Store encodes v little-endian at the start of b.
func Store[T scalar](b []byte, v T) {
	switch x := any(v).(type) {
	case int8:
		b[0] = byte(x)
	case uint8:
		b[0] = x
	case int16:
		binary.LittleEndian.PutUint16(b, uint16(x))
	case uint16:
		binary.LittleEndian.PutUint16(b, x)
	case int32:
		binary.LittleEndian.PutUint32(b, uint32(x))
	case uint32:
		binary.LittleEndian.PutUint32(b, x)
	case float32:
		binary.LittleEndian.PutUint32(b, math.Float32bits(x))
	}
}
