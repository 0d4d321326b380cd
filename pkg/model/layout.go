package model

import (
	"errors"
	"fmt"

	"github.com/Faultbox/gltfmodel/pkg/convert"
)

// ErrInvalidLayout is returned by New and Layout.Validate.
var ErrInvalidLayout = errors.New("invalid vertex layout")

// PositionAttribute is the only attribute a layout must contain.
const PositionAttribute = "POSITION"

// Layout describes the destination vertex format of a model.
type Layout struct {
	Attributes []VertexAttribute
	// IndexSize is the index element width in bytes, 2 or 4.
	IndexSize int
}

// DefaultLayout returns the engine's standard vertex format with 32-bit
// indices.
func DefaultLayout() Layout {
	return Layout{
		Attributes: []VertexAttribute{
			{Name: "POSITION", BufferID: 0, RelativeOffset: 0, ValueType: convert.Float32, NumComponents: 3},
			{Name: "NORMAL", BufferID: 0, RelativeOffset: 12, ValueType: convert.Float32, NumComponents: 3},
			{Name: "TEXCOORD_0", BufferID: 0, RelativeOffset: 24, ValueType: convert.Float32, NumComponents: 2},
			{Name: "TEXCOORD_1", BufferID: 0, RelativeOffset: 32, ValueType: convert.Float32, NumComponents: 2},

			{Name: "JOINTS_0", BufferID: 1, RelativeOffset: 0, ValueType: convert.Float32, NumComponents: 4},
			{Name: "WEIGHTS_0", BufferID: 1, RelativeOffset: 16, ValueType: convert.Float32, NumComponents: 4},

			{Name: "COLOR_0", BufferID: 2, RelativeOffset: 0, ValueType: convert.Float32, NumComponents: 4},
			{Name: "TANGENT", BufferID: 2, RelativeOffset: 16, ValueType: convert.Float32, NumComponents: 4},
		},
		IndexSize: 4,
	}
}

// BufferCount returns the number of vertex buffer groups.
func (l Layout) BufferCount() int {
	n := 0
	for _, a := range l.Attributes {
		if a.BufferID+1 > n {
			n = a.BufferID + 1
		}
	}
	return n
}

// Strides returns the element stride of every vertex buffer group: the
// largest end offset among its attributes.
func (l Layout) Strides() []int {
	strides := make([]int, l.BufferCount())
	for _, a := range l.Attributes {
		if end := a.RelativeOffset + a.Size(); end > strides[a.BufferID] {
			strides[a.BufferID] = end
		}
	}
	return strides
}

// Validate checks the layout for consistency.
func (l Layout) Validate() error {
	if l.IndexSize != 2 && l.IndexSize != 4 {
		return fmt.Errorf("%w: index size must be 2 or 4, got %d", ErrInvalidLayout, l.IndexSize)
	}
	if len(l.Attributes) == 0 {
		return fmt.Errorf("%w: no attributes", ErrInvalidLayout)
	}

	seen := make(map[string]bool, len(l.Attributes))
	for _, a := range l.Attributes {
		switch {
		case a.Name == "":
			return fmt.Errorf("%w: attribute without name", ErrInvalidLayout)
		case seen[a.Name]:
			return fmt.Errorf("%w: duplicate attribute %s", ErrInvalidLayout, a.Name)
		case a.BufferID < 0:
			return fmt.Errorf("%w: %s: negative buffer id", ErrInvalidLayout, a.Name)
		case a.RelativeOffset < 0:
			return fmt.Errorf("%w: %s: negative offset", ErrInvalidLayout, a.Name)
		case !a.ValueType.Valid():
			return fmt.Errorf("%w: %s: %v", ErrInvalidLayout, a.Name, convert.ErrUnsupported)
		case a.NumComponents < 1 || a.NumComponents > 4:
			return fmt.Errorf("%w: %s: component count %d", ErrInvalidLayout, a.Name, a.NumComponents)
		}
		seen[a.Name] = true
	}
	if !seen[PositionAttribute] {
		return fmt.Errorf("%w: missing %s", ErrInvalidLayout, PositionAttribute)
	}

	used := make([]bool, l.BufferCount())
	for _, a := range l.Attributes {
		used[a.BufferID] = true
	}
	for id, ok := range used {
		if !ok {
			return fmt.Errorf("%w: buffer %d has no attributes", ErrInvalidLayout, id)
		}
	}

	// Attributes sharing a buffer must not overlap.
	for i, a := range l.Attributes {
		for _, b := range l.Attributes[i+1:] {
			if a.BufferID != b.BufferID {
				continue
			}
			if a.RelativeOffset < b.RelativeOffset+b.Size() && b.RelativeOffset < a.RelativeOffset+a.Size() {
				return fmt.Errorf("%w: %s overlaps %s", ErrInvalidLayout, a.Name, b.Name)
			}
		}
	}
	return nil
}

// Attribute returns the attribute with the given name.
func (l Layout) Attribute(name string) (VertexAttribute, bool) {
	for _, a := range l.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return VertexAttribute{}, false
}

// New validates the layout and returns an empty model whose buffers are
// sized for it. The index buffer is the last entry of Buffers.
func New(layout Layout) (*Model, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	strides := layout.Strides()
	buffers := make([]Buffer, 0, len(strides)+1)
	for _, s := range strides {
		buffers = append(buffers, Buffer{ElementStride: s})
	}
	buffers = append(buffers, Buffer{ElementStride: layout.IndexSize})

	attrs := make([]VertexAttribute, len(layout.Attributes))
	copy(attrs, layout.Attributes)

	return &Model{
		Attributes: attrs,
		IndexSize:  layout.IndexSize,
		Buffers:    buffers,
	}, nil
}

// VertexBufferCount returns the number of vertex buffer groups.
func (m *Model) VertexBufferCount() int {
	return len(m.Buffers) - 1
}

// IndexBuffer returns the index buffer.
func (m *Model) IndexBuffer() *Buffer {
	return &m.Buffers[len(m.Buffers)-1]
}
