package gltfsrc

import (
	"errors"
	"fmt"

	"github.com/Faultbox/gltfmodel/pkg/convert"
)

// ErrBadAccessor is returned when an accessor cannot be resolved to bytes.
var ErrBadAccessor = errors.New("bad accessor")

// ElementSize returns the packed size of one accessor element.
func (a *Accessor) ElementSize() int {
	return a.ComponentType.Size() * a.NumComponents
}

// Elements resolves accessor i to its strided element data.
// The returned data starts at the first element. An accessor without a
// buffer view reads as Count zero-filled elements.
func Elements(src Source, i int) (*Accessor, convert.Elements, error) {
	a := src.Accessor(i)
	if a == nil {
		return nil, convert.Elements{}, fmt.Errorf("%w: accessor %d not found", ErrBadAccessor, i)
	}
	if !a.ComponentType.Valid() {
		return a, convert.Elements{}, fmt.Errorf("%w: accessor %d: %v", ErrBadAccessor, i, convert.ErrUnsupported)
	}

	if a.BufferView < 0 {
		if a.Count < 0 {
			return a, convert.Elements{}, fmt.Errorf("%w: accessor %d: negative count %d", ErrBadAccessor, i, a.Count)
		}
		return a, convert.Elements{
			Data:   make([]byte, a.Count*a.ElementSize()),
			Type:   a.ComponentType,
			Comps:  a.NumComponents,
			Stride: a.ElementSize(),
		}, nil
	}

	view := src.BufferView(a.BufferView)
	if view == nil {
		return a, convert.Elements{}, fmt.Errorf("%w: accessor %d: buffer view %d not found", ErrBadAccessor, i, a.BufferView)
	}
	buf := src.Buffer(view.Buffer)
	if buf == nil && view.ByteLength > 0 {
		return a, convert.Elements{}, fmt.Errorf("%w: accessor %d: buffer %d not found", ErrBadAccessor, i, view.Buffer)
	}

	start := view.ByteOffset
	end := start + view.ByteLength
	if start < 0 || end > len(buf) {
		return a, convert.Elements{}, fmt.Errorf("%w: accessor %d: view [%d:%d] outside buffer of %d bytes",
			ErrBadAccessor, i, start, end, len(buf))
	}
	if a.ByteOffset < 0 || a.ByteOffset > view.ByteLength {
		return a, convert.Elements{}, fmt.Errorf("%w: accessor %d: offset %d outside view", ErrBadAccessor, i, a.ByteOffset)
	}

	stride := view.ByteStride
	if stride == 0 {
		stride = a.ElementSize()
	}

	return a, convert.Elements{
		Data:   buf[start+a.ByteOffset : end],
		Type:   a.ComponentType,
		Comps:  a.NumComponents,
		Stride: stride,
	}, nil
}
