package builder

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/Faultbox/gltfmodel/pkg/convert"
	"github.com/Faultbox/gltfmodel/pkg/gltfsrc"
)

// convertIndexData appends the indices of accessor id to the index buffer,
// each offset by baseVertex, and returns how many were written.
//
// Values are truncated to the model's index size; a sum that does not fit
// 16 bits wraps when IndexSize is 2.
func (b *Builder) convertIndexData(id int, baseVertex uint32) (uint32, error) {
	a, src, err := gltfsrc.Elements(b.src, id)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformed, "indices: %v", err)
	}
	if a.NumComponents != 1 {
		return 0, errors.Wrapf(ErrMalformed, "index accessor %d has %d components", id, a.NumComponents)
	}
	switch src.Type {
	case convert.Uint8, convert.Uint16, convert.Uint32:
	default:
		return 0, errors.Wrapf(ErrMalformed, "index accessor %d has component type %s", id, src.Type)
	}
	size := src.Type.Size()
	if src.Stride < size {
		return 0, errors.Wrapf(ErrMalformed, "index accessor %d: stride %d smaller than component size %d", id, src.Stride, size)
	}
	count := a.Count
	if count <= 0 {
		return 0, nil
	}
	if need := (count-1)*src.Stride + size; need > len(src.Data) {
		return 0, errors.Wrapf(ErrMalformed, "index accessor %d needs %d bytes, view has %d", id, need, len(src.Data))
	}

	width := b.model.IndexSize
	start := len(b.indexData)
	b.indexData = append(b.indexData, make([]byte, count*width)...)
	out := b.indexData[start:]

	for i := 0; i < count; i++ {
		p := src.Data[i*src.Stride:]
		var v uint32
		switch src.Type {
		case convert.Uint8:
			v = uint32(p[0])
		case convert.Uint16:
			v = uint32(convert.Load[uint16](p))
		default:
			v = convert.Load[uint32](p)
		}
		v += baseVertex

		if width == 2 {
			binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
		} else {
			binary.LittleEndian.PutUint32(out[i*4:], v)
		}
	}

	b.stats.Indices += count
	return uint32(count), nil
}
