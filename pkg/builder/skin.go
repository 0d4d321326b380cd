package builder

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/gltfmodel/pkg/convert"
	"github.com/Faultbox/gltfmodel/pkg/model"
)

const mat4Size = 16 * 4

// loadSkins loads every skin of the document. Joints outside the model are
// dropped, while an unresolved skeleton root just leaves Skeleton unset.
func (b *Builder) loadSkins() error {
	n := b.src.SkinCount()
	b.model.Skins = make([]model.Skin, 0, n)
	for i := 0; i < n; i++ {
		ss := b.src.Skin(i)
		if ss == nil {
			return errors.Wrapf(ErrMalformed, "skin %d not found", i)
		}

		skin := model.Skin{
			Name:     ss.Name,
			Skeleton: model.None,
			Joints:   make([]int, 0, len(ss.Joints)),
		}
		if ss.Skeleton >= 0 {
			if dst, ok := b.nodes.resolve(ss.Skeleton); ok {
				skin.Skeleton = dst
			}
		}
		for _, j := range ss.Joints {
			dst, ok := b.nodes.resolve(j)
			if !ok {
				b.log.Debug("dropping joint outside the model", zap.Int("skin", i), zap.Int("node", j))
				continue
			}
			skin.Joints = append(skin.Joints, dst)
		}

		if ss.InverseBindMatrices >= 0 {
			m, err := b.readMatrices(ss.InverseBindMatrices)
			if err != nil {
				return errors.WithMessagef(err, "skin %d", i)
			}
			skin.InverseBindMatrices = m
		}

		b.model.Skins = append(b.model.Skins, skin)
	}
	return nil
}

// readMatrices reads a tightly packed float32 MAT4 accessor.
func (b *Builder) readMatrices(id int) ([]mgl32.Mat4, error) {
	a, el, err := b.floatElements(id)
	if err != nil {
		return nil, err
	}
	if a.NumComponents != 16 {
		return nil, errors.Wrapf(ErrMalformed, "inverse bind matrices accessor %d has %d components", id, a.NumComponents)
	}
	if el.Stride != mat4Size {
		return nil, errors.Wrapf(ErrMalformed, "inverse bind matrices accessor %d has stride %d, want %d", id, el.Stride, mat4Size)
	}

	out := make([]mgl32.Mat4, a.Count)
	for i := range out {
		p := el.Data[i*mat4Size:]
		for c := 0; c < 16; c++ {
			out[i][c] = convert.Load[float32](p[c*4:])
		}
	}
	return out, nil
}

// assignSkins links skinned nodes to their skin and hands out skin
// transform slots in node order.
func (b *Builder) assignSkins() error {
	slot := 0
	for i := range b.model.Nodes {
		skin := b.nodeSkins[i]
		if skin == skinUnrecorded {
			return errors.Wrapf(ErrInternal, "node %d has no skin record", i)
		}
		if skin < 0 {
			continue
		}
		if skin >= len(b.model.Skins) {
			return errors.Wrapf(ErrMalformed, "node %d references missing skin %d", i, skin)
		}
		n := &b.model.Nodes[i]
		n.Skin = skin
		n.SkinTransformsIndex = slot
		slot++
	}
	b.model.SkinTransformsCount = slot
	return nil
}
