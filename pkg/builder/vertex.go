package builder

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/gltfmodel/pkg/convert"
	"github.com/Faultbox/gltfmodel/pkg/gltfsrc"
	"github.com/Faultbox/gltfmodel/pkg/model"
)

// loadMesh populates the slot of mesh id. Meshes shared by several nodes
// are built once.
func (b *Builder) loadMesh(id int) (int, error) {
	dst, ok := b.meshes.resolve(id)
	if !ok {
		return model.None, errors.Wrapf(ErrInternal, "mesh %d has no slot", id)
	}
	if b.meshes.isLoaded(dst) {
		return dst, nil
	}
	b.meshes.markLoaded(dst)

	sm := b.src.Mesh(id)
	mesh := model.Mesh{
		Name:       sm.Name,
		Primitives: make([]model.Primitive, 0, len(sm.Primitives)),
		BB:         model.EmptyBoundBox(),
	}

	for i := range sm.Primitives {
		sp := &sm.Primitives[i]
		p, err := b.loadPrimitive(sp)
		if err != nil {
			return model.None, errors.WithMessagef(err, "mesh %d primitive %d", id, i)
		}
		mesh.Primitives = append(mesh.Primitives, p)
		if b.opts.PrimitiveLoaded != nil {
			b.opts.PrimitiveLoaded(sp, &mesh.Primitives[len(mesh.Primitives)-1])
		}
		mesh.BB = mesh.BB.Union(p.BB)
	}
	if len(mesh.Primitives) == 0 {
		mesh.BB = model.BoundBox{}
	}

	b.model.Meshes[dst] = mesh
	if b.opts.MeshLoaded != nil {
		b.opts.MeshLoaded(sm, &b.model.Meshes[dst])
	}
	return dst, nil
}

func (b *Builder) loadPrimitive(sp *gltfsrc.Primitive) (model.Primitive, error) {
	posID, ok := sp.Attributes[model.PositionAttribute]
	if !ok {
		return model.Primitive{}, errors.WithStack(ErrMissingPosition)
	}
	pos := b.src.Accessor(posID)
	if pos == nil {
		return model.Primitive{}, errors.Wrapf(ErrMalformed, "position accessor %d not found", posID)
	}

	p := model.Primitive{
		VertexCount: uint32(pos.Count),
		Material:    b.defaultMaterial(),
	}
	if len(pos.Min) >= 3 && len(pos.Max) >= 3 {
		p.BB = model.BoundBox{
			Min: mgl32.Vec3{pos.Min[0], pos.Min[1], pos.Min[2]},
			Max: mgl32.Vec3{pos.Max[0], pos.Max[1], pos.Max[2]},
		}
	} else {
		b.log.Warn("position accessor has no bounds", zap.Int("accessor", posID))
	}

	switch {
	case sp.Material < 0:
	case sp.Material >= b.defaultMaterial():
		b.log.Warn("material out of range, using default",
			zap.Int("material", sp.Material),
			zap.Int("materials", b.defaultMaterial()))
	default:
		p.Material = sp.Material
	}

	key := newBufferViewKey(b.model.Attributes, sp)
	r, hit := b.converted[key.String()]
	if hit {
		b.stats.CacheHits++
	} else {
		var err error
		r, err = b.convertVertexData(key, pos.Count)
		if err != nil {
			return model.Primitive{}, err
		}
		b.converted[key.String()] = r
	}
	p.FirstVertex = r.vertexStart
	p.FirstIndex = uint32(len(b.indexData) / b.model.IndexSize)

	if sp.Indices >= 0 {
		n, err := b.convertIndexData(sp.Indices, r.vertexStart)
		if err != nil {
			return model.Primitive{}, err
		}
		p.IndexCount = n
	}
	return p, nil
}

// convertVertexData appends count vertices for key to every vertex buffer
// and converts each present attribute into place.
func (b *Builder) convertVertexData(key bufferViewKey, count int) (convertedRange, error) {
	r := convertedRange{
		offsets:     make([]int, len(b.vertexData)),
		vertexCount: uint32(count),
	}
	for i, buf := range b.vertexData {
		stride := b.model.Buffers[i].ElementStride
		if stride <= 0 || len(buf)%stride != 0 {
			return r, errors.Wrapf(ErrInternal, "vertex buffer %d: size %d is not a multiple of stride %d", i, len(buf), stride)
		}
		r.offsets[i] = len(buf)
		b.vertexData[i] = append(buf, make([]byte, count*stride)...)
	}

	for ai, attr := range b.model.Attributes {
		acc := key.accessors[ai]
		if acc < 0 {
			continue
		}
		a, src, err := gltfsrc.Elements(b.src, acc)
		if err != nil {
			return r, errors.Wrapf(ErrMalformed, "%s: %v", attr.Name, err)
		}
		if a.Count != count {
			return r, errors.Wrapf(ErrMalformed, "%s: accessor %d has %d elements, POSITION has %d",
				attr.Name, acc, a.Count, count)
		}

		dst := convert.Elements{
			Data:   b.vertexData[attr.BufferID][r.offsets[attr.BufferID]+attr.RelativeOffset:],
			Type:   attr.ValueType,
			Comps:  attr.NumComponents,
			Stride: b.model.Buffers[attr.BufferID].ElementStride,
		}
		if err := convert.Write(dst, src, count); err != nil {
			if errors.Is(err, convert.ErrUnsupported) {
				return r, errors.Wrapf(err, "%s", attr.Name)
			}
			return r, errors.Wrapf(ErrMalformed, "%s: %v", attr.Name, err)
		}
	}

	r.vertexStart = uint32(r.offsets[0] / b.model.Buffers[0].ElementStride)
	b.stats.Conversions++
	b.stats.Vertices += count
	return r, nil
}
