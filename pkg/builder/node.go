package builder

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/Faultbox/gltfmodel/pkg/model"
)

// allocateNode reserves slots for node id, its subtree and the meshes and
// cameras they reference. Nodes that already have a slot are skipped,
// which bounds recursion on cyclic input.
func (b *Builder) allocateNode(id int) error {
	if _, ok := b.nodes.resolve(id); ok {
		return nil
	}
	sn := b.src.Node(id)
	if sn == nil {
		return errors.Wrapf(ErrMalformed, "node %d out of range (%d nodes)", id, b.src.NodeCount())
	}

	dst, _ := b.nodes.allocate(id)
	b.model.Nodes = append(b.model.Nodes, model.NewNode(dst))
	b.nodeSkins = append(b.nodeSkins, skinUnrecorded)

	for _, c := range sn.Children {
		if err := b.allocateNode(c); err != nil {
			return err
		}
	}

	if sn.Mesh >= 0 {
		if b.src.Mesh(sn.Mesh) == nil {
			return errors.Wrapf(ErrMalformed, "node %d references missing mesh %d", id, sn.Mesh)
		}
		if _, created := b.meshes.allocate(sn.Mesh); created {
			b.model.Meshes = append(b.model.Meshes, model.Mesh{})
		}
	}
	if sn.Camera >= 0 {
		if b.src.Camera(sn.Camera) == nil {
			return errors.Wrapf(ErrMalformed, "node %d references missing camera %d", id, sn.Camera)
		}
		if _, created := b.cameras.allocate(sn.Camera); created {
			b.model.Cameras = append(b.model.Cameras, model.Camera{})
		}
	}
	return nil
}

// loadNode populates the slot of node id and its subtree. A node reached
// through several parents is populated once and keeps its first parent.
func (b *Builder) loadNode(parent, id int) (int, error) {
	dst, ok := b.nodes.resolve(id)
	if !ok {
		return model.None, errors.Wrapf(ErrInternal, "node %d has no slot", id)
	}
	if b.nodes.isLoaded(dst) {
		return dst, nil
	}
	b.nodes.markLoaded(dst)

	sn := b.src.Node(id)
	n := &b.model.Nodes[dst]
	n.Name = sn.Name
	n.Parent = parent
	b.nodeSkins[dst] = sn.Skin

	if sn.Translation != nil {
		n.Translation = mgl32.Vec3(*sn.Translation)
	}
	if sn.Rotation != nil {
		r := sn.Rotation
		n.Rotation = mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
	}
	if sn.Scale != nil {
		n.Scale = mgl32.Vec3(*sn.Scale)
	}
	if sn.Matrix != nil {
		n.Matrix = mgl32.Mat4(*sn.Matrix)
	}

	children := make([]int, 0, len(sn.Children))
	for _, c := range sn.Children {
		cd, err := b.loadNode(dst, c)
		if err != nil {
			return model.None, err
		}
		children = append(children, cd)
	}

	mesh := model.None
	if sn.Mesh >= 0 {
		md, err := b.loadMesh(sn.Mesh)
		if err != nil {
			return model.None, errors.WithMessagef(err, "node %d", id)
		}
		mesh = md
	}

	camera := model.None
	if sn.Camera >= 0 {
		cd, err := b.loadCamera(sn.Camera)
		if err != nil {
			return model.None, errors.WithMessagef(err, "node %d", id)
		}
		camera = cd
	}

	n = &b.model.Nodes[dst]
	n.Children = children
	n.Mesh = mesh
	n.Camera = camera
	return dst, nil
}
