package model

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// LocalTransform composes the node's transform as T * R * S * M.
func (n *Node) LocalTransform() mgl32.Mat4 {
	t := mgl32.Translate3D(n.Translation.X(), n.Translation.Y(), n.Translation.Z())
	r := n.Rotation.Normalize().Mat4()
	s := mgl32.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	return t.Mul4(r).Mul4(s).Mul4(n.Matrix)
}

// GlobalTransform returns the node's transform in model space by walking
// parent links up to the root.
func (m *Model) GlobalTransform(node int) mgl32.Mat4 {
	out := mgl32.Ident4()
	// Bounded by the arena size so a corrupted parent chain cannot loop.
	for i := 0; node != None && i < len(m.Nodes); i++ {
		n := &m.Nodes[node]
		out = n.LocalTransform().Mul4(out)
		node = n.Parent
	}
	return out
}

// EmptyBoundBox returns a box that any Extend call replaces.
func EmptyBoundBox() BoundBox {
	inf := math32.Inf(1)
	return BoundBox{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// Empty reports whether the box contains no point.
func (b BoundBox) Empty() bool {
	return b.Min.X() > b.Max.X() || b.Min.Y() > b.Max.Y() || b.Min.Z() > b.Max.Z()
}

// Union returns the component-wise union of b and o.
func (b BoundBox) Union(o BoundBox) BoundBox {
	return BoundBox{
		Min: mgl32.Vec3{
			math32.Min(b.Min.X(), o.Min.X()),
			math32.Min(b.Min.Y(), o.Min.Y()),
			math32.Min(b.Min.Z(), o.Min.Z()),
		},
		Max: mgl32.Vec3{
			math32.Max(b.Max.X(), o.Max.X()),
			math32.Max(b.Max.Y(), o.Max.Y()),
			math32.Max(b.Max.Z(), o.Max.Z()),
		},
	}
}

// Center returns the midpoint of the box.
func (b BoundBox) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent of the box along each axis.
func (b BoundBox) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}
