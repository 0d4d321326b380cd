// Package gltfdoc adapts documents decoded by github.com/qmuntal/gltf to the
// gltfsrc.Source interface.
package gltfdoc

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"

	"github.com/Faultbox/gltfmodel/pkg/convert"
	"github.com/Faultbox/gltfmodel/pkg/gltfsrc"
)

// ErrNoScene is returned by SceneRoots for a scene index the document does
// not have.
var ErrNoScene = errors.New("scene not found")

// Document is a gltfsrc.Source over a decoded glTF document. Descriptors
// are converted once, when the Document is created.
type Document struct {
	doc *gltf.Document

	nodes      []gltfsrc.Node
	meshes     []gltfsrc.Mesh
	accessors  []gltfsrc.Accessor
	views      []gltfsrc.BufferView
	cameras    []gltfsrc.Camera
	skins      []gltfsrc.Skin
	animations []gltfsrc.Animation
	materials  []gltfsrc.Material
}

// New wraps doc.
func New(doc *gltf.Document) *Document {
	d := &Document{doc: doc}

	for _, n := range doc.Nodes {
		d.nodes = append(d.nodes, convertNode(n))
	}
	for _, m := range doc.Meshes {
		d.meshes = append(d.meshes, convertMesh(m))
	}
	for _, a := range doc.Accessors {
		d.accessors = append(d.accessors, convertAccessor(a))
	}
	for _, v := range doc.BufferViews {
		d.views = append(d.views, gltfsrc.BufferView{
			Buffer:     intValue(v.Buffer),
			ByteOffset: intValue(v.ByteOffset),
			ByteLength: intValue(v.ByteLength),
			ByteStride: intValue(v.ByteStride),
		})
	}
	for _, c := range doc.Cameras {
		d.cameras = append(d.cameras, convertCamera(c))
	}
	for _, s := range doc.Skins {
		d.skins = append(d.skins, gltfsrc.Skin{
			Name:                s.Name,
			Skeleton:            optIndex(s.Skeleton),
			Joints:              indexList(s.Joints),
			InverseBindMatrices: optIndex(s.InverseBindMatrices),
		})
	}
	for _, a := range doc.Animations {
		d.animations = append(d.animations, convertAnimation(a))
	}
	for _, m := range doc.Materials {
		d.materials = append(d.materials, gltfsrc.Material{Name: m.Name})
	}
	return d
}

// Decode reads a glTF or GLB document from data. External buffers are not
// resolved; use gltf.Open for files that reference them.
func Decode(data []byte) (*Document, error) {
	var doc gltf.Document
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode glTF: %w", err)
	}
	return New(&doc), nil
}

// Raw returns the wrapped document.
func (d *Document) Raw() *gltf.Document {
	return d.doc
}

func at[T any](s []T, i int) *T {
	if i < 0 || i >= len(s) {
		return nil
	}
	return &s[i]
}

func (d *Document) NodeCount() int                       { return len(d.nodes) }
func (d *Document) Node(i int) *gltfsrc.Node             { return at(d.nodes, i) }
func (d *Document) Mesh(i int) *gltfsrc.Mesh             { return at(d.meshes, i) }
func (d *Document) Accessor(i int) *gltfsrc.Accessor     { return at(d.accessors, i) }
func (d *Document) BufferView(i int) *gltfsrc.BufferView { return at(d.views, i) }
func (d *Document) Camera(i int) *gltfsrc.Camera         { return at(d.cameras, i) }
func (d *Document) SkinCount() int                       { return len(d.skins) }
func (d *Document) Skin(i int) *gltfsrc.Skin             { return at(d.skins, i) }
func (d *Document) AnimationCount() int                  { return len(d.animations) }
func (d *Document) Animation(i int) *gltfsrc.Animation   { return at(d.animations, i) }
func (d *Document) MaterialCount() int                   { return len(d.materials) }
func (d *Document) Material(i int) *gltfsrc.Material     { return at(d.materials, i) }

// Buffer returns the loaded contents of buffer i.
func (d *Document) Buffer(i int) []byte {
	if i < 0 || i >= len(d.doc.Buffers) || d.doc.Buffers[i] == nil {
		return nil
	}
	return d.doc.Buffers[i].Data
}

// SceneRoots returns the root nodes to build.
//
// A non-negative scene selects that scene. Otherwise the document's default
// scene is used, then the roots of every scene in order. Documents without
// scenes yield every node that is no other node's child.
func (d *Document) SceneRoots(scene int) ([]int, error) {
	if scene >= 0 {
		if scene >= len(d.doc.Scenes) {
			return nil, fmt.Errorf("%w: %d (%d scenes)", ErrNoScene, scene, len(d.doc.Scenes))
		}
		return indexList(d.doc.Scenes[scene].Nodes), nil
	}

	if def := optIndex(d.doc.Scene); def >= 0 && def < len(d.doc.Scenes) {
		return indexList(d.doc.Scenes[def].Nodes), nil
	}

	if len(d.doc.Scenes) > 0 {
		var roots []int
		seen := make(map[int]bool)
		for _, s := range d.doc.Scenes {
			for _, n := range indexList(s.Nodes) {
				if !seen[n] {
					seen[n] = true
					roots = append(roots, n)
				}
			}
		}
		return roots, nil
	}

	child := make([]bool, len(d.nodes))
	for _, n := range d.nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(child) {
				child[c] = true
			}
		}
	}
	var roots []int
	for i, isChild := range child {
		if !isChild {
			roots = append(roots, i)
		}
	}
	return roots, nil
}

func convertNode(n *gltf.Node) gltfsrc.Node {
	out := gltfsrc.Node{
		Name:        n.Name,
		Children:    indexList(n.Children),
		Mesh:        optIndex(n.Mesh),
		Camera:      optIndex(n.Camera),
		Skin:        optIndex(n.Skin),
		Translation: vec3(n.Translation, zeroTranslation),
		Rotation:    vec4(n.Rotation, identityRotation),
		Scale:       vec3(n.Scale, unitScale),
		Matrix:      mat4(n.Matrix),
	}

	// The decoder fills rotation and matrix with their defaults, so both
	// being zero means the node was built in Go without them. Its zero
	// fields are unset rather than explicit.
	if allZero(floatList(n.Rotation)) && allZero(floatList(n.Matrix)) {
		out.Rotation = nil
		out.Matrix = nil
		if out.Scale != nil && allZero(out.Scale[:]) {
			out.Scale = nil
		}
	}
	return out
}

func convertMesh(m *gltf.Mesh) gltfsrc.Mesh {
	out := gltfsrc.Mesh{Name: m.Name}
	for _, p := range m.Primitives {
		prim := gltfsrc.Primitive{
			Attributes: make(map[string]int, len(p.Attributes)),
			Indices:    optIndex(p.Indices),
			Material:   optIndex(p.Material),
		}
		for name, acc := range p.Attributes {
			prim.Attributes[name] = intValue(acc)
		}
		out.Primitives = append(out.Primitives, prim)
	}
	return out
}

func convertAccessor(a *gltf.Accessor) gltfsrc.Accessor {
	return gltfsrc.Accessor{
		Name:          a.Name,
		ComponentType: componentType(a.ComponentType),
		NumComponents: intValue(a.Type.Components()),
		Count:         intValue(a.Count),
		Normalized:    a.Normalized,
		BufferView:    optIndex(a.BufferView),
		ByteOffset:    intValue(a.ByteOffset),
		Min:           floatList(a.Min),
		Max:           floatList(a.Max),
	}
}

func componentType(t gltf.ComponentType) convert.ValueType {
	switch t {
	case gltf.ComponentByte:
		return convert.Int8
	case gltf.ComponentUbyte:
		return convert.Uint8
	case gltf.ComponentShort:
		return convert.Int16
	case gltf.ComponentUshort:
		return convert.Uint16
	case gltf.ComponentUint:
		return convert.Uint32
	case gltf.ComponentFloat:
		return convert.Float32
	default:
		return convert.Undefined
	}
}

func convertCamera(c *gltf.Camera) gltfsrc.Camera {
	out := gltfsrc.Camera{Name: c.Name}
	switch {
	case c.Perspective != nil:
		p := c.Perspective
		out.Type = gltfsrc.CameraPerspective
		out.AspectRatio = floatValue(p.AspectRatio)
		out.YFov = floatValue(p.Yfov)
		out.ZNear = floatValue(p.Znear)
		out.ZFar = floatValue(p.Zfar)
	case c.Orthographic != nil:
		o := c.Orthographic
		out.Type = gltfsrc.CameraOrthographic
		out.XMag = floatValue(o.Xmag)
		out.YMag = floatValue(o.Ymag)
		out.ZNear = floatValue(o.Znear)
		out.ZFar = floatValue(o.Zfar)
	}
	return out
}

func convertAnimation(a *gltf.Animation) gltfsrc.Animation {
	out := gltfsrc.Animation{Name: a.Name}
	for _, s := range a.Samplers {
		out.Samplers = append(out.Samplers, gltfsrc.AnimationSampler{
			Input:         optIndex(s.Input),
			Output:        optIndex(s.Output),
			Interpolation: interpolation(s.Interpolation),
		})
	}
	for _, c := range a.Channels {
		out.Channels = append(out.Channels, gltfsrc.AnimationChannel{
			Sampler: optIndex(c.Sampler),
			Node:    optIndex(c.Target.Node),
			Path:    path(c.Target.Path),
		})
	}
	return out
}

func interpolation(i gltf.Interpolation) string {
	switch i {
	case gltf.InterpolationStep:
		return gltfsrc.InterpolationStep
	case gltf.InterpolationCubicSpline:
		return gltfsrc.InterpolationCubicSpline
	default:
		return gltfsrc.InterpolationLinear
	}
}

func path(p gltf.TRSProperty) string {
	switch p {
	case gltf.TRSTranslation:
		return gltfsrc.PathTranslation
	case gltf.TRSRotation:
		return gltfsrc.PathRotation
	case gltf.TRSScale:
		return gltfsrc.PathScale
	case gltf.TRSWeights:
		return gltfsrc.PathWeights
	default:
		return ""
	}
}
