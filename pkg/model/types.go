// Package model provides the engine-side model built from glTF scenes:
// a flat node arena, meshes with GPU-ready vertex and index buffers, cameras,
// skins and animation tracks.
package model

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/gltfmodel/pkg/convert"
)

// None marks an absent index reference.
const None = -1

// Model is the destination of a build.
//
// Nodes is a flat arena; every relation between entities (parent, children,
// mesh, camera, skin, skeleton, joints, channel targets) is an index into
// the corresponding slice.
type Model struct {
	Nodes      []Node
	RootNodes  []int
	Meshes     []Mesh
	Cameras    []Camera
	Skins      []Skin
	Animations []Animation
	Materials  []Material

	// Attributes is the vertex layout the buffers were built with.
	Attributes []VertexAttribute
	// IndexSize is the index element width in bytes (2 or 4).
	IndexSize int
	// Buffers holds one entry per vertex buffer group followed by the
	// index buffer.
	Buffers []Buffer

	// SkinTransformsCount is the number of skinned nodes.
	SkinTransformsCount int
}

// Node is one entry of the scene graph.
type Node struct {
	Index    int
	Name     string
	Parent   int
	Children []int

	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
	// Matrix is kept apart from TRS and composed by LocalTransform.
	Matrix mgl32.Mat4

	Mesh   int
	Camera int
	Skin   int

	// SkinTransformsIndex is the node's slot in the skinning matrix
	// palette, None unless the node is skinned.
	SkinTransformsIndex int
}

// NewNode returns a node with identity transforms and no references.
func NewNode(index int) Node {
	return Node{
		Index:               index,
		Parent:              None,
		Scale:               mgl32.Vec3{1, 1, 1},
		Rotation:            mgl32.QuatIdent(),
		Matrix:              mgl32.Ident4(),
		Mesh:                None,
		Camera:              None,
		Skin:                None,
		SkinTransformsIndex: None,
	}
}

// BoundBox is an axis-aligned bounding box.
type BoundBox struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Primitive is one drawable range of a mesh.
type Primitive struct {
	FirstIndex  uint32
	IndexCount  uint32
	FirstVertex uint32
	VertexCount uint32
	Material    int
	BB          BoundBox
}

// HasIndices reports whether the primitive is drawn indexed.
func (p *Primitive) HasIndices() bool {
	return p.IndexCount > 0
}

// Mesh is a named list of primitives.
type Mesh struct {
	Name       string
	Primitives []Primitive
	BB         BoundBox
}

// CameraType is the projection kind of a camera.
type CameraType int

const (
	Perspective CameraType = iota
	Orthographic
)

func (t CameraType) String() string {
	switch t {
	case Perspective:
		return "perspective"
	case Orthographic:
		return "orthographic"
	default:
		return "unknown"
	}
}

// PerspectiveParams holds perspective projection parameters.
type PerspectiveParams struct {
	AspectRatio float32
	YFov        float32
	ZNear       float32
	ZFar        float32
}

// OrthographicParams holds orthographic projection parameters.
type OrthographicParams struct {
	XMag  float32
	YMag  float32
	ZNear float32
	ZFar  float32
}

// Camera is a projection attached to nodes. Only the block matching Type is
// meaningful.
type Camera struct {
	Name         string
	Type         CameraType
	Perspective  PerspectiveParams
	Orthographic OrthographicParams
}

// Skin binds a joint hierarchy to skinned vertices.
type Skin struct {
	Name string
	// Skeleton is the skeleton root node, None when unset or unresolved.
	Skeleton            int
	Joints              []int
	InverseBindMatrices []mgl32.Mat4
}

// Interpolation is the keyframe interpolation of a sampler.
type Interpolation int

const (
	Linear Interpolation = iota
	Step
	CubicSpline
)

func (i Interpolation) String() string {
	switch i {
	case Linear:
		return "LINEAR"
	case Step:
		return "STEP"
	case CubicSpline:
		return "CUBICSPLINE"
	default:
		return "UNKNOWN"
	}
}

// PathType is the node property an animation channel drives.
type PathType int

const (
	PathTranslation PathType = iota
	PathRotation
	PathScale
	PathWeights
)

func (p PathType) String() string {
	switch p {
	case PathTranslation:
		return "translation"
	case PathRotation:
		return "rotation"
	case PathScale:
		return "scale"
	case PathWeights:
		return "weights"
	default:
		return "unknown"
	}
}

// AnimationSampler holds keyframe times and values. Values are widened to
// four components.
type AnimationSampler struct {
	Interpolation Interpolation
	Inputs        []float32
	Outputs       []mgl32.Vec4
}

// AnimationChannel connects a sampler to a node property.
type AnimationChannel struct {
	Path    PathType
	Node    int
	Sampler int
}

// Animation is a named set of samplers and channels.
type Animation struct {
	Name     string
	Start    float32
	End      float32
	Samplers []AnimationSampler
	Channels []AnimationChannel
}

// Duration returns End - Start.
func (a *Animation) Duration() float32 {
	return a.End - a.Start
}

// Material is a named material slot. Textures and shading parameters are
// not loaded.
type Material struct {
	Name string
}

// DefaultMaterialName names the trailing fallback material.
const DefaultMaterialName = "default"

// VertexAttribute places one named attribute inside a vertex buffer group.
type VertexAttribute struct {
	Name           string
	BufferID       int
	RelativeOffset int
	ValueType      convert.ValueType
	NumComponents  int
}

// Size returns the attribute size in bytes.
func (a VertexAttribute) Size() int {
	return a.ValueType.Size() * a.NumComponents
}

// Buffer is one vertex buffer group or the index buffer.
type Buffer struct {
	ElementStride int
	// Data holds the host copy of the contents once finalized.
	Data []byte
	// Handle is the device object name, 0 when the buffer lives on the host.
	Handle uint32
}

// ElementCount returns the number of elements stored in Data.
func (b *Buffer) ElementCount() int {
	if b.ElementStride == 0 {
		return 0
	}
	return len(b.Data) / b.ElementStride
}
