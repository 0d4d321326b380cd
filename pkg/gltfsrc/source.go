// Package gltfsrc defines the read-only view of a parsed glTF document that
// the model builder consumes.
//
// Every lookup takes a document-global index and returns nil when the index
// is out of range. Absent optional references are -1.
package gltfsrc

import "github.com/Faultbox/gltfmodel/pkg/convert"

// Source exposes the parts of a glTF document needed to build a model.
type Source interface {
	NodeCount() int
	Node(i int) *Node
	Mesh(i int) *Mesh
	Accessor(i int) *Accessor
	BufferView(i int) *BufferView
	// Buffer returns the raw contents of buffer i.
	Buffer(i int) []byte
	Camera(i int) *Camera
	SkinCount() int
	Skin(i int) *Skin
	AnimationCount() int
	Animation(i int) *Animation
	MaterialCount() int
	Material(i int) *Material
}

// Node is a scene graph node. Optional transform components are nil when
// the document does not set them.
type Node struct {
	Name     string
	Children []int
	Mesh     int
	Camera   int
	Skin     int

	Translation *[3]float32
	Rotation    *[4]float32 // x, y, z, w
	Scale       *[3]float32
	Matrix      *[16]float32 // column-major
}

// Mesh is a named list of primitives.
type Mesh struct {
	Name       string
	Primitives []Primitive
}

// Primitive maps attribute names to accessor indices.
type Primitive struct {
	Attributes map[string]int
	Indices    int
	Material   int
}

// Accessor is a typed view into a buffer view.
type Accessor struct {
	Name          string
	ComponentType convert.ValueType
	NumComponents int
	Count         int
	Normalized    bool
	BufferView    int // -1: no view, elements read as zeros
	ByteOffset    int
	Min           []float32
	Max           []float32
}

// BufferView is a byte range of a buffer. ByteStride is 0 for tightly
// packed data.
type BufferView struct {
	Buffer     int
	ByteOffset int
	ByteLength int
	ByteStride int
}

// Camera types as written in glTF.
const (
	CameraPerspective  = "perspective"
	CameraOrthographic = "orthographic"
)

// Camera is a projection. Only the block named by Type is read.
type Camera struct {
	Name string
	Type string

	AspectRatio float32
	YFov        float32
	XMag        float32
	YMag        float32
	ZNear       float32
	ZFar        float32
}

// Skin lists joint nodes and their inverse bind matrices.
type Skin struct {
	Name                string
	Skeleton            int
	Joints              []int
	InverseBindMatrices int
}

// Animation paths as written in glTF.
const (
	PathTranslation = "translation"
	PathRotation    = "rotation"
	PathScale       = "scale"
	PathWeights     = "weights"
)

// Interpolations as written in glTF.
const (
	InterpolationLinear      = "LINEAR"
	InterpolationStep        = "STEP"
	InterpolationCubicSpline = "CUBICSPLINE"
)

// AnimationSampler reads keyframe times from Input and values from Output.
type AnimationSampler struct {
	Input         int
	Output        int
	Interpolation string
}

// AnimationChannel targets one node property.
type AnimationChannel struct {
	Sampler int
	Node    int
	Path    string
}

// Animation is a named set of samplers and channels.
type Animation struct {
	Name     string
	Samplers []AnimationSampler
	Channels []AnimationChannel
}

// Material is a named material.
type Material struct {
	Name string
}
