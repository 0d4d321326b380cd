// Package builder converts a parsed glTF document into a model.Model.
//
// A build runs in passes: every node reachable from the requested roots is
// given a model slot (together with the meshes and cameras it references),
// then the slots are populated, converting vertex and index data into the
// model's layout. When the layout carries skinning attributes, animations
// and skins are loaded last. The finished buffers are handed to a Device.
//
// A Builder is single-use and not safe for concurrent use.
package builder

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/gltfmodel/pkg/gltfsrc"
	"github.com/Faultbox/gltfmodel/pkg/model"
)

// Device receives the finished buffers: data[i] holds the contents of
// m.Buffers[i], the last entry being the index buffer.
type Device interface {
	InitBuffers(m *model.Model, data [][]byte) error
}

// UploadContext prepares device resources after InitBuffers.
type UploadContext interface {
	PrepareGPUResources(m *model.Model) error
}

// Options configures a Builder.
type Options struct {
	// PrimitiveLoaded is called after each primitive is built. dst is only
	// valid during the call.
	PrimitiveLoaded func(src *gltfsrc.Primitive, dst *model.Primitive)
	// MeshLoaded is called once all primitives of a mesh are built.
	MeshLoaded func(src *gltfsrc.Mesh, dst *model.Mesh)
	Logger     *zap.Logger
}

// Stats counts the work done by a build.
type Stats struct {
	// BuildID is a time-ordered id assigned when Execute starts. It is also
	// attached to every log entry of the build.
	BuildID     uuid.UUID
	Conversions int
	CacheHits   int
	Vertices    int
	Indices     int
}

// skinUnrecorded marks a node whose skin reference was never read.
const skinUnrecorded = -2

// Builder builds one model from one document.
type Builder struct {
	model *model.Model
	opts  Options
	log   *zap.Logger

	src gltfsrc.Source

	nodes   *indexMap
	meshes  *indexMap
	cameras *indexMap

	// nodeSkins holds the document skin index of every node slot.
	nodeSkins []int

	vertexData [][]byte
	indexData  []byte
	converted  map[string]convertedRange

	stats Stats
	used  bool
}

// New returns a builder writing into m, which must come from model.New.
func New(m *model.Model, opts Options) *Builder {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{
		model:     m,
		opts:      opts,
		log:       log,
		nodes:     newIndexMap(),
		meshes:    newIndexMap(),
		cameras:   newIndexMap(),
		converted: make(map[string]convertedRange),
	}
}

// Stats returns the counters of the last Execute.
func (b *Builder) Stats() Stats {
	return b.stats
}

// Execute builds the scenes rooted at rootIDs from src and finalizes the
// buffers through device. A nil device keeps the buffers in host memory.
// uctx, when not nil, is asked to prepare device resources afterwards.
func (b *Builder) Execute(src gltfsrc.Source, rootIDs []int, device Device, uctx UploadContext) error {
	if b.used {
		return errors.WithStack(ErrBuilderUsed)
	}
	b.used = true

	if b.model == nil || len(b.model.Buffers) < 2 {
		return errors.Wrap(ErrInternal, "model has no buffers")
	}
	if device == nil {
		device = model.HostDevice{}
	}

	b.src = src
	b.stats.BuildID = uuid.Must(uuid.NewV7())
	b.log = b.log.With(zap.Stringer("build", b.stats.BuildID))
	b.vertexData = make([][]byte, b.model.VertexBufferCount())

	b.loadMaterials()

	for _, id := range rootIDs {
		if err := b.allocateNode(id); err != nil {
			return err
		}
	}
	b.log.Debug("slots allocated",
		zap.Int("nodes", b.nodes.len()),
		zap.Int("meshes", b.meshes.len()),
		zap.Int("cameras", b.cameras.len()))

	for _, id := range rootIDs {
		dst, err := b.loadNode(model.None, id)
		if err != nil {
			return err
		}
		if !containsInt(b.model.RootNodes, dst) {
			b.model.RootNodes = append(b.model.RootNodes, dst)
		}
	}

	if hasSkinAttributes(b.model.Attributes) {
		if err := b.loadAnimationsAndSkins(); err != nil {
			return err
		}
	}

	data := make([][]byte, 0, len(b.vertexData)+1)
	data = append(data, b.vertexData...)
	data = append(data, b.indexData)
	if err := device.InitBuffers(b.model, data); err != nil {
		return errors.Wrap(err, "init buffers")
	}
	if uctx != nil {
		if err := uctx.PrepareGPUResources(b.model); err != nil {
			return errors.Wrap(err, "prepare GPU resources")
		}
	}

	b.vertexData = nil
	b.indexData = nil
	b.converted = nil

	b.log.Debug("model built",
		zap.Int("nodes", len(b.model.Nodes)),
		zap.Int("meshes", len(b.model.Meshes)),
		zap.Int("conversions", b.stats.Conversions),
		zap.Int("cache_hits", b.stats.CacheHits),
		zap.Int("vertices", b.stats.Vertices),
		zap.Int("indices", b.stats.Indices))
	return nil
}

// loadMaterials copies material names and appends the default material
// used by primitives without one.
func (b *Builder) loadMaterials() {
	n := b.src.MaterialCount()
	b.model.Materials = make([]model.Material, 0, n+1)
	for i := 0; i < n; i++ {
		var name string
		if m := b.src.Material(i); m != nil {
			name = m.Name
		}
		b.model.Materials = append(b.model.Materials, model.Material{Name: name})
	}
	b.model.Materials = append(b.model.Materials, model.Material{Name: model.DefaultMaterialName})
}

func (b *Builder) defaultMaterial() int {
	return len(b.model.Materials) - 1
}

func hasSkinAttributes(attrs []model.VertexAttribute) bool {
	for _, a := range attrs {
		if strings.HasPrefix(a.Name, "WEIGHTS") || strings.HasPrefix(a.Name, "JOINTS") {
			return true
		}
	}
	return false
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
