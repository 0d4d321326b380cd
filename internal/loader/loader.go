// Package loader ties configuration, document loading and the model builder
// together.
package loader

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/gltfmodel/internal/assets"
	"github.com/Faultbox/gltfmodel/internal/config"
	"github.com/Faultbox/gltfmodel/pkg/builder"
	"github.com/Faultbox/gltfmodel/pkg/gltfdoc"
	"github.com/Faultbox/gltfmodel/pkg/model"
)

// Result is a finished build.
type Result struct {
	Path     string
	Model    *model.Model
	Stats    builder.Stats
	Duration time.Duration
}

// Loader builds models from files using one configuration.
type Loader struct {
	layout model.Layout
	scene  int
	assets *assets.Manager
	log    *zap.Logger

	device builder.Device
	uctx   builder.UploadContext
}

// New creates a loader from cfg. A nil logger disables logging.
func New(cfg *config.Config, log *zap.Logger) (*Loader, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	layout, err := cfg.VertexLayout()
	if err != nil {
		return nil, err
	}
	return &Loader{
		layout: layout,
		scene:  cfg.Build.Scene,
		assets: assets.NewManager(cfg.Build.CacheSize),
		log:    log,
	}, nil
}

// SetDevice routes finished buffers to device and uctx instead of host memory.
func (l *Loader) SetDevice(device builder.Device, uctx builder.UploadContext) {
	l.device = device
	l.uctx = uctx
}

// Layout returns the vertex layout models are built with.
func (l *Loader) Layout() model.Layout {
	return l.layout
}

// Assets returns the document manager.
func (l *Loader) Assets() *assets.Manager {
	return l.assets
}

// Build loads the file at path and builds its configured scene.
func (l *Loader) Build(path string) (*Result, error) {
	doc, err := l.assets.Load(path)
	if err != nil {
		return nil, err
	}
	res, err := l.BuildDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", path, err)
	}
	res.Path = path
	return res, nil
}

// BuildDocument builds the configured scene of an already decoded document.
func (l *Loader) BuildDocument(doc *gltfdoc.Document) (*Result, error) {
	start := time.Now()

	roots, err := doc.SceneRoots(l.scene)
	if err != nil {
		return nil, err
	}

	m, err := model.New(l.layout)
	if err != nil {
		return nil, err
	}

	b := builder.New(m, builder.Options{
		Logger: l.log.Named("builder"),
	})
	if err := b.Execute(doc, roots, l.device, l.uctx); err != nil {
		return nil, err
	}

	res := &Result{
		Model:    m,
		Stats:    b.Stats(),
		Duration: time.Since(start),
	}
	l.log.Info("model built",
		zap.Stringer("build", res.Stats.BuildID),
		zap.Int("nodes", len(m.Nodes)),
		zap.Int("meshes", len(m.Meshes)),
		zap.Int("vertices", res.Stats.Vertices),
		zap.Int("indices", res.Stats.Indices),
		zap.Duration("took", res.Duration))
	return res, nil
}

// Close releases cached documents.
func (l *Loader) Close() {
	l.assets.Close()
}
