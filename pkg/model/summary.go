package model

// BufferSummary describes one finalized buffer.
type BufferSummary struct {
	Stride   int  `yaml:"stride"`
	Elements int  `yaml:"elements"`
	Bytes    int  `yaml:"bytes"`
	OnDevice bool `yaml:"on_device"`
}

// MeshSummary describes one mesh.
type MeshSummary struct {
	Name       string     `yaml:"name"`
	Primitives int        `yaml:"primitives"`
	Min        [3]float32 `yaml:"min,flow"`
	Max        [3]float32 `yaml:"max,flow"`
}

// AnimationSummary describes one animation.
type AnimationSummary struct {
	Name     string  `yaml:"name"`
	Start    float32 `yaml:"start"`
	End      float32 `yaml:"end"`
	Samplers int     `yaml:"samplers"`
	Channels int     `yaml:"channels"`
}

// Summary is a report of a built model.
type Summary struct {
	Nodes          int                `yaml:"nodes"`
	Roots          int                `yaml:"roots"`
	Meshes         []MeshSummary      `yaml:"meshes"`
	Cameras        int                `yaml:"cameras"`
	Skins          int                `yaml:"skins"`
	SkinTransforms int                `yaml:"skin_transforms"`
	Materials      int                `yaml:"materials"`
	Animations     []AnimationSummary `yaml:"animations,omitempty"`
	Vertices       int                `yaml:"vertices"`
	Indices        int                `yaml:"indices"`
	IndexSize      int                `yaml:"index_size"`
	VertexBuffers  []BufferSummary    `yaml:"vertex_buffers"`
}

// Summary reports the model's contents.
func (m *Model) Summary() Summary {
	s := Summary{
		Nodes:          len(m.Nodes),
		Roots:          len(m.RootNodes),
		Cameras:        len(m.Cameras),
		Skins:          len(m.Skins),
		SkinTransforms: m.SkinTransformsCount,
		Materials:      len(m.Materials),
		IndexSize:      m.IndexSize,
	}
	for i := range m.Meshes {
		mesh := &m.Meshes[i]
		s.Meshes = append(s.Meshes, MeshSummary{
			Name:       mesh.Name,
			Primitives: len(mesh.Primitives),
			Min:        mesh.BB.Min,
			Max:        mesh.BB.Max,
		})
	}
	for i := range m.Animations {
		a := &m.Animations[i]
		s.Animations = append(s.Animations, AnimationSummary{
			Name:     a.Name,
			Start:    a.Start,
			End:      a.End,
			Samplers: len(a.Samplers),
			Channels: len(a.Channels),
		})
	}
	if len(m.Buffers) == 0 {
		return s
	}
	for i := 0; i < m.VertexBufferCount(); i++ {
		b := &m.Buffers[i]
		s.VertexBuffers = append(s.VertexBuffers, BufferSummary{
			Stride:   b.ElementStride,
			Elements: b.ElementCount(),
			Bytes:    len(b.Data),
			OnDevice: b.Handle != 0,
		})
	}
	if len(s.VertexBuffers) > 0 {
		s.Vertices = s.VertexBuffers[0].Elements
	}
	s.Indices = m.IndexBuffer().ElementCount()
	return s
}
