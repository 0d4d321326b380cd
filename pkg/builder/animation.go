package builder

import (
	"strconv"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/gltfmodel/pkg/convert"
	"github.com/Faultbox/gltfmodel/pkg/gltfsrc"
	"github.com/Faultbox/gltfmodel/pkg/model"
)

// loadAnimationsAndSkins runs after population: channels and joints refer
// to node slots.
func (b *Builder) loadAnimationsAndSkins() error {
	if err := b.loadAnimations(); err != nil {
		return err
	}
	if err := b.loadSkins(); err != nil {
		return err
	}
	return b.assignSkins()
}

func (b *Builder) loadAnimations() error {
	n := b.src.AnimationCount()
	b.model.Animations = make([]model.Animation, 0, n)
	for i := 0; i < n; i++ {
		sa := b.src.Animation(i)
		if sa == nil {
			return errors.Wrapf(ErrMalformed, "animation %d not found", i)
		}
		anim, err := b.loadAnimation(i, sa)
		if err != nil {
			return errors.WithMessagef(err, "animation %d", i)
		}
		b.model.Animations = append(b.model.Animations, anim)
	}
	return nil
}

func (b *Builder) loadAnimation(index int, sa *gltfsrc.Animation) (model.Animation, error) {
	anim := model.Animation{Name: sa.Name}
	if anim.Name == "" {
		anim.Name = strconv.Itoa(index)
	}
	log := b.log.With(zap.String("animation", anim.Name))

	start, end := math32.Inf(1), math32.Inf(-1)
	for si := range sa.Samplers {
		ss := &sa.Samplers[si]
		s := model.AnimationSampler{Interpolation: interpolation(ss.Interpolation, log)}

		inputs, err := b.readScalars(ss.Input)
		if err != nil {
			return anim, errors.WithMessagef(err, "sampler %d input", si)
		}
		s.Inputs = inputs
		for _, t := range inputs {
			start = math32.Min(start, t)
			end = math32.Max(end, t)
		}

		outputs, err := b.readVectors(ss.Output, log)
		if err != nil {
			return anim, errors.WithMessagef(err, "sampler %d output", si)
		}
		s.Outputs = outputs

		anim.Samplers = append(anim.Samplers, s)
	}
	if start > end {
		start, end = 0, 0
	}
	anim.Start, anim.End = start, end

	for ci, sc := range sa.Channels {
		path, ok := channelPath(sc.Path)
		if !ok {
			log.Warn("skipping channel with unsupported path", zap.Int("channel", ci), zap.String("path", sc.Path))
			continue
		}
		if sc.Sampler < 0 || sc.Sampler >= len(anim.Samplers) {
			log.Warn("skipping channel with unknown sampler", zap.Int("channel", ci), zap.Int("sampler", sc.Sampler))
			continue
		}
		node, ok := b.nodes.resolve(sc.Node)
		if !ok {
			log.Warn("skipping channel targeting a node outside the model", zap.Int("channel", ci), zap.Int("node", sc.Node))
			continue
		}
		anim.Channels = append(anim.Channels, model.AnimationChannel{
			Path:    path,
			Node:    node,
			Sampler: sc.Sampler,
		})
	}
	return anim, nil
}

func interpolation(s string, log *zap.Logger) model.Interpolation {
	switch s {
	case gltfsrc.InterpolationLinear, "":
		return model.Linear
	case gltfsrc.InterpolationStep:
		return model.Step
	case gltfsrc.InterpolationCubicSpline:
		return model.CubicSpline
	default:
		log.Warn("unknown interpolation, using LINEAR", zap.String("interpolation", s))
		return model.Linear
	}
}

// channelPath maps a glTF path to a model path. Weights are not supported.
func channelPath(s string) (model.PathType, bool) {
	switch s {
	case gltfsrc.PathTranslation:
		return model.PathTranslation, true
	case gltfsrc.PathRotation:
		return model.PathRotation, true
	case gltfsrc.PathScale:
		return model.PathScale, true
	default:
		return 0, false
	}
}

// floatElements resolves a float32 accessor.
func (b *Builder) floatElements(id int) (*gltfsrc.Accessor, convert.Elements, error) {
	a, el, err := gltfsrc.Elements(b.src, id)
	if err != nil {
		return nil, el, errors.Wrapf(ErrMalformed, "%v", err)
	}
	if el.Type != convert.Float32 {
		return nil, el, errors.Wrapf(ErrMalformed, "accessor %d has component type %s, want float32", id, el.Type)
	}
	if el.Stride < a.ElementSize() {
		return nil, el, errors.Wrapf(ErrMalformed, "accessor %d: stride %d smaller than element size %d", id, el.Stride, a.ElementSize())
	}
	if a.Count > 0 {
		if need := (a.Count-1)*el.Stride + a.ElementSize(); need > len(el.Data) {
			return nil, el, errors.Wrapf(ErrMalformed, "accessor %d needs %d bytes, view has %d", id, need, len(el.Data))
		}
	}
	return a, el, nil
}

// readScalars reads the first component of every element of a float32
// accessor.
func (b *Builder) readScalars(id int) ([]float32, error) {
	a, el, err := b.floatElements(id)
	if err != nil {
		return nil, err
	}
	out := make([]float32, a.Count)
	for i := range out {
		out[i] = convert.Load[float32](el.Data[i*el.Stride:])
	}
	return out, nil
}

// readVectors reads a float32 VEC3 or VEC4 accessor widened to four
// components. Other formats are logged and yield no values.
func (b *Builder) readVectors(id int, log *zap.Logger) ([]mgl32.Vec4, error) {
	if a := b.src.Accessor(id); a != nil {
		if a.ComponentType != convert.Float32 || (a.NumComponents != 3 && a.NumComponents != 4) {
			log.Warn("unsupported sampler output format",
				zap.Int("accessor", id),
				zap.Stringer("type", a.ComponentType),
				zap.Int("components", a.NumComponents))
			return nil, nil
		}
	}
	a, el, err := b.floatElements(id)
	if err != nil {
		return nil, err
	}

	out := make([]mgl32.Vec4, a.Count)
	for i := range out {
		p := el.Data[i*el.Stride:]
		for c := 0; c < a.NumComponents; c++ {
			out[i][c] = convert.Load[float32](p[c*4:])
		}
	}
	return out, nil
}
