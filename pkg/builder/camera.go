package builder

import (
	"github.com/pkg/errors"

	"github.com/Faultbox/gltfmodel/pkg/gltfsrc"
	"github.com/Faultbox/gltfmodel/pkg/model"
)

func (b *Builder) loadCamera(id int) (int, error) {
	dst, ok := b.cameras.resolve(id)
	if !ok {
		return model.None, errors.Wrapf(ErrInternal, "camera %d has no slot", id)
	}
	if b.cameras.isLoaded(dst) {
		return dst, nil
	}
	b.cameras.markLoaded(dst)

	sc := b.src.Camera(id)
	c := model.Camera{Name: sc.Name}
	switch sc.Type {
	case gltfsrc.CameraPerspective:
		c.Type = model.Perspective
		c.Perspective = model.PerspectiveParams{
			AspectRatio: sc.AspectRatio,
			YFov:        sc.YFov,
			ZNear:       sc.ZNear,
			ZFar:        sc.ZFar,
		}
	case gltfsrc.CameraOrthographic:
		c.Type = model.Orthographic
		c.Orthographic = model.OrthographicParams{
			XMag:  sc.XMag,
			YMag:  sc.YMag,
			ZNear: sc.ZNear,
			ZFar:  sc.ZFar,
		}
	default:
		return model.None, errors.Wrapf(ErrUnknownCamera, "camera %d: %q", id, sc.Type)
	}

	b.model.Cameras[dst] = c
	return dst, nil
}
