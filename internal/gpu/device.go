package gpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/gltfmodel/pkg/convert"
	"github.com/Faultbox/gltfmodel/pkg/model"
)

// Device creates one GL buffer object per model buffer and a vertex array
// describing the model's attributes. A current GL context is required.
//
// Device implements both builder.Device and builder.UploadContext.
type Device struct {
	log  *zap.Logger
	vaos map[*model.Model]uint32
}

// NewDevice returns a device using the current GL context.
func NewDevice(log *zap.Logger) *Device {
	if log == nil {
		log = zap.NewNop()
	}
	return &Device{log: log, vaos: make(map[*model.Model]uint32)}
}

// InitBuffers uploads data. The last entry is the index buffer. Host copies
// are kept in m.Buffers so the model can still be inspected.
func (d *Device) InitBuffers(m *model.Model, data [][]byte) error {
	if len(data) != len(m.Buffers) {
		return fmt.Errorf("got %d buffers for a model with %d", len(data), len(m.Buffers))
	}

	for i, bytes := range data {
		target := uint32(gl.ARRAY_BUFFER)
		if i == len(data)-1 {
			target = gl.ELEMENT_ARRAY_BUFFER
		}

		buf := &m.Buffers[i]
		buf.Data = bytes
		buf.Handle = 0
		if len(bytes) == 0 {
			continue
		}

		gl.GenBuffers(1, &buf.Handle)
		gl.BindBuffer(target, buf.Handle)
		gl.BufferData(target, len(bytes), gl.Ptr(bytes), gl.STATIC_DRAW)
		gl.BindBuffer(target, 0)
		if err := checkError("upload buffer"); err != nil {
			return err
		}

		d.log.Debug("buffer uploaded",
			zap.Int("buffer", i),
			zap.Uint32("handle", buf.Handle),
			zap.Int("bytes", len(bytes)))
	}
	return nil
}

// PrepareGPUResources builds the vertex array for m. Attribute i of the
// layout is bound to location i.
func (d *Device) PrepareGPUResources(m *model.Model) error {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	for loc, a := range m.Attributes {
		buf := m.Buffers[a.BufferID]
		if buf.Handle == 0 {
			continue
		}
		xtype, integer, err := glType(a.ValueType)
		if err != nil {
			gl.BindVertexArray(0)
			gl.DeleteVertexArrays(1, &vao)
			return fmt.Errorf("attribute %s: %w", a.Name, err)
		}

		gl.BindBuffer(gl.ARRAY_BUFFER, buf.Handle)
		gl.EnableVertexAttribArray(uint32(loc))
		if integer {
			gl.VertexAttribIPointer(uint32(loc), int32(a.NumComponents), xtype,
				int32(buf.ElementStride), gl.PtrOffset(a.RelativeOffset))
		} else {
			gl.VertexAttribPointer(uint32(loc), int32(a.NumComponents), xtype, false,
				int32(buf.ElementStride), gl.PtrOffset(a.RelativeOffset))
		}
	}

	if idx := m.IndexBuffer(); idx != nil && idx.Handle != 0 {
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, idx.Handle)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	if err := checkError("prepare vertex array"); err != nil {
		gl.DeleteVertexArrays(1, &vao)
		return err
	}

	d.vaos[m] = vao
	d.log.Debug("vertex array ready", zap.Uint32("vao", vao), zap.Int("attributes", len(m.Attributes)))
	return nil
}

// VertexArray returns the vertex array built for m, or 0.
func (d *Device) VertexArray(m *model.Model) uint32 {
	return d.vaos[m]
}

// IndexType returns the GL element type of m's index buffer.
func IndexType(m *model.Model) uint32 {
	if m.IndexSize == 2 {
		return gl.UNSIGNED_SHORT
	}
	return gl.UNSIGNED_INT
}

// Release deletes the GL objects created for m.
func (d *Device) Release(m *model.Model) {
	if vao, ok := d.vaos[m]; ok {
		gl.DeleteVertexArrays(1, &vao)
		delete(d.vaos, m)
	}
	for i := range m.Buffers {
		if m.Buffers[i].Handle != 0 {
			gl.DeleteBuffers(1, &m.Buffers[i].Handle)
			m.Buffers[i].Handle = 0
		}
	}
}

// glType maps a component type to its GL enum and reports whether it must
// be bound as an integer attribute.
func glType(t convert.ValueType) (xtype uint32, integer bool, err error) {
	switch t {
	case convert.Int8:
		return gl.BYTE, true, nil
	case convert.Uint8:
		return gl.UNSIGNED_BYTE, true, nil
	case convert.Int16:
		return gl.SHORT, true, nil
	case convert.Uint16:
		return gl.UNSIGNED_SHORT, true, nil
	case convert.Int32:
		return gl.INT, true, nil
	case convert.Uint32:
		return gl.UNSIGNED_INT, true, nil
	case convert.Float32:
		return gl.FLOAT, false, nil
	}
	return 0, false, fmt.Errorf("%w: %s", convert.ErrUnsupported, t)
}
