package model

import "fmt"

// HostDevice keeps finalized buffers in host memory. It is the device used
// when no GPU collaborator is configured.
type HostDevice struct{}

// InitBuffers stores data[i] as the contents of m.Buffers[i].
func (HostDevice) InitBuffers(m *Model, data [][]byte) error {
	if len(data) != len(m.Buffers) {
		return fmt.Errorf("buffer count mismatch: model has %d, got %d", len(m.Buffers), len(data))
	}
	for i := range data {
		m.Buffers[i].Data = data[i]
		m.Buffers[i].Handle = 0
	}
	return nil
}
