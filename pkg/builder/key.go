package builder

import (
	"strconv"
	"strings"

	"github.com/Faultbox/gltfmodel/pkg/gltfsrc"
	"github.com/Faultbox/gltfmodel/pkg/model"
)

// bufferViewKey identifies converted vertex data: one accessor index per
// layout attribute, -1 where the primitive lacks the attribute. Primitives
// with equal keys share one converted vertex range.
type bufferViewKey struct {
	accessors []int
	id        string
}

func newBufferViewKey(attrs []model.VertexAttribute, p *gltfsrc.Primitive) bufferViewKey {
	k := bufferViewKey{accessors: make([]int, len(attrs))}

	var sb strings.Builder
	for i, a := range attrs {
		acc, ok := p.Attributes[a.Name]
		if !ok {
			acc = -1
		}
		k.accessors[i] = acc
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(acc))
	}
	k.id = sb.String()
	return k
}

func (k bufferViewKey) String() string {
	return k.id
}

// convertedRange records where a key's vertices were written.
type convertedRange struct {
	offsets     []int // byte offset per vertex buffer
	vertexStart uint32
	vertexCount uint32
}
