package builder

// indexMap maps document indices of one entity kind to model slots and
// tracks which slots have been populated.
type indexMap struct {
	slots  map[int]int
	loaded []bool
}

func newIndexMap() *indexMap {
	return &indexMap{slots: make(map[int]int)}
}

// allocate reserves the next slot for src. It returns the slot and whether
// it was created by this call; later calls for the same src return the
// existing slot.
func (m *indexMap) allocate(src int) (int, bool) {
	if dst, ok := m.slots[src]; ok {
		return dst, false
	}
	dst := len(m.loaded)
	m.slots[src] = dst
	m.loaded = append(m.loaded, false)
	return dst, true
}

func (m *indexMap) resolve(src int) (int, bool) {
	dst, ok := m.slots[src]
	return dst, ok
}

func (m *indexMap) isLoaded(dst int) bool {
	return m.loaded[dst]
}

func (m *indexMap) markLoaded(dst int) {
	m.loaded[dst] = true
}

func (m *indexMap) len() int {
	return len(m.loaded)
}
