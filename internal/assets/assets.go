// Package assets opens glTF documents from disk and keeps recently used ones
// in memory.
package assets

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/qmuntal/gltf"

	"github.com/Faultbox/gltfmodel/pkg/gltfdoc"
)

// Manager loads glTF and GLB files, resolving external buffers relative to
// each file.
type Manager struct {
	cache *Cache
	mu    sync.Mutex
}

// NewManager creates a manager that keeps up to cacheSize documents.
// A cacheSize of zero disables caching.
func NewManager(cacheSize int) *Manager {
	return &Manager{
		cache: NewCache(cacheSize),
	}
}

// Load returns the document stored at path.
func (m *Manager) Load(path string) (*gltfdoc.Document, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		key = filepath.Clean(path)
	}

	if doc, ok := m.cache.Get(key); ok {
		return doc, nil
	}

	// Serialize opens so two callers asking for the same file decode it once.
	m.mu.Lock()
	defer m.mu.Unlock()

	if doc, ok := m.cache.Peek(key); ok {
		return doc, nil
	}

	if !IsModelFile(path) {
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}

	raw, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	doc := gltfdoc.New(raw)
	m.cache.Set(key, doc)
	return doc, nil
}

// Close drops all cached documents.
func (m *Manager) Close() {
	m.cache.Clear()
}

// Cache returns the manager's document cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// IsModelFile reports whether path has a glTF or GLB extension.
func IsModelFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return true
	}
	return false
}

// Cache is a bounded in-memory cache of decoded documents. The least
// recently used entry is evicted first.
type Cache struct {
	limit int
	data  map[string]*gltfdoc.Document
	order []string // oldest first
	mu    sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a cache holding up to limit documents.
func NewCache(limit int) *Cache {
	return &Cache{
		limit: limit,
		data:  make(map[string]*gltfdoc.Document),
	}
}

// Get retrieves a document and records a hit or miss.
func (c *Cache) Get(key string) (*gltfdoc.Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.data[key]
	if ok {
		c.hits++
		c.touch(key)
	} else {
		c.misses++
	}
	return doc, ok
}

// Peek retrieves a document without touching stats or order.
func (c *Cache) Peek(key string) (*gltfdoc.Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.data[key]
	return doc, ok
}

// Set stores a document, evicting the least recently used entries when full.
func (c *Cache) Set(key string, doc *gltfdoc.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.limit <= 0 {
		return
	}
	if _, ok := c.data[key]; ok {
		c.data[key] = doc
		c.touch(key)
		return
	}
	for len(c.order) >= c.limit {
		delete(c.data, c.order[0])
		c.order = c.order[1:]
	}
	c.data[key] = doc
	c.order = append(c.order, key)
}

func (c *Cache) touch(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.order = append(c.order, key)
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*gltfdoc.Document)
	c.order = nil
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
