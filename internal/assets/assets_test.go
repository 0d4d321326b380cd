package assets

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

const triangleData = "AAAAAAAAAAAAAAAAAACAPwAAAAAAAAAAAAAAAAAAgD8AAAAAAAABAAIA"

const triangleTemplate = `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0]}],
  "nodes": [{"name": "tri", "mesh": 0}],
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0}, "indices": 1}]}],
  "buffers": [{"byteLength": 42, "uri": "URI"}],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 36},
    {"buffer": 0, "byteOffset": 36, "byteLength": 6}
  ],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3", "min": [0, 0, 0], "max": [1, 1, 0]},
    {"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
  ]
}`

func writeTriangle(t *testing.T, dir, name, uri string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := strings.Replace(triangleTemplate, "URI", uri, 1)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestManager_LoadEmbedded(t *testing.T) {
	path := writeTriangle(t, t.TempDir(), "tri.gltf", "data:application/octet-stream;base64,"+triangleData)

	m := NewManager(4)
	defer m.Close()

	doc, err := m.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.NodeCount() != 1 {
		t.Errorf("NodeCount = %d, want 1", doc.NodeCount())
	}
	if got := len(doc.Buffer(0)); got != 42 {
		t.Errorf("buffer length = %d, want 42", got)
	}
}

func TestManager_LoadExternalBuffer(t *testing.T) {
	dir := t.TempDir()
	bin, err := base64.StdEncoding.DecodeString(triangleData)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "tri.bin"), bin, 0644); err != nil {
		t.Fatal(err)
	}
	path := writeTriangle(t, dir, "tri.gltf", "tri.bin")

	doc, err := NewManager(1).Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := len(doc.Buffer(0)); got != 42 {
		t.Errorf("buffer length = %d, want 42", got)
	}
}

func TestManager_CachesDocuments(t *testing.T) {
	path := writeTriangle(t, t.TempDir(), "tri.gltf", "data:application/octet-stream;base64,"+triangleData)

	m := NewManager(2)
	first, err := m.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	second, err := m.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if first != second {
		t.Error("second load should return the cached document")
	}

	hits, misses := m.Cache().Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats = %d hits %d misses, want 1 and 1", hits, misses)
	}
}

func TestManager_NoCache(t *testing.T) {
	path := writeTriangle(t, t.TempDir(), "tri.gltf", "data:application/octet-stream;base64,"+triangleData)

	m := NewManager(0)
	first, _ := m.Load(path)
	second, _ := m.Load(path)
	if first == nil || second == nil {
		t.Fatal("Load returned nil")
	}
	if first == second {
		t.Error("cache size 0 should decode every time")
	}
	if m.Cache().Len() != 0 {
		t.Errorf("cache holds %d documents", m.Cache().Len())
	}
}

func TestManager_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "broken.gltf")
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(dir, "missing.gltf")},
		{"malformed", bad},
		{"extension", txt},
	}

	m := NewManager(4)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Load(tt.path); err == nil {
				t.Error("expected error")
			}
		})
	}
	if m.Cache().Len() != 0 {
		t.Error("failed loads must not be cached")
	}
}

func TestManager_ConcurrentLoad(t *testing.T) {
	path := writeTriangle(t, t.TempDir(), "tri.gltf", "data:application/octet-stream;base64,"+triangleData)
	m := NewManager(1)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Load(path); err != nil {
				t.Errorf("Load: %v", err)
			}
		}()
	}
	wg.Wait()

	if m.Cache().Len() != 1 {
		t.Errorf("cache holds %d documents, want 1", m.Cache().Len())
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache(2)
	c.Set("a", nil)
	c.Set("b", nil)
	c.Get("a")
	c.Set("c", nil)

	if _, ok := c.Peek("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Peek("a"); !ok {
		t.Error("a was used recently and should remain")
	}
	if _, ok := c.Peek("c"); !ok {
		t.Error("c should be cached")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d", c.Len())
	}
	if hits, misses := c.Stats(); hits != 0 || misses != 0 {
		t.Errorf("stats after Clear = %d, %d", hits, misses)
	}
}

func TestIsModelFile(t *testing.T) {
	tests := map[string]bool{
		"scene.gltf":      true,
		"scene.GLB":       true,
		"dir/model.glb":   true,
		"texture.png":     false,
		"noext":           false,
		"archive.gltf.gz": false,
	}
	for path, want := range tests {
		if got := IsModelFile(path); got != want {
			t.Errorf("IsModelFile(%q) = %v, want %v", path, got, want)
		}
	}
}
