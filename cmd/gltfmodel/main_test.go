package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/gltfmodel/pkg/model"
)

const triangleGLTF = `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0]}],
  "nodes": [{"name": "tri", "mesh": 0}],
  "meshes": [{"name": "triangle", "primitives": [{"attributes": {"POSITION": 0}, "indices": 1}]}],
  "buffers": [{
    "byteLength": 42,
    "uri": "data:application/octet-stream;base64,AAAAAAAAAAAAAAAAAACAPwAAAAAAAAAAAAAAAAAAgD8AAAAAAAABAAIA"
  }],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 36},
    {"buffer": 0, "byteOffset": 36, "byteLength": 6}
  ],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3", "min": [0, 0, 0], "max": [1, 1, 0]},
    {"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
  ]
}`

// isolate keeps user config files out of the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, "tri.gltf")
	if err := os.WriteFile(path, []byte(triangleGLTF), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_Info(t *testing.T) {
	path := isolate(t)
	var stdout, stderr bytes.Buffer

	if code := run([]string{"info", "-index-size", "2", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d: %s", code, stderr.String())
	}

	var s model.Summary
	if err := yaml.Unmarshal(stdout.Bytes(), &s); err != nil {
		t.Fatalf("summary is not YAML: %v\n%s", err, stdout.String())
	}
	if s.Nodes != 1 || len(s.Meshes) != 1 || s.Meshes[0].Name != "triangle" {
		t.Errorf("unexpected summary: %+v", s)
	}
	if s.Vertices != 3 || s.Indices != 3 || s.IndexSize != 2 {
		t.Errorf("counts = %d vertices %d indices size %d", s.Vertices, s.Indices, s.IndexSize)
	}
}

func TestRun_Build(t *testing.T) {
	path := isolate(t)
	var stdout, stderr bytes.Buffer

	if code := run([]string{"build", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "3 vertices, 3 indices") {
		t.Errorf("unexpected output: %s", stdout.String())
	}
}

func TestRun_Layout(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer

	if code := run([]string{"layout"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "POSITION") {
		t.Errorf("layout output missing POSITION: %s", stdout.String())
	}

	savePath := filepath.Join(t.TempDir(), "gltfmodel.yaml")
	stdout.Reset()
	if code := run([]string{"layout", "-index-size", "2", "-save", savePath}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d: %s", code, stderr.String())
	}
	data, err := os.ReadFile(savePath)
	if err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	if !strings.Contains(string(data), "index_size: 2") {
		t.Errorf("saved config missing index size:\n%s", data)
	}
}

func TestRun_Errors(t *testing.T) {
	path := isolate(t)

	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"convert"}},
		{"info without file", []string{"info"}},
		{"missing file", []string{"build", filepath.Join(t.TempDir(), "missing.gltf")}},
		{"bad index size", []string{"info", "-index-size", "3", path}},
		{"bad flag", []string{"info", "-nope", path}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code == 0 {
				t.Errorf("expected non-zero exit, stdout: %s", stdout.String())
			}
		})
	}
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"help"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(stdout.String(), "Usage:") {
		t.Errorf("help output: %s", stdout.String())
	}
}
