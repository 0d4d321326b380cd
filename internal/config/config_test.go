package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/gltfmodel/pkg/convert"
	"github.com/Faultbox/gltfmodel/pkg/model"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
	if cfg.Build.Scene != -1 {
		t.Errorf("expected scene -1, got %d", cfg.Build.Scene)
	}
	if cfg.Build.GPU {
		t.Error("expected gpu to be false by default")
	}
	if cfg.Layout.IndexSize != 4 {
		t.Errorf("expected index size 4, got %d", cfg.Layout.IndexSize)
	}
	if len(cfg.Layout.Attributes) != len(model.DefaultLayout().Attributes) {
		t.Errorf("expected %d attributes, got %d", len(model.DefaultLayout().Attributes), len(cfg.Layout.Attributes))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestVertexLayout_RoundTrip(t *testing.T) {
	want := model.DefaultLayout()
	got, err := Default().VertexLayout()
	if err != nil {
		t.Fatalf("VertexLayout: %v", err)
	}
	if got.IndexSize != want.IndexSize || len(got.Attributes) != len(want.Attributes) {
		t.Fatalf("layout mismatch: %+v", got)
	}
	for i := range want.Attributes {
		if got.Attributes[i] != want.Attributes[i] {
			t.Errorf("attribute %d = %+v, want %+v", i, got.Attributes[i], want.Attributes[i])
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "gltfmodel.yaml")

	yamlContent := `
logging:
  level: "debug"
  log_file: "build.log"

layout:
  index_size: 2
  attributes:
    - name: POSITION
      buffer: 0
      offset: 0
      type: float32
      components: 3
    - name: COLOR_0
      buffer: 1
      offset: 0
      type: uint8
      components: 4

build:
  scene: 1
  gpu: true
  cache_size: 2
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "build.log" {
		t.Errorf("unexpected logging config: %+v", cfg.Logging)
	}
	if cfg.Build.Scene != 1 || !cfg.Build.GPU || cfg.Build.CacheSize != 2 {
		t.Errorf("unexpected build config: %+v", cfg.Build)
	}

	layout, err := cfg.VertexLayout()
	if err != nil {
		t.Fatalf("VertexLayout: %v", err)
	}
	if layout.IndexSize != 2 {
		t.Errorf("expected index size 2, got %d", layout.IndexSize)
	}
	if len(layout.Attributes) != 2 {
		t.Fatalf("expected the file to replace the attribute list, got %d attributes", len(layout.Attributes))
	}
	if layout.Attributes[1].ValueType != convert.Uint8 || layout.Attributes[1].BufferID != 1 {
		t.Errorf("unexpected color attribute: %+v", layout.Attributes[1])
	}
}

func TestLoadFromFile_KeepsDefaultAttributes(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "gltfmodel.yaml")
	if err := os.WriteFile(configPath, []byte("layout:\n  index_size: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Layout.IndexSize != 2 {
		t.Errorf("expected index size 2, got %d", cfg.Layout.IndexSize)
	}
	if len(cfg.Layout.Attributes) != len(model.DefaultLayout().Attributes) {
		t.Errorf("default attributes were dropped: %d left", len(cfg.Layout.Attributes))
	}
}

func TestLoadFromFile_NotFound(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "gltfmodel.yaml")
	if err := os.WriteFile(configPath, []byte("logging: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "gltfmodel.yaml")
	if err := os.WriteFile(configPath, []byte("build:\n  scene: 2\nlayout:\n  index_size: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	if err := fs.Parse([]string{"-config", configPath, "-debug", "-index-size", "4", "-gpu"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Logging.Level)
	}
	if cfg.Layout.IndexSize != 4 {
		t.Errorf("flag should override index size, got %d", cfg.Layout.IndexSize)
	}
	if cfg.Build.Scene != 2 {
		t.Errorf("unset scene flag should keep the file value, got %d", cfg.Build.Scene)
	}
	if !cfg.Build.GPU {
		t.Error("expected gpu to be enabled by flag")
	}
}

func TestLoad_Invalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "gltfmodel.yaml")
	if err := os.WriteFile(configPath, []byte("layout:\n  index_size: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(&Flags{Config: configPath, Scene: -1})
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"scene", func(c *Config) { c.Build.Scene = -2 }},
		{"cache size", func(c *Config) { c.Build.CacheSize = -1 }},
		{"value type", func(c *Config) { c.Layout.Attributes[0].Type = "float16" }},
		{"components", func(c *Config) { c.Layout.Attributes[0].Components = 0 }},
		{"no position", func(c *Config) { c.Layout.Attributes = c.Layout.Attributes[1:] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestSaveTo(t *testing.T) {
	savePath := filepath.Join(t.TempDir(), "subdir", "gltfmodel.yaml")

	cfg := Default()
	cfg.Layout.IndexSize = 2
	cfg.Build.Scene = 3

	if err := cfg.SaveTo(savePath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}
	if _, err := os.Stat(savePath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	loaded := Default()
	if err := loadFromFile(loaded, savePath); err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Layout.IndexSize != 2 || loaded.Build.Scene != 3 {
		t.Errorf("saved values not restored: %+v", loaded)
	}
	if len(loaded.Layout.Attributes) != len(cfg.Layout.Attributes) {
		t.Errorf("attributes not restored")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if filepath.Base(dir) != "gltfmodel" {
		t.Errorf("expected config dir to end in gltfmodel, got %s", dir)
	}
}
