// Package config handles gltfmodel configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/gltfmodel/pkg/convert"
	"github.com/Faultbox/gltfmodel/pkg/model"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Config holds all tool settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Layout  LayoutConfig  `yaml:"layout"`
	Build   BuildConfig   `yaml:"build"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// AttributeConfig places one vertex attribute.
type AttributeConfig struct {
	Name       string `yaml:"name"`
	Buffer     int    `yaml:"buffer"`
	Offset     int    `yaml:"offset"`
	Type       string `yaml:"type"` // int8, uint16, float32, ...
	Components int    `yaml:"components"`
}

// LayoutConfig holds the destination vertex format.
type LayoutConfig struct {
	IndexSize  int               `yaml:"index_size"`
	Attributes []AttributeConfig `yaml:"attributes"`
}

// BuildConfig holds build settings.
type BuildConfig struct {
	Scene     int  `yaml:"scene"`      // -1 selects the default scene
	GPU       bool `yaml:"gpu"`        // upload buffers to an OpenGL context
	CacheSize int  `yaml:"cache_size"` // decoded documents kept in memory
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Layout: LayoutFrom(model.DefaultLayout()),
		Build: BuildConfig{
			Scene:     -1,
			GPU:       false,
			CacheSize: 8,
		},
	}
}

// LayoutFrom converts a model layout to its config form.
func LayoutFrom(l model.Layout) LayoutConfig {
	lc := LayoutConfig{IndexSize: l.IndexSize}
	for _, a := range l.Attributes {
		lc.Attributes = append(lc.Attributes, AttributeConfig{
			Name:       a.Name,
			Buffer:     a.BufferID,
			Offset:     a.RelativeOffset,
			Type:       a.ValueType.String(),
			Components: a.NumComponents,
		})
	}
	return lc
}

// VertexLayout converts the layout section to a model layout.
func (c *Config) VertexLayout() (model.Layout, error) {
	l := model.Layout{IndexSize: c.Layout.IndexSize}
	for _, a := range c.Layout.Attributes {
		vt, err := convert.ParseValueType(a.Type)
		if err != nil {
			return model.Layout{}, fmt.Errorf("attribute %s: %w", a.Name, err)
		}
		l.Attributes = append(l.Attributes, model.VertexAttribute{
			Name:           a.Name,
			BufferID:       a.Buffer,
			RelativeOffset: a.Offset,
			ValueType:      vt,
			NumComponents:  a.Components,
		})
	}
	return l, nil
}

// Validate checks the config for values the tool cannot use.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalid, c.Logging.Level)
	}
	if c.Build.Scene < -1 {
		return fmt.Errorf("%w: scene must be -1 or a scene index, got %d", ErrInvalid, c.Build.Scene)
	}
	if c.Build.CacheSize < 0 {
		return fmt.Errorf("%w: negative cache size", ErrInvalid)
	}

	l, err := c.VertexLayout()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := l.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
