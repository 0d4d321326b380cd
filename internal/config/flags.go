package config

import "flag"

// Flags holds command-line overrides. Zero values leave the config as is.
type Flags struct {
	Config    string
	Debug     bool
	LogFile   string
	IndexSize int
	Scene     int
	GPU       bool
}

// RegisterFlags adds the config flags to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.LogFile, "log-file", "", "Write logs to this file as well")
	fs.IntVar(&f.IndexSize, "index-size", 0, "Index element size in bytes (2 or 4)")
	fs.IntVar(&f.Scene, "scene", -1, "Scene to build (-1 for the default scene)")
	fs.BoolVar(&f.GPU, "gpu", false, "Upload buffers to an OpenGL context")
	return f
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.IndexSize > 0 {
		cfg.Layout.IndexSize = f.IndexSize
	}
	if f.Scene >= 0 {
		cfg.Build.Scene = f.Scene
	}
	if f.GPU {
		cfg.Build.GPU = true
	}
}
