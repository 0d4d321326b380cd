// gltfmodel is a CLI utility for building engine models from glTF files.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/gltfmodel/internal/config"
	"github.com/Faultbox/gltfmodel/internal/gpu"
	"github.com/Faultbox/gltfmodel/internal/loader"
	"github.com/Faultbox/gltfmodel/internal/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	command := args[0]
	args = args[1:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args, stdout, stderr)
	case "build":
		err = cmdBuild(args, stdout, stderr)
	case "layout":
		err = cmdLayout(args, stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		printUsage(stderr)
		return 1
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `gltfmodel - build engine models from glTF 2.0 files

Usage:
  gltfmodel <command> [options]

Commands:
  info <file.gltf|file.glb>    Build the model and print a YAML summary
  build <file.gltf|file.glb>   Build the model and report conversion stats
  layout                       Print the configured vertex layout

Common options:
  -config <path>     Config file (default: ./gltfmodel.yaml, then user config dir)
  -debug             Enable debug logging
  -log-file <path>   Also write JSON logs to this file
  -index-size <n>    Index element size, 2 or 4
  -scene <n>         Scene to build (-1 for the default scene)
  -gpu               Upload buffers to an OpenGL 4.1 context (build only)

Examples:
  gltfmodel info Fox.glb
  gltfmodel build -gpu -index-size 2 scene.gltf
  gltfmodel layout -save ./gltfmodel.yaml`)
}

// setup parses the common flags and initializes logging.
func setup(name string, args []string, stderr io.Writer) (*flag.FlagSet, *config.Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return nil, nil, err
	}

	logger.Set(logger.New(logger.Options{
		Level:   cfg.Logging.Level,
		File:    logFile(cfg.Logging.LogFile),
		Console: stderr,
	}))
	return fs, cfg, nil
}

func logFile(path string) logger.FileConfig {
	if path == "" {
		return logger.FileConfig{}
	}
	return logger.DefaultFileConfig(path)
}

func newLoader(cfg *config.Config) (*loader.Loader, error) {
	return loader.New(cfg, logger.Named("loader"))
}

func cmdInfo(args []string, stdout, stderr io.Writer) error {
	fs, cfg, err := setup("info", args, stderr)
	if err != nil {
		return err
	}
	defer logger.Sync()
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: gltfmodel info [options] <file>")
	}

	l, err := newLoader(cfg)
	if err != nil {
		return err
	}
	defer l.Close()

	res, err := l.Build(fs.Arg(0))
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(res.Model.Summary())
	if err != nil {
		return err
	}
	_, err = stdout.Write(out)
	return err
}

func cmdBuild(args []string, stdout, stderr io.Writer) error {
	fs, cfg, err := setup("build", args, stderr)
	if err != nil {
		return err
	}
	defer logger.Sync()
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: gltfmodel build [options] <file>...")
	}

	l, err := newLoader(cfg)
	if err != nil {
		return err
	}
	defer l.Close()

	var device *gpu.Device
	if cfg.Build.GPU {
		ctx, err := gpu.NewContext(logger.Named("gpu"))
		if err != nil {
			return err
		}
		defer ctx.Close()
		device = gpu.NewDevice(logger.Named("gpu"))
		l.SetDevice(device, device)
	}

	for _, path := range fs.Args() {
		res, err := l.Build(path)
		if err != nil {
			return err
		}
		s := res.Stats
		fmt.Fprintf(stdout, "%s: %d nodes, %d meshes, %d vertices, %d indices, %d conversions, %d cache hits (build %s, %s)\n",
			path, len(res.Model.Nodes), len(res.Model.Meshes),
			s.Vertices, s.Indices, s.Conversions, s.CacheHits, s.BuildID, res.Duration)

		if device != nil {
			logger.Log.Info("uploaded",
				zap.String("file", path),
				zap.Uint32("vao", device.VertexArray(res.Model)))
			device.Release(res.Model)
		}
	}
	return nil
}

func cmdLayout(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("layout", flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := config.RegisterFlags(fs)
	save := fs.String("save", "", "Write the full config to this path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}

	if *save != "" {
		if err := cfg.SaveTo(*save); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Saved config to %s\n", *save)
		return nil
	}

	out, err := yaml.Marshal(cfg.Layout)
	if err != nil {
		return err
	}
	_, err = stdout.Write(out)
	return err
}
