// Command halation applies a halation, glow and grain pipeline to an
// image and writes the result.
//
// Usage:
//
//	halation [flags] input.png
//
// The pipeline comes from a YAML preset (-preset, or [io] preset in the
// configuration); without one the default Halation, Glow, Grain chain is
// used. With -watch the image is re-rendered whenever the input or the
// preset changes on disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gogpu/halation"
	"github.com/gogpu/halation/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML configuration file")
		presetPath = flag.String("preset", "", "YAML preset (overrides [io] preset)")
		output     = flag.String("o", "", "output file (overrides [io] output)")
		native     = flag.Bool("native", false, "use the input image size as the canvas")
		compile    = flag.Bool("compile-shaders", false, "build pass programs to SPIR-V at start-up")
		logLevel   = flag.String("log-level", "", "debug, info, warn or error (overrides [log] level)")
		watch      = flag.Bool("watch", false, "re-render when the input or the preset changes")
		savePreset = flag.String("save-preset", "", "write the pipeline used as a preset")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] input\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *presetPath != "" {
		cfg.IO.Preset = *presetPath
	}
	if *output != "" {
		cfg.IO.Output = *output
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	cfg.Render.CompileShaders = cfg.Render.CompileShaders || *compile
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	halation.SetLogger(logger)

	j := &job{
		cfg:    cfg,
		input:  flag.Arg(0),
		native: *native,
		logger: logger,
	}
	defer j.close()

	if err := j.render(); err != nil {
		log.Fatalf("Render failed: %v", err)
	}
	if *savePreset != "" {
		if err := j.savePreset(*savePreset); err != nil {
			log.Fatalf("Failed to save preset: %v", err)
		}
	}
	if !*watch {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := j.watch(ctx); err != nil {
		log.Fatalf("Watch failed: %v", err)
	}
}
