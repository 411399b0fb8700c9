package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/halation"
	"github.com/gogpu/halation/config"
	"github.com/gogpu/halation/effect"
	"github.com/gogpu/halation/internal/imageio"
	"github.com/gogpu/halation/preset"
)

// job renders one input with one preset, keeping the controller between
// renders in watch mode.
type job struct {
	cfg    config.Config
	input  string
	native bool
	logger *slog.Logger

	ctrl *halation.Controller
}

// render loads the input and the preset, renders and writes the output.
func (j *job) render() error {
	img, err := imageio.Load(j.input)
	if err != nil {
		return err
	}
	nodes, err := j.nodes()
	if err != nil {
		return err
	}

	w, h := j.cfg.Canvas.Width, j.cfg.Canvas.Height
	if j.native {
		b := img.Bounds()
		w, h = b.Dx(), b.Dy()
	}
	if err := j.controller(w, h); err != nil {
		return err
	}
	if err := j.ctrl.LoadImage(img); err != nil {
		return err
	}
	if err := j.ctrl.Dispatch(halation.ReplaceNodes{Nodes: nodes}); err != nil {
		return err
	}

	out, err := j.ctrl.Export()
	if err != nil {
		return err
	}
	if err := imageio.Save(j.cfg.IO.Output, out); err != nil {
		return err
	}
	j.logger.Info("wrote image", "path", j.cfg.IO.Output, "size", out.Rect.Size(), "nodes", len(nodes))
	return nil
}

// controller creates the controller on first use and resizes it after.
func (j *job) controller(w, h int) error {
	if j.ctrl != nil {
		if cw, ch := j.ctrl.Size(); cw == w && ch == h {
			return nil
		}
		return j.ctrl.Resize(w, h)
	}
	bg, err := j.cfg.ClearColor()
	if err != nil {
		return err
	}
	ctrl, err := halation.New(
		halation.WithCanvasSize(w, h),
		halation.WithWorkers(j.cfg.Render.Workers),
		halation.WithShaderCompilation(j.cfg.Render.CompileShaders),
		halation.WithMaxTextureSize(j.cfg.Render.MaxTextureSize),
		halation.WithClearColor(bg),
	)
	if err != nil {
		return fmt.Errorf("create controller: %w", err)
	}
	j.ctrl = ctrl
	return nil
}

func (j *job) nodes() ([]effect.Node, error) {
	if j.cfg.IO.Preset == "" {
		return halation.DefaultNodes(), nil
	}
	return preset.Load(j.cfg.IO.Preset)
}

func (j *job) savePreset(path string) error {
	if j.ctrl == nil {
		return errors.New("no pipeline rendered")
	}
	return preset.Save(path, j.ctrl.Nodes())
}

func (j *job) close() {
	if j.ctrl != nil {
		j.ctrl.Close()
	}
}
