// Package config holds the settings of the halation command, read from a
// TOML file:
//
//	[canvas]
//	width = 1920
//	height = 1080
//	clear_color = "#000000"
//
//	[render]
//	workers = 0            # 0 means GOMAXPROCS
//	compile_shaders = false
//	max_texture_size = 8192
//
//	[log]
//	level = "info"
//
//	[io]
//	preset = "look.yaml"
//	output = "halation-node.png"
//
// Keys missing from the file keep their defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is returned for a configuration that fails validation.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the command configuration.
type Config struct {
	Canvas Canvas `toml:"canvas"`
	Render Render `toml:"render"`
	Log    Log    `toml:"log"`
	IO     IO     `toml:"io"`
}

// Canvas is the render canvas.
type Canvas struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	ClearColor string `toml:"clear_color"`
}

// Render configures the render context.
type Render struct {
	Workers        int  `toml:"workers"`
	CompileShaders bool `toml:"compile_shaders"`
	// MaxTextureSize limits texture width and height; 0 keeps the
	// allocator default.
	MaxTextureSize int `toml:"max_texture_size"`
}

// Log configures the command's logger.
type Log struct {
	Level string `toml:"level"`
}

// IO names the files the command reads and writes.
type IO struct {
	Preset string `toml:"preset"`
	Output string `toml:"output"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Canvas: Canvas{Width: 1920, Height: 1080, ClearColor: "#000000"},
		Log:    Log{Level: "info"},
		IO:     IO{Output: "halation-node.png"},
	}
}

// Load reads the configuration at path over the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%w (%s)", err, path)
	}
	return cfg, nil
}

// Decode reads TOML over the defaults and validates the result. Unknown
// keys are an error.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalid, strict.String())
		}
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Validate checks the configuration. A negative worker count is reset to
// zero.
func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalid, c.Canvas.Width, c.Canvas.Height)
	}
	if c.Render.MaxTextureSize < 0 {
		return fmt.Errorf("%w: max_texture_size %d", ErrInvalid, c.Render.MaxTextureSize)
	}
	if m := c.Render.MaxTextureSize; m > 0 && (c.Canvas.Width > m || c.Canvas.Height > m) {
		return fmt.Errorf("%w: canvas %dx%d exceeds max_texture_size %d",
			ErrInvalid, c.Canvas.Width, c.Canvas.Height, m)
	}
	c.Render.Workers = max(c.Render.Workers, 0)
	if _, err := c.ClearColor(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if strings.TrimSpace(c.IO.Output) == "" {
		return fmt.Errorf("%w: empty output path", ErrInvalid)
	}
	return nil
}

// ClearColor decodes Canvas.ClearColor as an opaque color.
func (c *Config) ClearColor() (color.NRGBA, error) {
	s := strings.TrimSpace(c.Canvas.ClearColor)
	if (len(s) != 4 && len(s) != 7) || s[0] != '#' || strings.Trim(s[1:], "0123456789abcdefABCDEF") != "" {
		return color.NRGBA{}, fmt.Errorf("%w: clear_color %q", ErrInvalid, c.Canvas.ClearColor)
	}
	col, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: clear_color %q: %w", ErrInvalid, c.Canvas.ClearColor, err)
	}
	r, g, b := col.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// Level decodes Log.Level ("debug", "info", "warn", "error").
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(c.Log.Level))); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level)
	}
	return l, nil
}
