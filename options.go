package halation

import (
	"image/color"

	"github.com/gogpu/halation/effect"
	"github.com/gogpu/halation/internal/texture"
)

// Default canvas size.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// ShaderCompiler builds WGSL source into SPIR-V bytes.
type ShaderCompiler func(source string) ([]byte, error)

// Option configures a Controller during creation.
//
// Example:
//
//	c, err := halation.New(
//	    halation.WithCanvasSize(1920, 1080),
//	    halation.WithWorkers(4),
//	)
type Option func(*options)

type options struct {
	width, height  int
	workers        int
	compileShaders bool
	compiler       ShaderCompiler
	clear          color.NRGBA
	maxTexture     int
	nodes          []effect.Node
	allocator      texture.Allocator
}

func defaultOptions() options {
	return options{
		width:  DefaultWidth,
		height: DefaultHeight,
		clear:  color.NRGBA{A: 255},
		nodes:  DefaultNodes(),
	}
}

// WithCanvasSize sets the initial canvas size in pixels.
func WithCanvasSize(width, height int) Option {
	return func(o *options) {
		o.width, o.height = width, height
	}
}

// WithWorkers sets the number of pass workers. Zero means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithShaderCompilation builds every pass program's WGSL to SPIR-V at
// start-up, failing New on a build error.
func WithShaderCompilation(enabled bool) Option {
	return func(o *options) {
		o.compileShaders = enabled
	}
}

// WithShaderCompiler replaces the WGSL compiler and enables compilation.
func WithShaderCompiler(c ShaderCompiler) Option {
	return func(o *options) {
		o.compiler = c
		o.compileShaders = c != nil || o.compileShaders
	}
}

// WithClearColor sets the color shown where there is no image: the empty
// surface before a load and the area outside a zoomed-out view.
func WithClearColor(c color.NRGBA) Option {
	return func(o *options) {
		o.clear = c
	}
}

// WithMaxTextureSize limits texture width and height.
func WithMaxTextureSize(n int) Option {
	return func(o *options) {
		o.maxTexture = n
	}
}

// WithNodes sets the initial node list instead of DefaultNodes.
func WithNodes(nodes ...effect.Node) Option {
	return func(o *options) {
		o.nodes = nodes
	}
}

// withAllocator replaces the texture allocator.
func withAllocator(a texture.Allocator) Option {
	return func(o *options) {
		o.allocator = a
	}
}
