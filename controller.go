package halation

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/gogpu/halation/effect"
	"github.com/gogpu/halation/internal/imageio"
	"github.com/gogpu/halation/internal/pass"
	"github.com/gogpu/halation/internal/texture"
)

// Controller owns the render context, the texture pool, the source
// texture, the display surface and the pipeline.
//
// Render, Resize, LoadImage, Dispatch and Export are serialized by one
// mutex. Render does not wait: while another operation holds the
// controller it fails with ErrRenderInProgress. The others wait, so a
// render never observes a pool mid-rebuild.
type Controller struct {
	mu sync.Mutex

	ctx      *pass.Context
	pool     *texture.Pool
	lib      *pass.Library
	exec     *Executor
	alloc    texture.Allocator
	pipeline *Pipeline
	clear    color.NRGBA

	width, height int
	surface       *texture.Texture

	// image is the loaded image, kept to re-letterbox on resize.
	image     image.Image
	source    *texture.Texture
	placement image.Rectangle

	closed bool
}

// New creates a controller with a canvas of the configured size.
// Allocation and program build failures are returned.
func New(opts ...Option) (*Controller, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	alloc := o.allocator
	if alloc == nil {
		alloc = texture.HeapAllocator{MaxDimension: o.maxTexture}
	}

	passOpts := []pass.Option{
		pass.WithWorkers(o.workers),
		pass.WithShaderCompilation(o.compileShaders),
	}
	if o.compiler != nil {
		passOpts = append(passOpts, pass.WithCompiler(pass.Compiler(o.compiler)))
	}
	ctx, err := pass.NewContext(passOpts...)
	if err != nil {
		return nil, err
	}

	pool := texture.NewPool(texture.WithAllocator(alloc))
	c := &Controller{
		ctx:      ctx,
		pool:     pool,
		lib:      pass.NewLibrary(ctx, pool),
		exec:     NewExecutor(),
		alloc:    alloc,
		pipeline: NewPipeline(o.nodes...),
		clear:    o.clear,
	}
	if err := c.resize(o.width, o.height); err != nil {
		c.release()
		return nil, err
	}
	return c, nil
}

// LoadImage letterboxes img onto the canvas and makes it the source.
// The previous source texture is destroyed before the new one is created.
func (c *Controller) LoadImage(img image.Image) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if err := c.upload(img); err != nil {
		return err
	}
	b := img.Bounds()
	slogger().Info("halation: image loaded",
		"width", b.Dx(), "height", b.Dy(), "placement", c.placement)
	return nil
}

func (c *Controller) upload(img image.Image) error {
	canvas, rect := imageio.Letterbox(img, c.width, c.height)

	if c.source != nil {
		c.source.Destroy()
		c.source = nil
	}
	src, err := c.alloc.Allocate(texture.Descriptor{Label: "source", Width: c.width, Height: c.height})
	if err != nil {
		c.image = nil
		return fmt.Errorf("halation: source texture: %w", err)
	}
	if err := src.Upload(canvas); err != nil {
		src.Destroy()
		c.image = nil
		return fmt.Errorf("halation: source upload: %w", err)
	}
	c.source = src
	c.image = img
	c.placement = rect
	return nil
}

// Resize changes the canvas size. It waits for a render in flight,
// rebuilds the pool and the surface and re-uploads the loaded image.
// Call Render afterwards to refresh the surface.
func (c *Controller) Resize(width, height int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return c.resize(width, height)
}

func (c *Controller) resize(width, height int) error {
	if err := c.pool.Resize(width, height); err != nil {
		return err
	}
	if c.surface != nil {
		c.surface.Destroy()
		c.surface = nil
	}
	surface, err := c.alloc.Allocate(texture.Descriptor{Label: "surface", Width: width, Height: height})
	if err != nil {
		c.pool.Release()
		return fmt.Errorf("halation: surface: %w", err)
	}
	c.surface = surface
	c.width, c.height = width, height
	slogger().Debug("halation: canvas resized", "width", width, "height", height)

	if c.image != nil {
		return c.upload(c.image)
	}
	return nil
}

// Render runs the pipeline and presents the result on the surface.
// Without a source image the surface is cleared to the clear color.
func (c *Controller) Render() error {
	if !c.mu.TryLock() {
		return ErrRenderInProgress
	}
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return c.render()
}

func (c *Controller) render() error {
	if c.source == nil {
		return c.ctx.Clear(c.surface, c.clear)
	}
	final, err := c.exec.Run(c.lib, c.pipeline.Nodes(), c.source)
	if err != nil {
		return err
	}
	return c.ctx.Present(final, c.surface, c.pipeline.View().affine(), c.clear)
}

// Dispatch applies cmd to the pipeline and renders once. If the command
// fails nothing is rendered.
func (c *Controller) Dispatch(cmd Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if err := c.pipeline.Apply(cmd); err != nil {
		return err
	}
	return c.render()
}

// Export renders the pipeline and returns the result clipped to the
// image placement, without the letterbox and ignoring the view.
func (c *Controller) Export() (*image.NRGBA, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	if c.source == nil {
		return nil, ErrNoSource
	}
	final, err := c.exec.Run(c.lib, c.pipeline.Nodes(), c.source)
	if err != nil {
		return nil, err
	}
	out := imageio.Crop(final.Image(), c.placement)
	slogger().Info("halation: export", "width", out.Rect.Dx(), "height", out.Rect.Dy())
	return out, nil
}

// Surface returns a copy of the display surface.
func (c *Controller) Surface() (*image.NRGBA, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	if c.surface == nil {
		return nil, texture.ErrPoolNotReady
	}
	img := c.surface.Image()
	return imageio.Crop(img, img.Rect), nil
}

// Nodes returns the current node list.
func (c *Controller) Nodes() []effect.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pipeline.Nodes()
}

// View returns the display view.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pipeline.View()
}

// Size returns the canvas size.
func (c *Controller) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// Placement returns the image rectangle on the canvas, empty before a load.
func (c *Controller) Placement() image.Rectangle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.placement
}

// HasSource reports whether an image is loaded.
func (c *Controller) HasSource() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source != nil
}

// Close releases every texture and the render context. Close is
// idempotent; other methods fail with ErrClosed afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.release()
}

func (c *Controller) release() {
	if c.source != nil {
		c.source.Destroy()
		c.source = nil
	}
	if c.surface != nil {
		c.surface.Destroy()
		c.surface = nil
	}
	c.image = nil
	c.pool.Release()
	c.ctx.Destroy()
}
