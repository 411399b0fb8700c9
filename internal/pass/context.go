// Package pass implements the render passes shared by every effect: Mask,
// SeparableBlur, Tint, Composite, Grain and the final Present blit.
//
// Passes run on a software backend. Each pass is bound to a program of the
// render Context and executes its kernel over the target's rows on the
// context's worker pool. A pass returns only after every row is written,
// so passes issued one after another are strictly ordered and each sees
// the complete output of the previous one.
//
// Passes never allocate textures. Every target is supplied by the caller,
// must have the same dimensions as the pass inputs and must not be one of
// them.
package pass

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/gogpu/halation/internal/parallel"
	"github.com/gogpu/halation/internal/texture"
	"github.com/gogpu/naga"
)

// Errors returned by the render context and the passes.
var (
	// ErrCompile is returned when a program fails to build. For built-in
	// programs it is fatal to NewContext.
	ErrCompile = errors.New("pass: program build failed")

	// ErrProgramUnknown is returned when a pass refers to a program the
	// context does not hold.
	ErrProgramUnknown = errors.New("pass: unknown program")

	// ErrProgramExists is returned by RegisterProgram for a name already in use.
	ErrProgramExists = errors.New("pass: program already registered")

	// ErrContextDestroyed is returned by every pass after Destroy.
	ErrContextDestroyed = errors.New("pass: context destroyed")

	// ErrSizeMismatch is returned when a target does not match the input size.
	ErrSizeMismatch = errors.New("pass: texture size mismatch")

	// ErrAliasing is returned when a pass would write one of its inputs.
	ErrAliasing = errors.New("pass: output aliases an input")

	// ErrInvalidTexture is returned for nil or destroyed textures.
	ErrInvalidTexture = errors.New("pass: nil or destroyed texture")
)

// Compiler builds WGSL source into SPIR-V bytes.
type Compiler func(source string) ([]byte, error)

// Program is a built pass program: its WGSL source and, when shader
// compilation is enabled, the SPIR-V words produced from it.
type Program struct {
	name   string
	source string
	spirv  []uint32
}

// Name returns the program name.
func (p *Program) Name() string { return p.name }

// Source returns the WGSL source.
func (p *Program) Source() string { return p.source }

// SPIRV returns the compiled words, or nil when compilation was disabled.
func (p *Program) SPIRV() []uint32 { return p.spirv }

// Option configures a Context.
type Option func(*contextOptions)

type contextOptions struct {
	workers  int
	compile  bool
	compiler Compiler
}

// WithWorkers sets the number of kernel workers. Zero or negative means
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *contextOptions) {
		o.workers = n
	}
}

// WithShaderCompilation enables building every program's WGSL to SPIR-V
// with naga. Without it programs are only checked for an entry point.
func WithShaderCompilation(enabled bool) Option {
	return func(o *contextOptions) {
		o.compile = enabled
	}
}

// WithCompiler replaces the WGSL compiler and enables compilation.
func WithCompiler(c Compiler) Option {
	return func(o *contextOptions) {
		if c != nil {
			o.compiler = c
			o.compile = true
		}
	}
}

// Context is the process-scoped render context: the program cache and the
// worker pool that executes pass kernels.
//
// Create it once with NewContext, pass it by reference to whatever issues
// passes and call Destroy on shutdown. A Context is safe for concurrent
// use, but passes from one pipeline are issued sequentially.
type Context struct {
	mu        sync.RWMutex
	opts      contextOptions
	programs  map[string]*Program
	workers   *parallel.WorkerPool
	destroyed bool
}

// NewContext creates the render context and builds every built-in
// program. A build failure of any built-in is fatal: the context is torn
// down and the error, wrapping ErrCompile, is returned.
func NewContext(opts ...Option) (*Context, error) {
	o := contextOptions{compiler: compileWGSL}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Context{
		opts:     o,
		programs: make(map[string]*Program, len(builtinOrder)),
		workers:  parallel.NewWorkerPool(o.workers),
	}
	sources := BuiltinSources()
	for _, name := range builtinOrder {
		p, err := c.build(name, sources[name])
		if err != nil {
			c.Destroy()
			return nil, fmt.Errorf("pass: built-in program: %w", err)
		}
		c.programs[name] = p
	}

	slogger().Info("pass: render context ready",
		"programs", len(c.programs),
		"workers", c.workers.Workers(),
		"compiled", o.compile)
	return c, nil
}

// compileWGSL compiles with naga's default WGSL to SPIR-V pipeline.
func compileWGSL(source string) ([]byte, error) {
	return naga.Compile(source)
}

func (c *Context) build(name, source string) (*Program, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("%w: %s: empty source", ErrCompile, name)
	}
	if !strings.Contains(source, "@fragment") || !strings.Contains(source, "fs_main") {
		return nil, fmt.Errorf("%w: %s: missing fragment entry point fs_main", ErrCompile, name)
	}
	p := &Program{name: name, source: source}
	if !c.opts.compile {
		return p, nil
	}

	spirvBytes, err := c.opts.compiler(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCompile, name, err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("%w: %s: SPIR-V length %d is not word aligned", ErrCompile, name, len(spirvBytes))
	}
	// SPIR-V is little-endian 32-bit words.
	p.spirv = make([]uint32, len(spirvBytes)/4)
	for i := range p.spirv {
		p.spirv[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return p, nil
}

// RegisterProgram builds and adds an extra program. A build failure is
// returned to the caller, wrapping ErrCompile, and leaves every program
// already registered untouched.
func (c *Context) RegisterProgram(name, source string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return ErrContextDestroyed
	}
	if _, ok := c.programs[name]; ok {
		return fmt.Errorf("%w: %q", ErrProgramExists, name)
	}
	p, err := c.build(name, source)
	if err != nil {
		slogger().Warn("pass: program rejected", "program", name, "err", err)
		return err
	}
	c.programs[name] = p
	return nil
}

// Program returns the named program.
func (c *Context) Program(name string) (*Program, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.destroyed {
		return nil, ErrContextDestroyed
	}
	p, ok := c.programs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProgramUnknown, name)
	}
	return p, nil
}

// Programs returns the sorted names of all programs.
func (c *Context) Programs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.programs))
	for name := range c.programs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Workers returns the number of kernel workers.
func (c *Context) Workers() int {
	return c.workers.Workers()
}

// Destroy releases every program and stops the worker pool. Later passes
// fail with ErrContextDestroyed. Destroy is idempotent.
func (c *Context) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.programs = nil
	c.workers.Close()
}

// Destroyed reports whether Destroy has been called.
func (c *Context) Destroyed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.destroyed
}

// bind resolves the program of a pass and validates its textures: every
// input must be live, have the size of out, and differ from out.
func (c *Context) bind(program string, out *texture.Texture, inputs ...*texture.Texture) error {
	if _, err := c.Program(program); err != nil {
		return fmt.Errorf("pass: %s: %w", program, err)
	}
	if !live(out) {
		return fmt.Errorf("pass: %s: output: %w", program, ErrInvalidTexture)
	}
	for _, in := range inputs {
		if !live(in) {
			return fmt.Errorf("pass: %s: input: %w", program, ErrInvalidTexture)
		}
		if in == out {
			return fmt.Errorf("pass: %s: %q: %w", program, out.Label(), ErrAliasing)
		}
		if !in.SameSize(out) {
			return fmt.Errorf("pass: %s: %w: input %q %dx%d, output %q %dx%d", program, ErrSizeMismatch,
				in.Label(), in.Width(), in.Height(), out.Label(), out.Width(), out.Height())
		}
	}
	return nil
}

// rows runs fn over the row bands of a height-row target and waits.
func (c *Context) rows(height int, fn func(y0, y1 int)) {
	c.workers.Rows(height, fn)
}

func live(t *texture.Texture) bool {
	return t != nil && !t.Released()
}
