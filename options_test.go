package halation

import (
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/gogpu/halation/effect"
	"github.com/gogpu/halation/internal/pass"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.width != DefaultWidth || o.height != DefaultHeight {
		t.Errorf("size = %dx%d", o.width, o.height)
	}
	if o.clear != (color.NRGBA{A: 255}) {
		t.Errorf("clear = %v, want opaque black", o.clear)
	}
	if o.compileShaders || o.compiler != nil {
		t.Error("shader compilation on by default")
	}
	if len(o.nodes) != 3 {
		t.Errorf("len(nodes) = %d, want 3", len(o.nodes))
	}
}

func TestOptionsApply(t *testing.T) {
	o := defaultOptions()
	opts := []Option{
		WithCanvasSize(320, 200),
		WithWorkers(3),
		WithClearColor(color.NRGBA{R: 1, G: 2, B: 3, A: 4}),
		WithMaxTextureSize(1024),
		WithNodes(mustNode(t, effect.KindGrain)),
		WithShaderCompiler(func(string) ([]byte, error) { return nil, nil }),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.width != 320 || o.height != 200 || o.workers != 3 || o.maxTexture != 1024 {
		t.Errorf("options = %+v", o)
	}
	if o.clear != (color.NRGBA{R: 1, G: 2, B: 3, A: 4}) {
		t.Errorf("clear = %v", o.clear)
	}
	if len(o.nodes) != 1 || o.nodes[0].Kind() != effect.KindGrain {
		t.Errorf("nodes = %v", o.nodes)
	}
	if !o.compileShaders || o.compiler == nil {
		t.Error("WithShaderCompiler did not enable compilation")
	}
}

func TestNewWithShaderCompiler(t *testing.T) {
	var seen []string
	compiler := func(src string) ([]byte, error) {
		seen = append(seen, src)
		return []byte{0x03, 0x02, 0x23, 0x07}, nil
	}
	c := newTestController(t, 8, 8, WithShaderCompiler(compiler))
	if len(seen) != len(pass.BuiltinSources()) {
		t.Errorf("compiler called %d times, want %d", len(seen), len(pass.BuiltinSources()))
	}
	p, err := c.ctx.Program(pass.ProgramComposite)
	if err != nil {
		t.Fatal(err)
	}
	if words := p.SPIRV(); len(words) != 1 || words[0] != 0x07230203 {
		t.Errorf("SPIRV() = %#x, want [0x07230203]", words)
	}
}

func TestNewShaderCompilerFailure(t *testing.T) {
	broken := func(src string) ([]byte, error) {
		if strings.Contains(src, "grain") {
			return nil, errors.New("unexpected token")
		}
		return make([]byte, 4), nil
	}
	_, err := New(WithCanvasSize(8, 8), WithShaderCompiler(broken))
	if !errors.Is(err, pass.ErrCompile) {
		t.Errorf("New() = %v, want ErrCompile", err)
	}
}
