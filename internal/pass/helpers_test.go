package pass

import (
	"testing"

	"github.com/gogpu/halation/internal/texture"
)

func newTestContext(t *testing.T, opts ...Option) *Context {
	t.Helper()
	ctx, err := NewContext(append([]Option{WithWorkers(4)}, opts...)...)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	t.Cleanup(ctx.Destroy)
	return ctx
}

func newTex(t *testing.T, label string, w, h int) *texture.Texture {
	t.Helper()
	tex, err := texture.New(texture.Descriptor{Label: label, Width: w, Height: h})
	if err != nil {
		t.Fatalf("texture.New(%dx%d): %v", w, h, err)
	}
	return tex
}

// fillFunc sets every pixel of tex from fn.
func fillFunc(tex *texture.Texture, fn func(x, y int) [4]byte) {
	for y := range tex.Height() {
		for x := range tex.Width() {
			p := fn(x, y)
			tex.Set(x, y, p[0], p[1], p[2], p[3])
		}
	}
}

func equalPix(a, b *texture.Texture) bool {
	if !a.SameSize(b) {
		return false
	}
	pa, pb := a.Pix(), b.Pix()
	for i := range pa {
		if pa[i] != pb[i] {
			return false
		}
	}
	return true
}

func absDiff(a, b byte) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
