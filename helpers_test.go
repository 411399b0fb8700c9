package halation

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/halation/effect"
	"github.com/gogpu/halation/internal/pass"
	"github.com/gogpu/halation/internal/texture"
)

func newTestController(t *testing.T, w, h int, opts ...Option) *Controller {
	t.Helper()
	c, err := New(append([]Option{WithCanvasSize(w, h), WithWorkers(2)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func newTestLibrary(t *testing.T, w, h int) *pass.Library {
	t.Helper()
	ctx, err := pass.NewContext(pass.WithWorkers(2))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(ctx.Destroy)
	pool := texture.NewPool()
	if err := pool.Resize(w, h); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Release)
	return pass.NewLibrary(ctx, pool)
}

// brightSpotImage is a dark opaque image with a bright square in the middle.
func brightSpotImage(w, h, half int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			c := color.NRGBA{R: 25, G: 25, B: 30, A: 255}
			if x >= w/2-half && x < w/2+half && y >= h/2-half && y < h/2+half {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func sourceTexture(t *testing.T, img *image.NRGBA) *texture.Texture {
	t.Helper()
	b := img.Bounds()
	tex, err := texture.New(texture.Descriptor{Label: "source", Width: b.Dx(), Height: b.Dy()})
	if err != nil {
		t.Fatal(err)
	}
	if err := tex.Upload(img); err != nil {
		t.Fatal(err)
	}
	return tex
}

func mustNode(t *testing.T, kind effect.Kind, params ...string) effect.Node {
	t.Helper()
	n, err := effect.Defaults(kind)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i+1 < len(params); i += 2 {
		if n, err = n.Set(params[i], params[i+1]); err != nil {
			t.Fatal(err)
		}
	}
	return n
}

func maxPixelDiff(a, b []byte) int {
	m := 0
	for i := range a {
		d := int(a[i]) - int(b[i])
		if d < 0 {
			d = -d
		}
		m = max(m, d)
	}
	return m
}
