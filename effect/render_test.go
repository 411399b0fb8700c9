package effect

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gogpu/halation/blend"
	"github.com/gogpu/halation/internal/pass"
	"github.com/gogpu/halation/internal/texture"
)

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

// brightSpot returns a dark opaque image with a white square in the middle.
func brightSpot(t *testing.T, w, h int) *texture.Texture {
	t.Helper()
	src, err := texture.New(texture.Descriptor{Label: "source", Width: w, Height: h})
	if err != nil {
		t.Fatal(err)
	}
	src.Fill(20, 20, 20, 255)
	for y := h/2 - 3; y < h/2+3; y++ {
		for x := w/2 - 3; x < w/2+3; x++ {
			src.Set(x, y, 255, 255, 255, 255)
		}
	}
	return src
}

func TestRenderWritesIndexedOutput(t *testing.T) {
	lib := newTestLibrary(t, 48, 48)
	src := brightSpot(t, 48, 48)
	before := bytes.Clone(src.Pix())

	for index, kind := range []Kind{KindHalation, KindGlow, KindGrain} {
		n, _ := Defaults(kind)
		out, err := Render(lib, n, src, index)
		if err != nil {
			t.Fatalf("%v: %v", kind, err)
		}
		if out != lib.Output(index) {
			t.Errorf("%v: output is %q, want Output(%d)", kind, out.Label(), index)
		}
	}
	if !bytes.Equal(before, src.Pix()) {
		t.Error("Render modified its input")
	}
}

func TestRenderHalationSpreadsLight(t *testing.T) {
	lib := newTestLibrary(t, 64, 64)
	src := brightSpot(t, 64, 64)
	n, _ := New(DefaultHalation()).Set("amount", "1")
	n, _ = n.Set("radius", "20")

	out, err := Render(lib, n, src, 0)
	if err != nil {
		t.Fatal(err)
	}
	r0, g0, b0, _ := src.At(32+5, 32)
	r1, g1, b1, a1 := out.At(32+5, 32)
	if r1 <= r0 || r1-r0 <= b1-b0 {
		t.Errorf("pixel near spot: %d,%d,%d -> %d,%d,%d, want warm brightening", r0, g0, b0, r1, g1, b1)
	}
	if a1 != 255 {
		t.Errorf("alpha = %d, want 255", a1)
	}
	if r, _, _, _ := out.At(0, 0); r != 20 {
		t.Errorf("far corner R = %d, want unchanged 20", r)
	}
}

func TestRenderGlowZeroAmountIsCopy(t *testing.T) {
	lib := newTestLibrary(t, 32, 32)
	src := brightSpot(t, 32, 32)
	out, err := Render(lib, New(DefaultGlow()), src, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.Pix(), src.Pix()) {
		t.Error("glow at amount 0 changed the image")
	}
}

func TestRenderGlowResolveGating(t *testing.T) {
	lib := newTestLibrary(t, 32, 32)
	src := brightSpot(t, 32, 32)

	render := func(g Glow) []byte {
		t.Helper()
		out, err := Render(lib, New(g), src, 0)
		if err != nil {
			t.Fatal(err)
		}
		return bytes.Clone(out.Pix())
	}
	g := DefaultGlow()
	g.Amount, g.Radius = 1, 10

	g.BlendMode = blend.Screen
	screen := render(g)
	g.BlendMode = blend.OverlayResolve
	gated := render(g)
	g.ResolveAccurate = true
	resolved := render(g)

	if !bytes.Equal(screen, gated) {
		t.Error("Resolve mode without the toggle did not fall back to Screen")
	}
	if bytes.Equal(screen, resolved) {
		t.Error("Resolve mode with the toggle rendered as Screen")
	}
}

func TestRenderGrainDeterministic(t *testing.T) {
	lib := newTestLibrary(t, 32, 32)
	src := brightSpot(t, 32, 32)
	n := New(DefaultGrain(99))
	a, err := Render(lib, n, src, 0)
	if err != nil {
		t.Fatal(err)
	}
	first := bytes.Clone(a.Pix())
	b, err := Render(lib, n, src, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, b.Pix()) {
		t.Error("grain render not deterministic")
	}
}

func TestRenderErrors(t *testing.T) {
	lib := newTestLibrary(t, 16, 16)
	src := brightSpot(t, 16, 16)

	if _, err := Render(lib, Node{}, src, 0); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("empty node err = %v, want ErrUnknownKind", err)
	}

	wrong := brightSpot(t, 8, 8)
	if _, err := Render(lib, New(DefaultHalation()), wrong, 0); !errors.Is(err, pass.ErrSizeMismatch) {
		t.Errorf("wrong-size input err = %v, want pass.ErrSizeMismatch", err)
	}

	// The executor never hands a node its own output; Render reports it.
	if _, err := Render(lib, New(DefaultGrain(1)), lib.Output(0), 0); !errors.Is(err, pass.ErrAliasing) {
		t.Errorf("aliased input err = %v, want pass.ErrAliasing", err)
	}

	lib.Context().Destroy()
	if _, err := Render(lib, New(DefaultHalation()), src, 0); !errors.Is(err, pass.ErrContextDestroyed) {
		t.Errorf("destroyed context err = %v, want pass.ErrContextDestroyed", err)
	}
}
