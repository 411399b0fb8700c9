package halation

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/gogpu/halation/effect"
	"github.com/gogpu/halation/internal/pass"
	"github.com/gogpu/halation/internal/texture"
)

func strongNodes(t *testing.T) []effect.Node {
	return []effect.Node{
		mustNode(t, effect.KindHalation, "amount", "1.5", "radius", "20", "threshold", "0.5"),
		mustNode(t, effect.KindGlow, "amount", "1", "radius", "30", "threshold", "0.5", "blendMode", "Add"),
		mustNode(t, effect.KindGrain, "amount", "1", "seed", "7"),
	}
}

func TestExecutorInactiveNodesAreIdentity(t *testing.T) {
	lib := newTestLibrary(t, 48, 48)
	src := sourceTexture(t, brightSpotImage(48, 48, 4))
	exec := NewExecutor()

	for _, n := range strongNodes(t) {
		for _, mode := range []string{"disabled", "bypassed"} {
			t.Run(fmt.Sprintf("%v/%s", n.Kind(), mode), func(t *testing.T) {
				node := n
				if mode == "disabled" {
					node.Enabled = false
				} else {
					node.Before = true
				}
				// Put the node second so it reads a ping-pong target.
				first := mustNode(t, effect.KindGlow) // amount 0: exact copy
				out, err := exec.Run(lib, []effect.Node{first, node}, src)
				if err != nil {
					t.Fatal(err)
				}
				if out != lib.Output(1) {
					t.Errorf("result is %q, want Output(1)", out.Label())
				}
				if !bytes.Equal(out.Pix(), src.Pix()) {
					t.Error("inactive node changed the image")
				}
			})
		}
	}
}

func TestExecutorActiveNodesChangeImage(t *testing.T) {
	lib := newTestLibrary(t, 48, 48)
	src := sourceTexture(t, brightSpotImage(48, 48, 4))
	for _, n := range strongNodes(t) {
		out, err := NewExecutor().Run(lib, []effect.Node{n}, src)
		if err != nil {
			t.Fatal(err)
		}
		if bytes.Equal(out.Pix(), src.Pix()) {
			t.Errorf("%v: active node left the image unchanged", n.Kind())
		}
	}
}

func TestExecutorNoNodesReturnsSource(t *testing.T) {
	lib := newTestLibrary(t, 8, 8)
	src := sourceTexture(t, brightSpotImage(8, 8, 1))
	out, err := NewExecutor().Run(lib, nil, src)
	if err != nil {
		t.Fatal(err)
	}
	if out != src {
		t.Error("empty pipeline did not return the source")
	}
}

func TestExecutorTransparentDefaultPipelineDisabled(t *testing.T) {
	lib := newTestLibrary(t, 64, 64)
	src := sourceTexture(t, image.NewNRGBA(image.Rect(0, 0, 64, 64)))

	nodes := DefaultNodes()
	for i := range nodes {
		nodes[i].Enabled = false
	}
	out, err := NewExecutor().Run(lib, nodes, src)
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range out.Pix() {
		if b != 0 {
			t.Fatalf("byte %d = %d, want fully transparent output", i, b)
		}
	}
}

func TestExecutorTransparentStaysTransparent(t *testing.T) {
	lib := newTestLibrary(t, 32, 32)
	src := sourceTexture(t, image.NewNRGBA(image.Rect(0, 0, 32, 32)))
	out, err := NewExecutor().Run(lib, strongNodes(t), src)
	if err != nil {
		t.Fatal(err)
	}
	pix := out.Pix()
	for i := 3; i < len(pix); i += 4 {
		if pix[i] != 0 {
			t.Fatalf("alpha at byte %d = %d, want 0", i, pix[i])
		}
	}
}

func TestExecutorReorderChangesOutput(t *testing.T) {
	const size = 96
	lib := newTestLibrary(t, size, size)
	src := sourceTexture(t, brightSpotImage(size, size, 6))

	halation := mustNode(t, effect.KindHalation, "amount", "1", "radius", "20")
	glow := mustNode(t, effect.KindGlow, "amount", "1", "radius", "60")

	run := func(nodes ...effect.Node) []byte {
		t.Helper()
		out, err := NewExecutor().Run(lib, nodes, src)
		if err != nil {
			t.Fatal(err)
		}
		return bytes.Clone(out.Pix())
	}
	forward := run(halation, glow)
	reverse := run(glow, halation)

	if d := maxPixelDiff(forward, reverse); d <= 4 {
		t.Errorf("max per-channel difference between orders = %d, want > 4", d)
	}
}

func TestExecutorIsolatesProgramFailures(t *testing.T) {
	lib := newTestLibrary(t, 32, 32)
	src := sourceTexture(t, brightSpotImage(32, 32, 3))
	nodes := strongNodes(t)

	for _, sentinel := range []error{pass.ErrCompile, pass.ErrProgramUnknown} {
		exec := NewExecutor()
		exec.render = func(l *pass.Library, n effect.Node, in *texture.Texture, i int) (*texture.Texture, error) {
			if i == 1 {
				return nil, fmt.Errorf("effect: custom: %w", sentinel)
			}
			return effect.Render(l, n, in, i)
		}
		got, err := exec.Run(lib, nodes, src)
		if err != nil {
			t.Fatalf("%v: Run() = %v, want isolated failure", sentinel, err)
		}
		isolated := bytes.Clone(got.Pix())

		skipped := append([]effect.Node(nil), nodes...)
		skipped[1].Enabled = false
		want, err := NewExecutor().Run(lib, skipped, src)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(isolated, want.Pix()) {
			t.Errorf("%v: failed node did not degrade to a pass-through", sentinel)
		}
	}
}

func TestExecutorAbortsOnOtherErrors(t *testing.T) {
	lib := newTestLibrary(t, 16, 16)
	src := sourceTexture(t, brightSpotImage(16, 16, 2))
	lost := errors.New("device lost")

	exec := NewExecutor()
	exec.render = func(*pass.Library, effect.Node, *texture.Texture, int) (*texture.Texture, error) {
		return nil, lost
	}
	if _, err := exec.Run(lib, strongNodes(t), src); !errors.Is(err, lost) {
		t.Errorf("Run() = %v, want %v", err, lost)
	}
}

func TestExecutorPoolNotReady(t *testing.T) {
	lib := newTestLibrary(t, 16, 16)
	src := sourceTexture(t, brightSpotImage(16, 16, 2))
	lib.Pool().Release()
	if _, err := NewExecutor().Run(lib, strongNodes(t), src); !errors.Is(err, texture.ErrPoolNotReady) {
		t.Errorf("Run() = %v, want ErrPoolNotReady", err)
	}
}
