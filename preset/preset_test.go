package preset

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/halation/blend"
	"github.com/gogpu/halation/effect"
)

func sampleNodes(t *testing.T) []effect.Node {
	t.Helper()
	h := effect.New(effect.Halation{GlowParams: effect.GlowParams{
		Amount: 1.25, Radius: 12, Threshold: 0.7, Color: "#abcdef", Iterations: 3,
	}})
	g := effect.New(effect.Glow{
		GlowParams:      effect.DefaultGlow().GlowParams,
		BlendMode:       blend.SoftLightResolve,
		ResolveAccurate: true,
	})
	g.Before = true
	g.Collapsed = true
	n := effect.New(effect.DefaultGrain(321))
	n.Enabled = false
	return []effect.Node{h, g, n}
}

func TestRoundTrip(t *testing.T) {
	nodes := sampleNodes(t)
	var buf bytes.Buffer
	if err := Encode(&buf, nodes); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v\n%s", err, buf.String())
	}
	if len(got) != len(nodes) {
		t.Fatalf("decoded %d nodes, want %d", len(got), len(nodes))
	}
	for i := range nodes {
		if got[i] != nodes[i] {
			t.Errorf("node %d = %+v, want %+v", i, got[i], nodes[i])
		}
	}
}

func TestEncodeLayout(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, sampleNodes(t)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"version: 1",
		"kind: halation",
		"kind: glow",
		"kind: grain",
		`blendMode: "SoftLight (Resolve)"`,
		"enabled: false",
		"before: true",
		`seed: "321"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("encoded preset lacks %q:\n%s", want, out)
		}
	}
	// Settings keep their canonical order.
	if strings.Index(out, "amount:") > strings.Index(out, "radius:") {
		t.Errorf("params out of order:\n%s", out)
	}
}

func TestDecodeDefaultsAndClamping(t *testing.T) {
	src := `
version: 1
nodes:
  - kind: Halation
  - kind: glow
    params:
      amount: 9
      blend_mode: add
      film_resolution_typo: 1
`
	_, err := Decode(strings.NewReader(src))
	if !errors.Is(err, effect.ErrUnknownParam) {
		t.Fatalf("unknown param err = %v, want ErrUnknownParam", err)
	}

	src = strings.Replace(src, "      film_resolution_typo: 1\n", "", 1)
	nodes, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 2 {
		t.Fatalf("len = %d, want 2", len(nodes))
	}
	if h := nodes[0].Settings.(effect.Halation); h != effect.DefaultHalation() {
		t.Errorf("halation = %+v, want defaults", h)
	}
	if !nodes[0].Enabled || !nodes[1].Enabled {
		t.Error("nodes without an enabled key are disabled")
	}
	g := nodes[1].Settings.(effect.Glow)
	if g.Amount != effect.AmountRange.Max || g.BlendMode != blend.Add {
		t.Errorf("glow = %+v, want amount clamped and mode Add", g)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"empty", "", ErrInvalid},
		{"newer version", "version: 2\nnodes: []\n", ErrVersion},
		{"unknown kind", "version: 1\nnodes:\n  - kind: sparkle\n", effect.ErrUnknownKind},
		{"bad value", "version: 1\nnodes:\n  - kind: grain\n    params:\n      size: big\n", effect.ErrBadValue},
		{"params list", "version: 1\nnodes:\n  - kind: grain\n    params: [1, 2]\n", ErrInvalid},
		{"nested value", "version: 1\nnodes:\n  - kind: grain\n    params:\n      size: {a: 1}\n", ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Decode(strings.NewReader("version: 1\nlayers: []\n")); err == nil {
		t.Error("unknown top-level field accepted")
	}
}

func TestEncodeRejectsEmptyNode(t *testing.T) {
	if err := Encode(&bytes.Buffer{}, []effect.Node{{}}); !errors.Is(err, effect.ErrUnknownKind) {
		t.Errorf("Encode(empty node) = %v, want ErrUnknownKind", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "look.yaml")
	nodes := sampleNodes(t)
	if err := Save(path, nodes); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[2] != nodes[2] {
		t.Errorf("Load() = %+v", got)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}
