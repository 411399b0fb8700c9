package pass

import (
	"strings"
	"testing"
)

func TestBuiltinShaderSources(t *testing.T) {
	sources := BuiltinSources()
	if len(sources) != len(builtinOrder) {
		t.Fatalf("BuiltinSources() has %d entries, want %d", len(sources), len(builtinOrder))
	}
	for _, name := range builtinOrder {
		src := sources[name]
		if src == "" {
			t.Errorf("%s: empty source", name)
			continue
		}
		for _, want := range []string{"@vertex", "@fragment", "fn vs_main", "fn fs_main", "var<uniform> params"} {
			if !strings.Contains(src, want) {
				t.Errorf("%s: source missing %q", name, want)
			}
		}
	}
}

func TestCompositeShaderHasAllModes(t *testing.T) {
	for _, want := range []string{
		"BLEND_REPLACE: u32 = 0u",
		"BLEND_SCREEN: u32 = 1u",
		"BLEND_ADD: u32 = 2u",
		"BLEND_OVERLAY_FAST: u32 = 3u",
		"BLEND_SOFT_LIGHT_FAST: u32 = 4u",
		"BLEND_MULTIPLY: u32 = 5u",
		"BLEND_OVERLAY_RESOLVE: u32 = 6u",
		"BLEND_SOFT_LIGHT_RESOLVE: u32 = 7u",
		"base.a",
	} {
		if !strings.Contains(compositeShaderSource, want) {
			t.Errorf("composite shader missing %q", want)
		}
	}
}

func TestGrainShaderConstants(t *testing.T) {
	for _, want := range []string{"43758.5453", "127.1, 311.7, 74.7", "0.2126, 0.7152, 0.0722", "40.0 / params.size"} {
		if !strings.Contains(grainShaderSource, want) {
			t.Errorf("grain shader missing %q", want)
		}
	}
}
