package pass

import "github.com/chewxy/math32"

// Pixel helpers shared by the kernels. Textures store non-premultiplied
// RGBA8; kernels work in float32 and write back with clamp and rounding,
// the way an RGBA8 render target quantizes a fragment.

func unorm(b byte) float32 {
	return float32(b) / 255
}

func quantize(v float32) byte {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}

// smoothstep is the GLSL/WGSL smoothstep. A degenerate edge pair acts as
// a step at e1.
func smoothstep(e0, e1, x float32) float32 {
	if e1 <= e0 {
		if x < e1 {
			return 0
		}
		return 1
	}
	t := clamp01((x - e0) / (e1 - e0))
	return t * t * (3 - 2*t)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
