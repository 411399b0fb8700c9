package pass

import (
	"github.com/chewxy/math32"
	"github.com/gogpu/halation/internal/texture"
)

// blurTaps is the fixed tap count of one blur direction, offsets -4..4.
const blurTaps = 9

// blurShrink scales the radius after each iteration.
const blurShrink = 0.6

// blurKernel returns the normalized 9-tap Gaussian weights for radius,
// with sigma = max(1, radius/3).
func blurKernel(radius float32) [blurTaps]float32 {
	sigma := math32.Max(1, radius/3)
	var w [blurTaps]float32
	var sum float32
	for i := range w {
		t := float32(i - blurTaps/2)
		w[i] = math32.Exp(-(t * t) / (2 * sigma * sigma))
		sum += w[i]
	}
	for i := range w {
		w[i] /= sum
	}
	return w
}

// SeparableBlur blurs in into out using scratch for the horizontal
// result. Each iteration runs a horizontal pass into scratch and a
// vertical pass into out; the first iteration reads in, later ones read
// out. The radius shrinks by 0.6 after every iteration and iterations
// below 1 run once. Alpha is written as 1. It returns out.
//
// The result is a cheap multi-pass approximation of a wide blur, not an
// exact Gaussian of the initial radius.
func (c *Context) SeparableBlur(in, scratch, out *texture.Texture, radius float32, iterations int) (*texture.Texture, error) {
	if err := c.bind(ProgramBlur, out, in, scratch); err != nil {
		return nil, err
	}
	if err := c.bind(ProgramBlur, scratch, in); err != nil {
		return nil, err
	}
	if iterations < 1 {
		iterations = 1
	}
	if radius < 0 {
		radius = 0
	}

	src := in
	for i := range iterations {
		w := blurKernel(radius)
		c.blurPass(src, scratch, w, true)
		c.blurPass(scratch, out, w, false)
		slogger().Debug("pass: blur iteration", "iteration", i, "radius", radius)
		src = out
		radius *= blurShrink
	}
	return out, nil
}

// blurPass runs one direction of the blur with clamp-to-edge sampling.
func (c *Context) blurPass(src, dst *texture.Texture, w [blurTaps]float32, horizontal bool) {
	width, height := dst.Width(), dst.Height()
	sp, dp := src.Pix(), dst.Pix()
	c.rows(height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := range width {
				var r, g, b float32
				for k, wk := range w {
					t := k - blurTaps/2
					sx, sy := x, y
					if horizontal {
						sx = clampInt(x+t, 0, width-1)
					} else {
						sy = clampInt(y+t, 0, height-1)
					}
					j := (sy*width + sx) * 4
					r += wk * unorm(sp[j])
					g += wk * unorm(sp[j+1])
					b += wk * unorm(sp[j+2])
				}
				i := (y*width + x) * 4
				dp[i], dp[i+1], dp[i+2], dp[i+3] = quantize(r), quantize(g), quantize(b), 255
			}
		}
	})
}
