package pass

import (
	"fmt"
	"image/color"
	"math"

	"github.com/gogpu/halation/internal/texture"
)

// Clear fills dst with c.
func (c *Context) Clear(dst *texture.Texture, col color.NRGBA) error {
	if c.Destroyed() {
		return fmt.Errorf("pass: clear: %w", ErrContextDestroyed)
	}
	if !live(dst) {
		return fmt.Errorf("pass: clear: %w", ErrInvalidTexture)
	}
	dst.Fill(col.R, col.G, col.B, col.A)
	return nil
}

// Present blits src onto the display surface dst through the display
// transform view, which maps source pixels to surface pixels. It is the
// composite program at amount 0 with mode Replace, so sampled colors are
// written unchanged. Samples are bilinear with clamp-to-edge; surface
// pixels that map outside src receive clear.
//
// src and dst may differ in size. With the identity view and equal sizes
// Present is an exact copy.
func (c *Context) Present(src, dst *texture.Texture, view Affine, clear color.NRGBA) error {
	if _, err := c.Program(ProgramComposite); err != nil {
		return fmt.Errorf("pass: present: %w", err)
	}
	if !live(src) || !live(dst) {
		return fmt.Errorf("pass: present: %w", ErrInvalidTexture)
	}
	if src == dst {
		return fmt.Errorf("pass: present: %q: %w", dst.Label(), ErrAliasing)
	}

	if view.IsIdentity() && src.SameSize(dst) {
		copy(dst.Pix(), src.Pix())
		return nil
	}

	inv, ok := view.Invert()
	if !ok {
		dst.Fill(clear.R, clear.G, clear.B, clear.A)
		return nil
	}

	sw, sh := src.Width(), src.Height()
	dw := dst.Width()
	dp := dst.Pix()
	c.rows(dst.Height(), func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := range dw {
				sx, sy := inv.Apply(float64(x)+0.5, float64(y)+0.5)
				i := (y*dw + x) * 4
				if sx < 0 || sy < 0 || sx >= float64(sw) || sy >= float64(sh) {
					dp[i], dp[i+1], dp[i+2], dp[i+3] = clear.R, clear.G, clear.B, clear.A
					continue
				}
				dp[i], dp[i+1], dp[i+2], dp[i+3] = sampleBilinear(src, sx-0.5, sy-0.5)
			}
		}
	})
	return nil
}

// sampleBilinear samples t at texel-space position (x, y), where integer
// coordinates are texel centers, clamping to the edge.
func sampleBilinear(t *texture.Texture, x, y float64) (r, g, b, a byte) {
	w, h := t.Width(), t.Height()
	x0f, y0f := math.Floor(x), math.Floor(y)
	fx, fy := x-x0f, y-y0f
	x0 := clampInt(int(x0f), 0, w-1)
	y0 := clampInt(int(y0f), 0, h-1)
	x1 := clampInt(int(x0f)+1, 0, w-1)
	y1 := clampInt(int(y0f)+1, 0, h-1)

	pix := t.Pix()
	p00 := pix[(y0*w+x0)*4:]
	p10 := pix[(y0*w+x1)*4:]
	p01 := pix[(y1*w+x0)*4:]
	p11 := pix[(y1*w+x1)*4:]

	var out [4]byte
	for ch := range out {
		top := lerp(float64(p00[ch]), float64(p10[ch]), fx)
		bot := lerp(float64(p01[ch]), float64(p11[ch]), fx)
		out[ch] = byte(math.Max(0, math.Min(255, lerp(top, bot, fy)+0.5)))
	}
	return out[0], out[1], out[2], out[3]
}
