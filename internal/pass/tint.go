package pass

import (
	"github.com/chewxy/math32"
	"github.com/gogpu/halation/blend"
	"github.com/gogpu/halation/internal/texture"
)

// tintFalloff softens the edge of the blurred mask.
const tintFalloff = 0.9

// Tint colorizes a mask: out = color * pow(mask.r, 0.9), alpha 1.
func (c *Context) Tint(mask *texture.Texture, color blend.RGB, out *texture.Texture) error {
	if err := c.bind(ProgramTint, out, mask); err != nil {
		return err
	}

	// The mask has 256 possible values; precompute the tinted result.
	var lut [256][3]byte
	for v := range lut {
		k := math32.Pow(unorm(byte(v)), tintFalloff)
		lut[v] = [3]byte{quantize(color.R * k), quantize(color.G * k), quantize(color.B * k)}
	}

	src, dst := mask.Pix(), out.Pix()
	stride := out.Stride()
	c.rows(out.Height(), func(y0, y1 int) {
		for i := y0 * stride; i < y1*stride; i += 4 {
			t := lut[src[i]]
			dst[i], dst[i+1], dst[i+2], dst[i+3] = t[0], t[1], t[2], 255
		}
	})
	return nil
}
