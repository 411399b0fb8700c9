package pass

import (
	"github.com/gogpu/halation/blend"
	"github.com/gogpu/halation/internal/texture"
)

// Composite blends effect onto base and writes the result to out:
// blend.Compose(base, blend.Blend(mode, base, effect), amount), clamped to
// [0, 1] at write. Alpha is taken from base.
//
// With amount 0 the output is a bit-exact copy of base for every mode;
// the executor uses this as its pass-through copy.
func (c *Context) Composite(base, effect *texture.Texture, amount float32, mode blend.Mode, out *texture.Texture) error {
	if err := c.bind(ProgramComposite, out, base, effect); err != nil {
		return err
	}
	bp, ep, dst := base.Pix(), effect.Pix(), out.Pix()
	stride := out.Stride()

	if !(amount > 0) {
		c.rows(out.Height(), func(y0, y1 int) {
			copy(dst[y0*stride:y1*stride], bp[y0*stride:y1*stride])
		})
		return nil
	}

	c.rows(out.Height(), func(y0, y1 int) {
		for i := y0 * stride; i < y1*stride; i += 4 {
			a := blend.RGB{R: unorm(bp[i]), G: unorm(bp[i+1]), B: unorm(bp[i+2])}
			b := blend.RGB{R: unorm(ep[i]), G: unorm(ep[i+1]), B: unorm(ep[i+2])}
			o := blend.Apply(mode, a, b, amount)
			dst[i], dst[i+1], dst[i+2], dst[i+3] = quantize(o.R), quantize(o.G), quantize(o.B), bp[i+3]
		}
	})
	return nil
}

// Copy is Composite(src, src, 0, Replace, out).
func (c *Context) Copy(src, out *texture.Texture) error {
	return c.Composite(src, src, 0, blend.Replace, out)
}
