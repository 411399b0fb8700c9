package pass

import (
	"github.com/gogpu/halation/internal/texture"
)

// Mask writes the bright-region mask of in into out:
// smoothstep(threshold, 1, luma) in RGB using Rec. 601 luma, alpha 1.
func (c *Context) Mask(in *texture.Texture, threshold float32, out *texture.Texture) error {
	if err := c.bind(ProgramMask, out, in); err != nil {
		return err
	}
	src, dst := in.Pix(), out.Pix()
	stride := out.Stride()
	c.rows(out.Height(), func(y0, y1 int) {
		for i := y0 * stride; i < y1*stride; i += 4 {
			l := 0.299*unorm(src[i]) + 0.587*unorm(src[i+1]) + 0.114*unorm(src[i+2])
			m := quantize(smoothstep(threshold, 1, l))
			dst[i], dst[i+1], dst[i+2], dst[i+3] = m, m, m, 255
		}
	})
	return nil
}
