package pass

import (
	"math"

	"github.com/gogpu/halation/internal/texture"
)

// GrainParams are the inputs of the grain program.
type GrainParams struct {
	Size           float64 // inverse grain frequency
	Amount         float64
	Shadows        float64
	Midtones       float64
	Highlights     float64
	FilmResolution float64 // 0 flattens grain to neutral gray, 1 keeps it sharp
	Chroma         float64 // mix from luma grain toward per-channel grain
	Seed           float64
}

// Pixels more transparent than this, and pixels whose tonal weight is
// below minTonalWeight, are copied unchanged.
const (
	minGrainAlpha  = 0.001
	minTonalWeight = 0.0001
)

// tonalWeight gates grain by Rec. 709 luma l.
func (p GrainParams) tonalWeight(l float64) float64 {
	shadow := smoothstep64(0, 0.45, 0.45-l) * p.Shadows
	mid := math.Max(0, math.Min(1, 1-math.Abs(l-0.5)*2)) * p.Midtones
	high := smoothstep64(0.55, 1, l) * p.Highlights
	return math.Max(0, math.Min(1, shadow+mid+high))
}

// Grain adds procedural film grain to in and writes the result to out.
//
// The noise is 3D value noise sampled at the pixel's texel center, scaled
// to a frequency of min(40/size, shortSide/2) cycles per short side and
// shifted by a seed-dependent offset so it never aligns to the pixel
// grid. Identical inputs and params produce identical output.
func (c *Context) Grain(in *texture.Texture, p GrainParams, out *texture.Texture) error {
	if err := c.bind(ProgramGrain, out, in); err != nil {
		return err
	}

	width, height := out.Width(), out.Height()
	w, h := float64(width), float64(height)
	shortDim := math.Min(w, h)
	size := p.Size
	if !(size > 0) {
		size = 1
	}
	freq := math.Min(40/size, shortDim*0.5)
	offX := fract(math.Sin(p.Seed*12.9898) * 43758.5453)
	offY := fract(math.Cos(p.Seed*78.233) * 43758.5453)
	scaleX, scaleY := w/shortDim*freq, h/shortDim*freq
	zLuma := p.Seed * 0.01
	zR, zG, zB := p.Seed*0.02, p.Seed*0.03, p.Seed*0.04

	src, dst := in.Pix(), out.Pix()
	c.rows(height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			v := (float64(y) + 0.5) / h
			for x := range width {
				i := (y*width + x) * 4
				copy(dst[i:i+4], src[i:i+4])
				if float64(src[i+3])/255 < minGrainAlpha {
					continue
				}
				r := float64(src[i]) / 255
				g := float64(src[i+1]) / 255
				b := float64(src[i+2]) / 255
				tonal := p.tonalWeight(0.2126*r + 0.7152*g + 0.0722*b)
				if tonal < minTonalWeight {
					continue
				}

				u := (float64(x) + 0.5) / w
				sx, sy := (u+offX)*scaleX, (v+offY)*scaleY

				luma := lerp(0.5, valueNoise(sx, sy, zLuma, p.Seed), p.FilmResolution)
				gr, gg, gb := luma, luma, luma
				if p.Chroma > 0 {
					gr = lerp(luma, valueNoise(sx+0.37, sy+0.37, zR, p.Seed), p.Chroma)
					gg = lerp(luma, valueNoise(sx+1.13, sy+1.13, zG, p.Seed), p.Chroma)
					gb = lerp(luma, valueNoise(sx+2.71, sy+2.71, zB, p.Seed), p.Chroma)
				}

				k := p.Amount * tonal
				dst[i] = quantize(float32(r + (gr-0.5)*k))
				dst[i+1] = quantize(float32(g + (gg-0.5)*k))
				dst[i+2] = quantize(float32(b + (gb-0.5)*k))
			}
		}
	})
	return nil
}
