package halation

import (
	"math"

	"github.com/gogpu/halation/internal/pass"
)

// Zoom limits of a View.
const (
	MinZoom = 1.0 / 16
	MaxZoom = 64.0
)

// View is the display transform applied when the final image is presented:
// a canvas point p appears on the surface at p*Scale + (X, Y). It never
// affects the pipeline result or exports.
//
// The zero value is the identity view.
type View struct {
	X, Y  float64
	Scale float64 // 0 means 1
}

// IdentityView returns the identity view.
func IdentityView() View {
	return View{Scale: 1}
}

func (v View) scale() float64 {
	if v.Scale == 0 || math.IsNaN(v.Scale) {
		return 1
	}
	return v.Scale
}

// Pan returns v moved by (dx, dy) surface pixels.
func (v View) Pan(dx, dy float64) View {
	v.Scale = v.scale()
	v.X += dx
	v.Y += dy
	return v
}

// Zoom returns v scaled by factor around the surface point (cx, cy),
// which stays fixed on screen. The resulting scale is limited to
// [MinZoom, MaxZoom]; a non-positive factor leaves v unchanged.
func (v View) Zoom(factor, cx, cy float64) View {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return v
	}
	s := v.scale()
	next := math.Max(MinZoom, math.Min(MaxZoom, s*factor))
	f := next / s
	return View{
		X:     f*(v.X-cx) + cx,
		Y:     f*(v.Y-cy) + cy,
		Scale: next,
	}
}

// IsIdentity reports whether v leaves the image in place.
func (v View) IsIdentity() bool {
	return v.X == 0 && v.Y == 0 && v.scale() == 1
}

// Map returns where the canvas point (x, y) appears on the surface.
func (v View) Map(x, y float64) (float64, float64) {
	return v.affine().Apply(x, y)
}

func (v View) affine() pass.Affine {
	s := v.scale()
	return pass.Affine{A: s, C: v.X, E: s, F: v.Y}
}
