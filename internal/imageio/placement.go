package imageio

import (
	"image"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/transform"
)

// Placement returns where an imgW x imgH image is drawn on a canvasW x
// canvasH canvas: scaled to fit, aspect preserved, centered. The fitted
// side spans the canvas; the other is rounded, as is the centering
// offset, with halves rounding up.
func Placement(imgW, imgH, canvasW, canvasH int) image.Rectangle {
	if imgW <= 0 || imgH <= 0 || canvasW <= 0 || canvasH <= 0 {
		return image.Rectangle{}
	}
	ia := float64(imgW) / float64(imgH)
	ca := float64(canvasW) / float64(canvasH)

	var dx, dy, dw, dh int
	if ia > ca {
		dw = canvasW
		dh = roundHalfUp(float64(canvasW) / ia)
		dy = roundHalfUp(float64(canvasH-dh) / 2)
	} else {
		dh = canvasH
		dw = roundHalfUp(float64(canvasH) * ia)
		dx = roundHalfUp(float64(canvasW-dw) / 2)
	}
	return image.Rect(dx, dy, dx+dw, dy+dh)
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Letterbox draws img scaled into its Placement on a transparent canvas
// and returns the canvas with the placement rectangle. Pixels outside the
// rectangle are transparent, so effects gated by alpha leave them alone.
func Letterbox(img image.Image, canvasW, canvasH int) (*image.NRGBA, image.Rectangle) {
	canvas := image.NewNRGBA(image.Rect(0, 0, canvasW, canvasH))
	b := img.Bounds()
	rect := Placement(b.Dx(), b.Dy(), canvasW, canvasH)
	if rect.Empty() {
		return canvas, rect
	}

	var scaled image.Image = img
	if rect.Dx() != b.Dx() || rect.Dy() != b.Dy() {
		scaled = transform.Resize(img, rect.Dx(), rect.Dy(), transform.Linear)
	}
	draw.Draw(canvas, rect, scaled, scaled.Bounds().Min, draw.Src)
	return canvas, rect
}

// Crop returns a copy of the part of img inside r. The copy's bounds
// start at (0, 0).
func Crop(img *image.NRGBA, r image.Rectangle) *image.NRGBA {
	r = r.Intersect(img.Bounds())
	out := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := range r.Dy() {
		src := img.PixOffset(r.Min.X, r.Min.Y+y)
		copy(out.Pix[y*out.Stride:y*out.Stride+r.Dx()*4], img.Pix[src:src+r.Dx()*4])
	}
	return out
}
