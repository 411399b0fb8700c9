package blend

import "github.com/chewxy/math32"

// RGB is a non-premultiplied color with float32 channels.
type RGB struct {
	R, G, B float32
}

// Gray returns an RGB with all channels set to v.
func Gray(v float32) RGB {
	return RGB{R: v, G: v, B: v}
}

// Blend combines base (a) and effect (b) with the given mode.
// Undefined modes behave as Replace.
func Blend(mode Mode, base, effect RGB) RGB {
	switch mode {
	case Screen:
		return perChannel(base, effect, screen)
	case Add:
		return RGB{R: base.R + effect.R, G: base.G + effect.G, B: base.B + effect.B}
	case Multiply:
		return RGB{R: base.R * effect.R, G: base.G * effect.G, B: base.B * effect.B}
	case OverlayFast:
		return overlayFast(base, effect)
	case SoftLightFast:
		return softLightFast(base, effect)
	case OverlayResolve:
		return perChannel(base, effect, overlayChannel)
	case SoftLightResolve:
		return perChannel(base, effect, softLightChannel)
	default:
		return effect
	}
}

// Compose mixes base toward blended by amount. Amounts in [0, 1] are a
// linear mix; amounts above 1 extrapolate past blended, over-driving the
// effect. Negative amounts are treated as 0. The result is not clamped.
func Compose(base, blended RGB, amount float32) RGB {
	if amount > 1 {
		return RGB{
			R: base.R + (blended.R-base.R)*amount,
			G: base.G + (blended.G-base.G)*amount,
			B: base.B + (blended.B-base.B)*amount,
		}
	}
	t := clamp01(amount)
	return RGB{
		R: mix(base.R, blended.R, t),
		G: mix(base.G, blended.G, t),
		B: mix(base.B, blended.B, t),
	}
}

// Apply is Compose(base, Blend(mode, base, effect), amount).
func Apply(mode Mode, base, effect RGB, amount float32) RGB {
	return Compose(base, Blend(mode, base, effect), amount)
}

func perChannel(a, b RGB, fn func(a, b float32) float32) RGB {
	return RGB{R: fn(a.R, b.R), G: fn(a.G, b.G), B: fn(a.B, b.B)}
}

func screen(a, b float32) float32 {
	return 1 - (1-a)*(1-b)
}

// overlayChannel is the exact overlay formula for one channel.
func overlayChannel(a, b float32) float32 {
	if a < 0.5 {
		return 2 * a * b
	}
	return 1 - 2*(1-a)*(1-b)
}

// softLightChannel is the exact soft light formula for one channel,
// keyed on the effect value b.
func softLightChannel(a, b float32) float32 {
	if b < 0.5 {
		return a - (1-2*b)*a*(1-a)
	}
	var d float32
	if a < 0.25 {
		d = ((16*a-12)*a + 4) * a
	} else {
		d = math32.Sqrt(a)
	}
	return a + (2*b-1)*(d-a)
}

// overlayFast evaluates both overlay branches for the whole vector and
// selects one of them for all three channels with a unit step on the
// base luma, mix(dark, light, step(0.5, luma(a))). Channels whose own
// value lies on the other side of 0.5 get the other branch's formula,
// which is where it departs from OverlayResolve.
func overlayFast(a, b RGB) RGB {
	t := step(0.5, luma(a))
	return RGB{
		R: mix(2*a.R*b.R, 1-2*(1-a.R)*(1-b.R), t),
		G: mix(2*a.G*b.G, 1-2*(1-a.G)*(1-b.G), t),
		B: mix(2*a.B*b.B, 1-2*(1-a.B)*(1-b.B), t),
	}
}

// softLightFast picks one soft light branch for the whole vector with a
// unit step on the effect luma and always uses sqrt(a) in the light
// branch, skipping the a < 0.25 polynomial of SoftLightResolve.
func softLightFast(a, b RGB) RGB {
	t := step(0.5, luma(b))
	return RGB{
		R: softLightFastChannel(a.R, b.R, t),
		G: softLightFastChannel(a.G, b.G, t),
		B: softLightFastChannel(a.B, b.B, t),
	}
}

func softLightFastChannel(a, b, t float32) float32 {
	dark := a - (1-2*b)*a*(1-a)
	light := a + (2*b-1)*(math32.Sqrt(a)-a)
	return mix(dark, light, t)
}

// Luma returns the Rec. 601 luma of c.
func Luma(c RGB) float32 {
	return luma(c)
}

func luma(c RGB) float32 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}

func mix(x, y, t float32) float32 {
	return x*(1-t) + y*t
}

// step returns 0 when x < edge, else 1.
func step(edge, x float32) float32 {
	if x < edge {
		return 0
	}
	return 1
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
