package effect

import (
	"math"
	"strings"

	"github.com/gogpu/halation/blend"
	"github.com/lucasb-eyer/go-colorful"
)

// Range is the closed interval a numeric setting is clamped to.
type Range struct {
	Min, Max float64
}

// Clamp returns v limited to r. NaN yields def.
func (r Range) Clamp(v, def float64) float64 {
	if math.IsNaN(v) {
		return def
	}
	return math.Max(r.Min, math.Min(r.Max, v))
}

// Setting ranges.
var (
	AmountRange     = Range{0, 2}
	RadiusRange     = Range{0, 200}
	ThresholdRange  = Range{0.5, 0.99}
	IterationsRange = Range{1, 4}
	SizeRange       = Range{0.2, 4}
	UnitRange       = Range{0, 1}
	SeedRange       = Range{0, 1000}
)

// Default tint colors.
const (
	DefaultHalationColor = "#ff8b6b"
	DefaultGlowColor     = "#ffd4b2"
)

// GlowParams are the settings of the glow-family chain
// mask -> blur -> tint -> composite shared by Halation and Glow.
type GlowParams struct {
	Amount     float64 // composite strength; above 1 over-drives
	Radius     float64 // blur radius in pixels
	Threshold  float64 // mask cutoff on luma
	Color      string  // tint as #rrggbb
	Iterations int     // blur iterations
}

func (p GlowParams) normalized(def GlowParams) GlowParams {
	return GlowParams{
		Amount:     AmountRange.Clamp(p.Amount, def.Amount),
		Radius:     RadiusRange.Clamp(p.Radius, def.Radius),
		Threshold:  ThresholdRange.Clamp(p.Threshold, def.Threshold),
		Color:      normalizeHex(p.Color, def.Color),
		Iterations: int(IterationsRange.Clamp(float64(p.Iterations), float64(def.Iterations))),
	}
}

// Tint returns the decoded tint color. An invalid hex string decodes to
// white; Normalize replaces such strings with the kind's default first.
func (p GlowParams) Tint() blend.RGB {
	c, ok := parseHex(p.Color)
	if !ok {
		return blend.Gray(1)
	}
	return blend.RGB{R: float32(c.R), G: float32(c.G), B: float32(c.B)}
}

// Halation is a warm bloom around highlights, always added on top of the
// image.
type Halation struct {
	GlowParams
}

// DefaultHalation returns the default halation settings.
func DefaultHalation() Halation {
	return Halation{GlowParams{
		Amount:     0.6,
		Radius:     40,
		Threshold:  0.85,
		Color:      DefaultHalationColor,
		Iterations: 2,
	}}
}

// Kind implements Settings.
func (Halation) Kind() Kind { return KindHalation }

func (h Halation) normalized() Settings {
	return Halation{h.GlowParams.normalized(DefaultHalation().GlowParams)}
}

// Glow is a tinted bloom composited with a selectable blend mode.
type Glow struct {
	GlowParams
	BlendMode blend.Mode
	// ResolveAccurate unlocks the exact per-channel Overlay and SoftLight
	// modes. With it off those modes fall back to Screen.
	ResolveAccurate bool
}

// DefaultGlow returns the default glow settings. Its amount is 0, so a
// fresh glow node is visually inert until turned up.
func DefaultGlow() Glow {
	return Glow{
		GlowParams: GlowParams{
			Amount:     0,
			Radius:     40,
			Threshold:  0.9,
			Color:      DefaultGlowColor,
			Iterations: 2,
		},
		BlendMode: blend.Screen,
	}
}

// Kind implements Settings.
func (Glow) Kind() Kind { return KindGlow }

func (g Glow) normalized() Settings {
	g.GlowParams = g.GlowParams.normalized(DefaultGlow().GlowParams)
	if !g.BlendMode.IsValid() {
		g.BlendMode = blend.Screen
	}
	return g
}

// Mode returns the blend mode the glow composites with.
func (g Glow) Mode() blend.Mode {
	return EffectiveMode(g.BlendMode, g.ResolveAccurate)
}

// EffectiveMode gates the exact modes behind the resolve toggle: a
// Resolve mode selected while resolve is off, or an undefined mode,
// composites as Screen.
func EffectiveMode(mode blend.Mode, resolve bool) blend.Mode {
	if !mode.IsValid() || (mode.IsResolve() && !resolve) {
		return blend.Screen
	}
	return mode
}

// Grain is procedural film grain gated by tone.
type Grain struct {
	Size           float64
	Amount         float64
	Shadows        float64
	Midtones       float64
	Highlights     float64
	FilmResolution float64
	Chroma         float64
	Seed           int
}

// DefaultGrain returns the default grain settings with the given seed.
func DefaultGrain(seed int) Grain {
	return Grain{
		Size:           1,
		Amount:         0.4,
		Shadows:        0.6,
		Midtones:       0.8,
		Highlights:     0.3,
		FilmResolution: 1,
		Chroma:         0.5,
		Seed:           seed,
	}
}

// Kind implements Settings.
func (Grain) Kind() Kind { return KindGrain }

func (g Grain) normalized() Settings {
	def := DefaultGrain(0)
	return Grain{
		Size:           SizeRange.Clamp(g.Size, def.Size),
		Amount:         AmountRange.Clamp(g.Amount, def.Amount),
		Shadows:        UnitRange.Clamp(g.Shadows, def.Shadows),
		Midtones:       UnitRange.Clamp(g.Midtones, def.Midtones),
		Highlights:     UnitRange.Clamp(g.Highlights, def.Highlights),
		FilmResolution: UnitRange.Clamp(g.FilmResolution, def.FilmResolution),
		Chroma:         UnitRange.Clamp(g.Chroma, def.Chroma),
		Seed:           int(SeedRange.Clamp(float64(g.Seed), 0)),
	}
}

// normalizeHex returns s as lowercase #rrggbb, or def when s is not a
// 3- or 6-digit hex color.
func normalizeHex(s, def string) string {
	c, ok := parseHex(s)
	if !ok {
		return def
	}
	return c.Hex()
}

func parseHex(s string) (colorful.Color, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return colorful.Color{}, false
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return colorful.Color{}, false
		}
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}
