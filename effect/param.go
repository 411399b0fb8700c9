package effect

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/halation/blend"
)

// Param is one setting rendered as text, as stored in presets.
type Param struct {
	Key   string
	Value string
}

// Params returns the kind-specific settings of n under their canonical
// keys, in a stable order. Common flags are not included.
func (n Node) Params() []Param {
	if n.Settings == nil {
		return nil
	}
	return n.Settings.params()
}

// Set returns a copy of n with the setting key changed to value. Keys
// match without regard to case or separators ("film_resolution" is
// "filmResolution"). The common flags enabled, before and collapsed are
// accepted for every kind.
//
// A value that does not parse fails with ErrBadValue; a value outside the
// setting's range is clamped. n itself is never modified.
func (n Node) Set(key, value string) (Node, error) {
	switch fold(key) {
	case "enabled":
		return setBool(n, key, value, func(n *Node, v bool) { n.Enabled = v })
	case "before", "bypass", "bypassed":
		return setBool(n, key, value, func(n *Node, v bool) { n.Before = v })
	case "collapsed":
		return setBool(n, key, value, func(n *Node, v bool) { n.Collapsed = v })
	}
	if n.Settings == nil {
		return n, fmt.Errorf("%w: %q on empty node", ErrUnknownParam, key)
	}
	s, err := n.Settings.set(key, value)
	if err != nil {
		return n, err
	}
	n.Settings = s.normalized()
	return n, nil
}

func setBool(n Node, key, value string, apply func(*Node, bool)) (Node, error) {
	v, err := parseBool(key, value)
	if err != nil {
		return n, err
	}
	apply(&n, v)
	return n, nil
}

func (p GlowParams) set(key, value string) (GlowParams, bool, error) {
	var err error
	switch fold(key) {
	case "amount":
		p.Amount, err = parseFloat(key, value)
	case "radius":
		p.Radius, err = parseFloat(key, value)
	case "threshold":
		p.Threshold, err = parseFloat(key, value)
	case "color", "tint":
		p.Color = strings.TrimSpace(value)
	case "iterations":
		p.Iterations, err = parseInt(key, value)
	default:
		return p, false, nil
	}
	return p, true, err
}

func (p GlowParams) params() []Param {
	return []Param{
		{"amount", formatFloat(p.Amount)},
		{"radius", formatFloat(p.Radius)},
		{"threshold", formatFloat(p.Threshold)},
		{"color", p.Color},
		{"iterations", strconv.Itoa(p.Iterations)},
	}
}

func (h Halation) set(key, value string) (Settings, error) {
	p, ok, err := h.GlowParams.set(key, value)
	if !ok {
		return h, fmt.Errorf("%w: %s has no %q", ErrUnknownParam, KindHalation, key)
	}
	if err != nil {
		return h, err
	}
	h.GlowParams = p
	return h, nil
}

func (h Halation) params() []Param {
	return h.GlowParams.params()
}

func (g Glow) set(key, value string) (Settings, error) {
	switch fold(key) {
	case "blendmode", "blend", "mode":
		g.BlendMode = blend.ParseLabel(value)
		return g, nil
	case "resolveaccurate", "resolvemode", "resolve":
		v, err := parseBool(key, value)
		if err != nil {
			return g, err
		}
		g.ResolveAccurate = v
		return g, nil
	}
	p, ok, err := g.GlowParams.set(key, value)
	if !ok {
		return g, fmt.Errorf("%w: %s has no %q", ErrUnknownParam, KindGlow, key)
	}
	if err != nil {
		return g, err
	}
	g.GlowParams = p
	return g, nil
}

func (g Glow) params() []Param {
	return append(g.GlowParams.params(),
		Param{"blendMode", g.BlendMode.Label()},
		Param{"resolveAccurate", strconv.FormatBool(g.ResolveAccurate)},
	)
}

func (g Grain) set(key, value string) (Settings, error) {
	var (
		field *float64
		err   error
	)
	switch fold(key) {
	case "size":
		field = &g.Size
	case "amount":
		field = &g.Amount
	case "shadows":
		field = &g.Shadows
	case "midtones":
		field = &g.Midtones
	case "highlights":
		field = &g.Highlights
	case "filmresolution":
		field = &g.FilmResolution
	case "chroma":
		field = &g.Chroma
	case "seed":
		g.Seed, err = parseInt(key, value)
		return g, err
	default:
		return g, fmt.Errorf("%w: %s has no %q", ErrUnknownParam, KindGrain, key)
	}
	*field, err = parseFloat(key, value)
	return g, err
}

func (g Grain) params() []Param {
	return []Param{
		{"size", formatFloat(g.Size)},
		{"amount", formatFloat(g.Amount)},
		{"shadows", formatFloat(g.Shadows)},
		{"midtones", formatFloat(g.Midtones)},
		{"highlights", formatFloat(g.Highlights)},
		{"filmResolution", formatFloat(g.FilmResolution)},
		{"chroma", formatFloat(g.Chroma)},
		{"seed", strconv.Itoa(g.Seed)},
	}
}

func parseFloat(key, value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrBadValue, key, value)
	}
	return v, nil
}

// parseInt accepts integral and fractional text, rounding the latter;
// slider values arrive as "2" or "2.0" alike.
func parseInt(key, value string) (int, error) {
	v, err := parseFloat(key, value)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s=%q", ErrBadValue, key, value)
	}
	return int(math.Round(v)), nil
}

func parseBool(key, value string) (bool, error) {
	switch fold(value) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", ErrBadValue, key, value)
	}
	return v, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
