// Package blend implements the per-channel color blend arithmetic used by
// the composite pass.
//
// Colors are non-premultiplied RGB triples in [0, 1]. Nothing in this
// package clamps: out-of-range intermediate values (Add, over-driven
// amounts) are clamped by the pass that writes them to a texture.
package blend

import (
	"strings"

	"golang.org/x/text/cases"
)

// Mode selects the blend formula applied by the composite pass.
// The numeric values are the mode indices of the composite program.
type Mode int

const (
	// Replace returns the effect color.
	Replace Mode = iota
	// Screen is 1 - (1-a)(1-b).
	Screen
	// Add is a + b, unclamped.
	Add
	// OverlayFast is the whole-vector overlay approximation.
	OverlayFast
	// SoftLightFast is the whole-vector soft light approximation.
	SoftLightFast
	// Multiply is a * b.
	Multiply
	// OverlayResolve is the per-channel exact overlay.
	OverlayResolve
	// SoftLightResolve is the per-channel exact soft light.
	SoftLightResolve
)

// modeLabels holds the human-readable label of every mode, in mode order.
var modeLabels = [...]string{
	Replace:          "Normal",
	Screen:           "Screen",
	Add:              "Add",
	OverlayFast:      "Overlay (Fast)",
	SoftLightFast:    "SoftLight (Fast)",
	Multiply:         "Multiply",
	OverlayResolve:   "Overlay (Resolve)",
	SoftLightResolve: "SoftLight (Resolve)",
}

var modeNames = [...]string{
	Replace:          "Replace",
	Screen:           "Screen",
	Add:              "Add",
	OverlayFast:      "OverlayFast",
	SoftLightFast:    "SoftLightFast",
	Multiply:         "Multiply",
	OverlayResolve:   "OverlayResolve",
	SoftLightResolve: "SoftLightResolve",
}

// Modes returns every mode in index order.
func Modes() []Mode {
	return []Mode{Replace, Screen, Add, OverlayFast, SoftLightFast, Multiply, OverlayResolve, SoftLightResolve}
}

// IsValid reports whether m is one of the defined modes.
func (m Mode) IsValid() bool {
	return m >= Replace && m <= SoftLightResolve
}

// IsResolve reports whether m is one of the exact per-channel variants.
func (m Mode) IsResolve() bool {
	return m == OverlayResolve || m == SoftLightResolve
}

// String returns the Go-style name of the mode.
func (m Mode) String() string {
	if !m.IsValid() {
		return "Unknown"
	}
	return modeNames[m]
}

// Label returns the label shown to users, e.g. "Overlay (Fast)".
func (m Mode) Label() string {
	if !m.IsValid() {
		return modeLabels[Screen]
	}
	return modeLabels[m]
}

// Labels returns all user-facing labels in mode order.
func Labels() []string {
	out := make([]string, len(modeLabels))
	copy(out, modeLabels[:])
	return out
}

// ParseLabel maps a label to its mode. Matching ignores case and
// surrounding whitespace and accepts both the user-facing label and the
// Go-style name. The mapping is total: an unrecognized label yields Screen.
func ParseLabel(label string) Mode {
	key := foldLabel(label)
	if key == "" {
		return Screen
	}
	for i := range modeLabels {
		if key == foldLabel(modeLabels[i]) || key == foldLabel(modeNames[i]) {
			return Mode(i)
		}
	}
	return Screen
}

// foldLabel normalizes a label for comparison.
func foldLabel(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
