package effect

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Kind identifies the variant of an effect node.
type Kind int

const (
	// KindHalation is red-orange bloom around highlights, added on top.
	KindHalation Kind = iota
	// KindGlow is a tinted bloom with a selectable blend mode.
	KindGlow
	// KindGrain is procedural film grain.
	KindGrain
)

var kindNames = [...]string{
	KindHalation: "Halation",
	KindGlow:     "Glow",
	KindGrain:    "Grain",
}

// Kinds returns every node kind.
func Kinds() []Kind {
	return []Kind{KindHalation, KindGlow, KindGrain}
}

// String returns the display name of the kind.
func (k Kind) String() string {
	if k < KindHalation || k > KindGrain {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a kind name, matched without regard to case, to its Kind.
func ParseKind(name string) (Kind, error) {
	key := fold(name)
	for i, n := range kindNames {
		if key == fold(n) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// fold normalizes names and parameter keys: case folded, with spaces,
// underscores and hyphens removed, so "film_resolution" matches
// "filmResolution".
func fold(s string) string {
	s = cases.Fold().String(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}
