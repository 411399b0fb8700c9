// Package effect defines the effect nodes of a halation pipeline.
//
// A Node is a closed sum type: Common flags shared by every node plus
// exactly one of the Halation, Glow or Grain settings. Operations over
// nodes (Defaults, Render, Node.Set) dispatch on the variant with a type
// switch; there is no open registry.
//
// Settings values are plain structs. Updating a node returns a new Node
// and never mutates the original, so a pipeline can be replaced
// wholesale by its update function.
package effect

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// Errors returned by node operations.
var (
	// ErrUnknownKind is returned for a kind name that is not a node kind.
	ErrUnknownKind = errors.New("effect: unknown node kind")

	// ErrUnknownParam is returned by Node.Set for a key the kind lacks.
	ErrUnknownParam = errors.New("effect: unknown parameter")

	// ErrBadValue is returned by Node.Set for a value that cannot be
	// parsed. Parsable but out-of-range values are clamped instead.
	ErrBadValue = errors.New("effect: unparsable parameter value")
)

// Common holds the flags shared by every node.
type Common struct {
	// Enabled false makes the node a pass-through.
	Enabled bool
	// Before shows the node's input instead of its output (A/B bypass).
	Before bool
	// Collapsed is a presentation flag with no effect on rendering.
	Collapsed bool
}

// Settings is the variant part of a Node. It is implemented only by
// Halation, Glow and Grain.
type Settings interface {
	// Kind returns the variant's kind.
	Kind() Kind

	normalized() Settings
	set(key, value string) (Settings, error)
	params() []Param
}

// Node is one stage of a pipeline. Its position in the pipeline is its
// index; nodes carry no identity of their own.
type Node struct {
	Common
	Settings Settings
}

// Kind returns the kind of the node's settings, or -1 for a node
// without settings.
func (n Node) Kind() Kind {
	if n.Settings == nil {
		return -1
	}
	return n.Settings.Kind()
}

// Active reports whether the node renders its effect, i.e. it is enabled
// and not bypassed.
func (n Node) Active() bool {
	return n.Enabled && !n.Before
}

// Normalize returns n with every setting clamped to its range.
func (n Node) Normalize() Node {
	if n.Settings != nil {
		n.Settings = n.Settings.normalized()
	}
	return n
}

// New returns an enabled node with the given settings, normalized.
func New(s Settings) Node {
	return Node{Common: Common{Enabled: true}, Settings: s}.Normalize()
}

// Defaults returns a new node of kind with its default settings.
// Grain nodes get a random seed in [0, 1000).
func Defaults(kind Kind) (Node, error) {
	switch kind {
	case KindHalation:
		return New(DefaultHalation()), nil
	case KindGlow:
		n := New(DefaultGlow())
		n.Collapsed = true
		return n, nil
	case KindGrain:
		return New(DefaultGrain(rand.IntN(1000))), nil
	default:
		return Node{}, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}
}
