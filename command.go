package halation

import (
	"github.com/gogpu/halation/effect"
)

// Command is an immutable change to a Pipeline. UI events and presets
// produce commands; Pipeline.Apply is the only place state changes.
type Command interface {
	apply(p *Pipeline) error
}

// AddNode appends a node of Kind with default settings.
type AddNode struct {
	Kind effect.Kind
}

// RemoveNode deletes the node at Index; later nodes shift down.
type RemoveNode struct {
	Index int
}

// MoveNode moves the node at Index by Delta positions. Delta -1 and +1
// swap it with its neighbor. A move past either end of the list is a
// no-op.
type MoveNode struct {
	Index int
	Delta int
}

// SetEnabled turns the node at Index on or off.
type SetEnabled struct {
	Index   int
	Enabled bool
}

// SetBypass sets the before/after toggle of the node at Index.
type SetBypass struct {
	Index  int
	Before bool
}

// SetCollapsed sets the presentation-only collapsed flag.
type SetCollapsed struct {
	Index     int
	Collapsed bool
}

// SetParam sets one setting of the node at Index from text, as a slider
// or a preset would. Out-of-range values are clamped.
type SetParam struct {
	Index int
	Key   string
	Value string
}

// ReplaceNodes replaces the whole node list, e.g. when loading a preset.
type ReplaceNodes struct {
	Nodes []effect.Node
}

// SetView changes the display transform.
type SetView struct {
	View View
}

func (c AddNode) apply(p *Pipeline) error {
	n, err := effect.Defaults(c.Kind)
	if err != nil {
		return err
	}
	p.nodes = append(p.cloneNodes(), n)
	return nil
}

func (c RemoveNode) apply(p *Pipeline) error {
	if err := p.checkIndex(c.Index); err != nil {
		return err
	}
	nodes := p.cloneNodes()
	p.nodes = append(nodes[:c.Index], nodes[c.Index+1:]...)
	return nil
}

func (c MoveNode) apply(p *Pipeline) error {
	if err := p.checkIndex(c.Index); err != nil {
		return err
	}
	to := c.Index + c.Delta
	if c.Delta == 0 || to < 0 || to >= len(p.nodes) {
		return nil
	}
	nodes := p.cloneNodes()
	n := nodes[c.Index]
	if to > c.Index {
		copy(nodes[c.Index:to], nodes[c.Index+1:to+1])
	} else {
		copy(nodes[to+1:c.Index+1], nodes[to:c.Index])
	}
	nodes[to] = n
	p.nodes = nodes
	return nil
}

func (c SetEnabled) apply(p *Pipeline) error {
	return p.update(c.Index, func(n effect.Node) (effect.Node, error) {
		n.Enabled = c.Enabled
		return n, nil
	})
}

func (c SetBypass) apply(p *Pipeline) error {
	return p.update(c.Index, func(n effect.Node) (effect.Node, error) {
		n.Before = c.Before
		return n, nil
	})
}

func (c SetCollapsed) apply(p *Pipeline) error {
	return p.update(c.Index, func(n effect.Node) (effect.Node, error) {
		n.Collapsed = c.Collapsed
		return n, nil
	})
}

func (c SetParam) apply(p *Pipeline) error {
	return p.update(c.Index, func(n effect.Node) (effect.Node, error) {
		return n.Set(c.Key, c.Value)
	})
}

func (c ReplaceNodes) apply(p *Pipeline) error {
	nodes := make([]effect.Node, 0, len(c.Nodes))
	for _, n := range c.Nodes {
		if n.Settings == nil {
			return effect.ErrUnknownKind
		}
		nodes = append(nodes, n.Normalize())
	}
	p.nodes = nodes
	return nil
}

func (c SetView) apply(p *Pipeline) error {
	p.view = c.View
	return nil
}
