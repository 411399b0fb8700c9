package halation

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/halation/effect"
)

// Errors returned by the pipeline and the controller.
var (
	// ErrIndexOutOfRange is returned by commands that name a node index
	// the pipeline does not have.
	ErrIndexOutOfRange = errors.New("halation: node index out of range")

	// ErrRenderInProgress is returned by Render while another render holds
	// the controller.
	ErrRenderInProgress = errors.New("halation: render already in progress")

	// ErrNoSource is returned by Export before an image is loaded.
	ErrNoSource = errors.New("halation: no source image")

	// ErrClosed is returned by every Controller method after Close.
	ErrClosed = errors.New("halation: controller closed")
)

// Pipeline is the ordered list of effect nodes and the display view.
//
// A Pipeline changes only through Apply. Every change replaces the node
// slice, so a slice returned by Nodes stays valid and unchanged.
type Pipeline struct {
	nodes []effect.Node
	view  View
}

// NewPipeline returns a pipeline holding nodes, normalized.
func NewPipeline(nodes ...effect.Node) *Pipeline {
	p := &Pipeline{}
	// ReplaceNodes only fails on a node without settings; drop those.
	nodes = slices.DeleteFunc(slices.Clone(nodes), func(n effect.Node) bool { return n.Settings == nil })
	_ = p.Apply(ReplaceNodes{Nodes: nodes})
	return p
}

// DefaultNodes returns the default chain: Halation, Glow, Grain.
func DefaultNodes() []effect.Node {
	nodes := make([]effect.Node, 0, 3)
	for _, k := range []effect.Kind{effect.KindHalation, effect.KindGlow, effect.KindGrain} {
		n, _ := effect.Defaults(k)
		nodes = append(nodes, n)
	}
	return nodes
}

// DefaultPipeline returns a pipeline holding DefaultNodes.
func DefaultPipeline() *Pipeline {
	return NewPipeline(DefaultNodes()...)
}

// Apply is the single update function of the pipeline. A failed command
// leaves the pipeline unchanged.
func (p *Pipeline) Apply(cmd Command) error {
	if cmd == nil {
		return errors.New("halation: nil command")
	}
	next := *p
	if err := cmd.apply(&next); err != nil {
		return fmt.Errorf("halation: %T: %w", cmd, err)
	}
	*p = next
	return nil
}

// Nodes returns the current node list. The caller must not modify it.
func (p *Pipeline) Nodes() []effect.Node {
	return p.nodes
}

// Len returns the number of nodes.
func (p *Pipeline) Len() int {
	return len(p.nodes)
}

// Node returns the node at index.
func (p *Pipeline) Node(index int) (effect.Node, error) {
	if err := p.checkIndex(index); err != nil {
		return effect.Node{}, err
	}
	return p.nodes[index], nil
}

// View returns the display view.
func (p *Pipeline) View() View {
	return p.view
}

func (p *Pipeline) checkIndex(index int) error {
	if index < 0 || index >= len(p.nodes) {
		return fmt.Errorf("%w: %d (have %d nodes)", ErrIndexOutOfRange, index, len(p.nodes))
	}
	return nil
}

func (p *Pipeline) cloneNodes() []effect.Node {
	return slices.Clone(p.nodes)
}

// update replaces the node at index with fn's result.
func (p *Pipeline) update(index int, fn func(effect.Node) (effect.Node, error)) error {
	if err := p.checkIndex(index); err != nil {
		return err
	}
	n, err := fn(p.nodes[index])
	if err != nil {
		return err
	}
	nodes := p.cloneNodes()
	nodes[index] = n
	p.nodes = nodes
	return nil
}
