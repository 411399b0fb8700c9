package halation

import (
	"errors"
	"fmt"

	"github.com/gogpu/halation/effect"
	"github.com/gogpu/halation/internal/pass"
	"github.com/gogpu/halation/internal/texture"
)

// renderFunc is the node render contract.
type renderFunc func(lib *pass.Library, n effect.Node, in *texture.Texture, index int) (*texture.Texture, error)

// Executor threads a source texture through a node list.
type Executor struct {
	render renderFunc
}

// NewExecutor returns an executor rendering nodes with effect.Render.
func NewExecutor() *Executor {
	return &Executor{render: effect.Render}
}

// nodeState is what a node does in one frame.
type nodeState int

const (
	stateActive nodeState = iota
	stateDisabled
	stateBypassed
)

func (s nodeState) String() string {
	switch s {
	case stateDisabled:
		return "disabled"
	case stateBypassed:
		return "bypassed"
	default:
		return "active"
	}
}

func stateOf(n effect.Node) nodeState {
	switch {
	case !n.Enabled:
		return stateDisabled
	case n.Before:
		return stateBypassed
	default:
		return stateActive
	}
}

// Run renders nodes over source and returns the final texture. With no
// nodes the result is source itself.
//
// Node i always writes lib.Output(i). A disabled or bypassed node copies
// its input there unchanged. If an active node fails because one of its
// programs could not be built or is missing, the failure is logged and
// the node is copied through as if disabled; any other error aborts the
// frame.
func (e *Executor) Run(lib *pass.Library, nodes []effect.Node, source *texture.Texture) (*texture.Texture, error) {
	if err := lib.Pool().Check(); err != nil {
		return nil, fmt.Errorf("halation: render: %w", err)
	}
	ctx := lib.Context()
	cur := source
	for i, n := range nodes {
		state := stateOf(n)
		slogger().Debug("halation: node", "index", i, "kind", n.Kind(), "state", state)

		if state == stateActive {
			out, err := e.render(lib, n, cur, i)
			if err == nil {
				cur = out
				continue
			}
			if !isolated(err) {
				return nil, fmt.Errorf("halation: node %d (%v): %w", i, n.Kind(), err)
			}
			slogger().Warn("halation: node disabled after program failure",
				"index", i, "kind", n.Kind(), "err", err)
		}

		out := lib.Output(i)
		if err := ctx.Copy(cur, out); err != nil {
			return nil, fmt.Errorf("halation: node %d (%v) pass-through: %w", i, n.Kind(), err)
		}
		cur = out
	}
	return cur, nil
}

// isolated reports whether a node failure stays local to the node.
func isolated(err error) bool {
	return errors.Is(err, pass.ErrCompile) || errors.Is(err, pass.ErrProgramUnknown)
}
