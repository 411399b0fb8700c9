package effect

import (
	"fmt"

	"github.com/gogpu/halation/blend"
	"github.com/gogpu/halation/internal/pass"
	"github.com/gogpu/halation/internal/texture"
)

// Render runs the node's effect on in and returns the texture holding the
// result, which is always lib.Output(index). The node is normalized
// first. Render writes only the scratch targets of the pool and that
// output; in is never written.
//
// Render does not look at the Common flags: the executor decides whether
// a node is active.
func Render(lib *pass.Library, n Node, in *texture.Texture, index int) (*texture.Texture, error) {
	n = n.Normalize()
	switch s := n.Settings.(type) {
	case Halation:
		return renderGlowFamily(lib, s.GlowParams, blend.Add, in, index)
	case Glow:
		return renderGlowFamily(lib, s.GlowParams, s.Mode(), in, index)
	case Grain:
		out := lib.Output(index)
		if err := lib.Context().Grain(in, s.passParams(), out); err != nil {
			return nil, fmt.Errorf("effect: grain: %w", err)
		}
		return out, nil
	case nil:
		return nil, fmt.Errorf("%w: node without settings", ErrUnknownKind)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownKind, s)
	}
}

// renderGlowFamily is the chain shared by Halation and Glow: isolate the
// bright regions, spread them, colorize and blend back onto in.
func renderGlowFamily(lib *pass.Library, p GlowParams, mode blend.Mode, in *texture.Texture, index int) (*texture.Texture, error) {
	ctx := lib.Context()
	mask := lib.Target(texture.Mask)
	tinted := lib.Target(texture.Tinted)
	out := lib.Output(index)

	if err := ctx.Mask(in, float32(p.Threshold), mask); err != nil {
		return nil, fmt.Errorf("effect: mask: %w", err)
	}
	blurred, err := ctx.SeparableBlur(mask, lib.Target(texture.Tmp), lib.Target(texture.Blur), float32(p.Radius), p.Iterations)
	if err != nil {
		return nil, fmt.Errorf("effect: blur: %w", err)
	}
	if err := ctx.Tint(blurred, p.Tint(), tinted); err != nil {
		return nil, fmt.Errorf("effect: tint: %w", err)
	}
	if err := ctx.Composite(in, tinted, float32(p.Amount), mode, out); err != nil {
		return nil, fmt.Errorf("effect: composite: %w", err)
	}
	return out, nil
}

func (g Grain) passParams() pass.GrainParams {
	return pass.GrainParams{
		Size:           g.Size,
		Amount:         g.Amount,
		Shadows:        g.Shadows,
		Midtones:       g.Midtones,
		Highlights:     g.Highlights,
		FilmResolution: g.FilmResolution,
		Chroma:         g.Chroma,
		Seed:           float64(g.Seed),
	}
}
