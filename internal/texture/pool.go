// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"fmt"
)

// Key names one texture of the pool.
type Key string

// Pool keys. OutA and OutB form the ping-pong arena; the others are
// scratch targets of the glow-family passes.
const (
	Mask   Key = "mask"
	Tmp    Key = "tmp"
	Blur   Key = "blur"
	Tinted Key = "tinted"
	OutA   Key = "outA"
	OutB   Key = "outB"
)

// Keys returns the fixed key set of every pool, in allocation order.
func Keys() []Key {
	return []Key{Mask, Tmp, Blur, Tinted, OutA, OutB}
}

// Pool owns the fixed set of same-sized render targets.
//
// Invariant: either the pool holds exactly one texture per key, all with
// the same dimensions, or it holds none (not ready). Resize replaces the
// whole set at once; nothing outside the pool may retain or destroy a
// pool texture.
//
// A Pool is not safe for concurrent use; callers serialize Resize with
// rendering.
type Pool struct {
	alloc    Allocator
	width    int
	height   int
	textures map[Key]*Texture
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithAllocator sets the allocator used for pool textures.
func WithAllocator(a Allocator) PoolOption {
	return func(p *Pool) {
		if a != nil {
			p.alloc = a
		}
	}
}

// NewPool creates an empty pool. Call Resize before use.
func NewPool(opts ...PoolOption) *Pool {
	p := &Pool{alloc: HeapAllocator{}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resize destroys the current textures and allocates a new set of
// width x height targets.
//
// The rebuild is all-or-nothing: if any allocation fails the textures
// created so far are destroyed, the pool is left empty and the error,
// wrapping ErrAllocation, is returned. Stale-sized textures never survive
// a Resize call, successful or not.
func (p *Pool) Resize(width, height int) error {
	p.Release()

	next := make(map[Key]*Texture, len(Keys()))
	for _, key := range Keys() {
		t, err := p.alloc.Allocate(Descriptor{Label: string(key), Width: width, Height: height})
		if err != nil {
			for _, created := range next {
				created.Destroy()
			}
			return fmt.Errorf("texture: pool resize to %dx%d: %w", width, height, err)
		}
		next[key] = t
	}

	p.textures = next
	p.width, p.height = width, height
	return nil
}

// Release destroys every pool texture and leaves the pool not ready.
func (p *Pool) Release() {
	for _, t := range p.textures {
		t.Destroy()
	}
	p.textures = nil
	p.width, p.height = 0, 0
}

// Ready reports whether the pool holds a complete texture set.
func (p *Pool) Ready() bool {
	return len(p.textures) == len(Keys())
}

// Size returns the common dimensions of the pool textures, or (0, 0)
// when the pool is not ready.
func (p *Pool) Size() (int, int) {
	return p.width, p.height
}

// Get returns the texture for key, or nil when the pool is not ready.
func (p *Pool) Get(key Key) *Texture {
	return p.textures[key]
}

// Output returns the ping-pong target of the node at index: OutA for even
// indices, OutB for odd ones.
//
// The choice depends only on index parity, never on which target happens
// to be free. A node at index i reads the output of node i-1, which has
// the other parity, so a node that writes to Output(i) never writes the
// texture it reads.
func (p *Pool) Output(index int) *Texture {
	if index%2 == 0 {
		return p.textures[OutA]
	}
	return p.textures[OutB]
}

// Check returns ErrPoolNotReady when the pool cannot serve a render.
func (p *Pool) Check() error {
	if !p.Ready() {
		return ErrPoolNotReady
	}
	return nil
}
