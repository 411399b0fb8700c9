package pass

import (
	"github.com/gogpu/halation/internal/texture"
)

// Library is the handle effect nodes render with: the render context and
// the texture pool whose targets they write.
type Library struct {
	ctx  *Context
	pool *texture.Pool
}

// NewLibrary binds a context and a pool.
func NewLibrary(ctx *Context, pool *texture.Pool) *Library {
	return &Library{ctx: ctx, pool: pool}
}

// Context returns the render context.
func (l *Library) Context() *Context { return l.ctx }

// Pool returns the texture pool.
func (l *Library) Pool() *texture.Pool { return l.pool }

// Target returns the pool texture for key.
func (l *Library) Target(key texture.Key) *texture.Texture { return l.pool.Get(key) }

// Output returns the ping-pong target of the node at index.
func (l *Library) Output(index int) *texture.Texture { return l.pool.Output(index) }
