package geometry

import "github.com/hubastard/grove2d/engine/gfx"

// Batch is a growable triangle list. Every index is smaller than
// len(Vertices) and len(Indices) is a multiple of 3.
type Batch[V any] struct {
	Vertices []V
	Indices  []uint32
}

type (
	Shapes  = Batch[gfx.ShapeVertex]
	Sprites = Batch[gfx.SpriteVertex]
)

// Mark is a saved batch length, used to undo a partial append.
type Mark struct {
	vertices, indices int
}

// Reset empties the batch and keeps its capacity.
func (b *Batch[V]) Reset() {
	b.Vertices = b.Vertices[:0]
	b.Indices = b.Indices[:0]
}

func (b *Batch[V]) IsEmpty() bool { return len(b.Indices) == 0 }

func (b *Batch[V]) VertexCount() int { return len(b.Vertices) }
func (b *Batch[V]) IndexCount() int  { return len(b.Indices) }

func (b *Batch[V]) Mark() Mark { return Mark{len(b.Vertices), len(b.Indices)} }

// Rollback truncates the batch back to m.
func (b *Batch[V]) Rollback(m Mark) {
	b.Vertices = b.Vertices[:m.vertices]
	b.Indices = b.Indices[:m.indices]
}

func (b *Batch[V]) base() uint32 { return uint32(len(b.Vertices)) }

// quad appends the two triangles of a 4-vertex quad starting at base.
func (b *Batch[V]) quad(base uint32) {
	b.Indices = append(b.Indices,
		base+0, base+1, base+2,
		base+0, base+2, base+3,
	)
}
