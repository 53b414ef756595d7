package gfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVertexSizes(t *testing.T) {
	assert.Equal(t, 12, ShapeVertexSize)
	assert.Equal(t, 20, SpriteVertexSize)
	assert.Equal(t, ShapeVertexSize, PipelineShapes.Layout().Stride)
	assert.Equal(t, SpriteVertexSize, PipelineSprites.Layout().Stride)
}

func TestBytesRoundTrip(t *testing.T) {
	vs := []ShapeVertex{{X: 1, Y: 2, Color: 0xAABBCCDD}, {X: 3, Y: 4, Color: 7}}
	b := Bytes(vs)
	require.Len(t, b, 2*ShapeVertexSize)
	assert.Equal(t, vs, ShapeVertices(append([]byte(nil), b...)))

	idx := []uint32{0, 1, 2}
	assert.Equal(t, idx, Indices(append([]byte(nil), Bytes(idx)...)))
	assert.Nil(t, Bytes([]SpriteVertex(nil)))
}

func TestRegistryGenerations(t *testing.T) {
	var r Registry[string]
	a := r.Insert("a")
	b := r.Insert("b")
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, r.Len())

	v, ok := r.Get(a)
	require.True(t, ok)
	assert.Equal(t, "a", v)

	_, ok = r.Remove(a)
	require.True(t, ok)
	assert.False(t, r.Valid(a))

	// slot reuse bumps the generation so the stale ID stays dead
	c := r.Insert("c")
	assert.Equal(t, a.Index, c.Index)
	assert.NotEqual(t, a.Generation, c.Generation)
	assert.False(t, r.Valid(a))
	_, ok = r.Get(a)
	assert.False(t, ok)

	_, ok = r.Remove(a)
	assert.False(t, ok)
	assert.False(t, r.Valid(TextureID{}))
	assert.False(t, r.Valid(TextureID{Index: 99, Generation: 1}))

	seen := map[TextureID]string{}
	r.Each(func(id TextureID, v string) { seen[id] = v })
	assert.Equal(t, map[TextureID]string{b: "b", c: "c"}, seen)
}

func TestTextureValid(t *testing.T) {
	assert.False(t, Texture{}.Valid())
	assert.True(t, Texture{ID: TextureID{Generation: 1}, Width: 2, Height: 2}.Valid())
	assert.False(t, Texture{ID: TextureID{Generation: 1}, Width: 0, Height: 2}.Valid())
}
