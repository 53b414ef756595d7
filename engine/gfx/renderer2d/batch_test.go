package renderer2d

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/grove2d/engine/geom"
	"github.com/hubastard/grove2d/engine/gfx"
)

const white = 0xFFFFFFFF

func TestShapeBatchRectangle(t *testing.T) {
	sb := NewShapeBatch(DefaultOptions())
	require.NoError(t, sb.AddRectangle(geom.Rect(10, 10, 20, 30), white))

	want := []gfx.ShapeVertex{
		{X: 10, Y: 10, Color: white},
		{X: 30, Y: 10, Color: white},
		{X: 30, Y: 40, Color: white},
		{X: 10, Y: 40, Color: white},
	}
	assert.Equal(t, want, sb.Vertices())
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, sb.Indices())
}

func TestShapeBatchDegenerateLine(t *testing.T) {
	sb := NewShapeBatch(DefaultOptions())
	require.NoError(t, sb.AddLine(geom.V2(5, 5), geom.V2(5, 5), 2, white))
	assert.True(t, sb.IsEmpty())
	assert.Empty(t, sb.Vertices())
}

func fillShapes(t *testing.T, sb *ShapeBatch) {
	t.Helper()
	c := geom.V2(50, 50)
	require.NoError(t, sb.AddRectangle(geom.Rect(0, 0, 10, 10), white))
	require.NoError(t, sb.AddRectangleLines(geom.Rect(5, 5, -20, 8), white))
	require.NoError(t, sb.AddCircle(c, 12, white))
	require.NoError(t, sb.AddCircleLines(c, 20, white))
	require.NoError(t, sb.AddLine(geom.V2(0, 0), geom.V2(100, 3), 4, white))
	require.NoError(t, sb.AddTriangle(geom.V2(0, 0), geom.V2(0, 10), geom.V2(10, 0), white))
	require.NoError(t, sb.AddTriangleLines(geom.V2(0, 0), geom.V2(10, 0), geom.V2(0, 10), white))
	require.NoError(t, sb.AddPolygon(c, 6, 15, 30, white))
	require.NoError(t, sb.AddPolygonLines(c, 5, 15, 0, white))
	require.NoError(t, sb.AddPolygon(c, 2, 15, 0, white))
}

func TestShapeBatchIndexBoundsAndWinding(t *testing.T) {
	sb := NewShapeBatch(DefaultOptions())
	fillShapes(t, sb)

	vs, is := sb.Vertices(), sb.Indices()
	require.NotEmpty(t, is)
	require.Zero(t, len(is)%3)
	for i := 0; i < len(is); i += 3 {
		for _, ix := range is[i : i+3] {
			require.Less(t, int(ix), len(vs))
		}
		a, b, c := vs[is[i]], vs[is[i+1]], vs[is[i+2]]
		area := geom.SignedArea2(geom.V2(a.X, a.Y), geom.V2(b.X, b.Y), geom.V2(c.X, c.Y))
		assert.GreaterOrEqual(t, area, float32(0), "triangle %d", i/3)
	}
}

func TestShapeBatchClearKeepsCapacity(t *testing.T) {
	sb := NewShapeBatch(DefaultOptions())
	fillShapes(t, sb)
	c := cap(sb.Vertices())

	sb.Clear()
	assert.True(t, sb.IsEmpty())
	assert.Equal(t, c, cap(sb.Vertices()))
}

func TestShapeBatchLimitRollsBack(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxVertices = 8
	sb := NewShapeBatch(opts)

	require.NoError(t, sb.AddRectangle(geom.Rect(0, 0, 1, 1), white))
	require.NoError(t, sb.AddRectangle(geom.Rect(2, 2, 1, 1), white))
	before := append([]gfx.ShapeVertex(nil), sb.Vertices()...)

	err := sb.AddRectangle(geom.Rect(4, 4, 1, 1), white)
	assert.ErrorIs(t, err, gfx.ErrAllocationFailure)
	err = sb.AddCircle(geom.V2(0, 0), 3, white)
	assert.ErrorIs(t, err, gfx.ErrAllocationFailure)

	assert.Equal(t, before, sb.Vertices())
	assert.Len(t, sb.Indices(), 12)
}

func quadAt(x float32) [4]gfx.SpriteVertex {
	return [4]gfx.SpriteVertex{{X: x}, {X: x + 1}, {X: x + 1, Y: 1}, {X: x, Y: 1}}
}

var (
	texA = gfx.TextureID{Index: 0, Generation: 1}
	texB = gfx.TextureID{Index: 1, Generation: 1}
)

func TestSpriteBatchOrder(t *testing.T) {
	sb := NewSpriteBatch(DefaultOptions(), nil)
	require.NoError(t, sb.AddSprite(texA, quadAt(0)))
	require.NoError(t, sb.AddSprite(texB, quadAt(10)))
	require.NoError(t, sb.AddSprite(texA, quadAt(20)))

	subs := sb.BuildBatches(nil)
	require.Len(t, subs, 2)

	assert.Equal(t, texA, subs[0].Texture)
	assert.Equal(t, 2, subs[0].Sprites())
	q1, q3 := quadAt(0), quadAt(20)
	assert.Equal(t, append(q1[:], q3[:]...), subs[0].Geometry.Vertices)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3, 4, 5, 6, 4, 6, 7}, subs[0].Geometry.Indices)

	assert.Equal(t, texB, subs[1].Texture)
	q2 := quadAt(10)
	assert.Equal(t, q2[:], subs[1].Geometry.Vertices)
}

func TestSpriteBatchGrouping(t *testing.T) {
	sb := NewSpriteBatch(DefaultOptions(), nil)
	for i := 0; i < 8; i++ {
		tex := texA
		if i%2 == 1 {
			tex = texB
		}
		require.NoError(t, sb.AddSprite(tex, quadAt(float32(i))))
	}

	subs := sb.BuildBatches(nil)
	require.Len(t, subs, 2)
	for k, s := range subs {
		require.Equal(t, 4, s.Sprites())
		for j := 0; j < 4; j++ {
			// stable: the j-th sprite of the group is draw call 2j+k
			assert.Equal(t, float32(2*j+k), s.Geometry.Vertices[4*j].X)
		}
	}
}

func TestSpriteBatchRejects(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxVertices = 8
	sb := NewSpriteBatch(opts, nil)

	assert.ErrorIs(t, sb.AddSprite(gfx.TextureID{}, quadAt(0)), gfx.ErrInvalidTexture)
	require.NoError(t, sb.AddSprite(texA, quadAt(0)))
	require.NoError(t, sb.AddSprite(texA, quadAt(1)))
	assert.ErrorIs(t, sb.AddSprite(texA, quadAt(2)), gfx.ErrAllocationFailure)
	assert.Equal(t, 2, sb.Len())
}

func TestSpriteBatchSkipsInvalid(t *testing.T) {
	sb := NewSpriteBatch(DefaultOptions(), nil)
	require.NoError(t, sb.AddSprite(texA, quadAt(0)))
	require.NoError(t, sb.AddSprite(texB, quadAt(1)))
	require.NoError(t, sb.AddSprite(texA, quadAt(2)))

	subs := sb.BuildBatches(func(id gfx.TextureID) bool { return id != texA })
	require.Len(t, subs, 1)
	assert.Equal(t, texB, subs[0].Texture)
	assert.Equal(t, 2, sb.Skipped())
}

func TestSpriteBatchReuse(t *testing.T) {
	sb := NewSpriteBatch(DefaultOptions(), nil)
	require.NoError(t, sb.AddSprite(texA, quadAt(0)))
	first := sb.BuildBatches(nil)[0]

	sb.Clear()
	assert.True(t, sb.IsEmpty())
	require.NoError(t, sb.AddSprite(texB, quadAt(1)))
	require.NoError(t, sb.AddSprite(texA, quadAt(2)))
	subs := sb.BuildBatches(nil)
	require.Len(t, subs, 2)
	assert.Equal(t, texB, subs[0].Texture, "order follows this frame's first use")
	assert.Same(t, first, subs[1])
	assert.Equal(t, 1, subs[1].Sprites())

	// building twice is idempotent
	again := sb.BuildBatches(nil)
	require.Len(t, again, 2)
	assert.Equal(t, 1, again[1].Sprites())

	sb.Forget(texA)
	sb.Clear()
	require.NoError(t, sb.AddSprite(texA, quadAt(3)))
	assert.NotSame(t, first, sb.BuildBatches(nil)[0])
}

func TestSubTexture(t *testing.T) {
	tex := gfx.Texture{ID: texA, Width: 64, Height: 32}
	sub := FromGrid(tex, 1, 1, 16, 16)
	assert.Equal(t, geom.Rect(16, 16, 16, 16), sub.Source)

	u0, v0, u1, v1 := sub.UV()
	assert.InDelta(t, 0.25, u0, 1e-6)
	assert.InDelta(t, 0.5, v0, 1e-6)
	assert.InDelta(t, 0.5, u1, 1e-6)
	assert.InDelta(t, 1.0, v1, 1e-6)
}
