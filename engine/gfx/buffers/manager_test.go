package buffers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/grove2d/engine/gfx"
	"github.com/hubastard/grove2d/engine/gfx/headless"
)

func TestEnsureCapacityFloors(t *testing.T) {
	dev := headless.NewDevice(100, 100)
	m := New(dev, gfx.ShapeVertexSize, DefaultOptions())

	require.NoError(t, m.EnsureCapacity(4, 6))
	assert.Equal(t, DefaultMinVertices, m.VertexCapacity())
	assert.Equal(t, DefaultMinIndices, m.IndexCapacity())
	assert.Equal(t, DefaultMinVertices*gfx.ShapeVertexSize, m.Vertices().Size())
	assert.Equal(t, 2, m.Reallocations())

	// fits: no reallocation
	require.NoError(t, m.EnsureCapacity(1024, 4096))
	assert.Equal(t, 2, m.Reallocations())
}

func TestEnsureCapacityGrowth(t *testing.T) {
	dev := headless.NewDevice(100, 100)
	m := New(dev, gfx.ShapeVertexSize, DefaultOptions())
	require.NoError(t, m.EnsureCapacity(1, 1))

	old := m.Vertices()
	require.NoError(t, m.EnsureCapacity(1025, 1))
	assert.Equal(t, 2048, m.VertexCapacity(), "doubles the previous capacity")
	assert.NotSame(t, old, m.Vertices())
	assert.Equal(t, 2, dev.LiveBuffers(), "stale buffer released")

	require.NoError(t, m.EnsureCapacity(10000, 1))
	assert.Equal(t, 10000, m.VertexCapacity(), "required size wins over doubling")
}

func TestGrowthAmortized(t *testing.T) {
	dev := headless.NewDevice(100, 100)
	m := New(dev, gfx.ShapeVertexSize, DefaultOptions())

	// simulate a batch growing one quad at a time
	for n := 1; n <= 100000; n++ {
		require.NoError(t, m.EnsureCapacity(4*n, 6*n))
	}
	// log2(400000/1024) + log2(600000/4096) + 2 initial allocations ~ 19
	assert.LessOrEqual(t, m.Reallocations(), 24)
}

func TestUpload(t *testing.T) {
	dev := headless.NewDevice(100, 100)
	m := New(dev, gfx.ShapeVertexSize, DefaultOptions())

	verts := []gfx.ShapeVertex{{X: 1, Y: 2, Color: 3}, {X: 4, Y: 5, Color: 6}, {X: 7, Y: 8, Color: 9}}
	idx := []uint32{0, 1, 2}
	assert.Error(t, m.Upload(gfx.Bytes(verts), idx), "upload before ensure")

	require.NoError(t, m.EnsureCapacity(len(verts), len(idx)))
	require.NoError(t, m.Upload(gfx.Bytes(verts), idx))

	require.NoError(t, dev.Submit(gfx.DrawCall{
		Pipeline:   gfx.PipelineShapes,
		Vertices:   m.Vertices(),
		Indices:    m.Indices(),
		IndexCount: 3,
	}))
	require.Len(t, dev.Submissions, 1)
	assert.Equal(t, verts, dev.Submissions[0].ShapeVertices)
	assert.Equal(t, idx, dev.Submissions[0].Indices)
}

func TestUploadTooLarge(t *testing.T) {
	dev := headless.NewDevice(100, 100)
	m := New(dev, gfx.ShapeVertexSize, DefaultOptions())
	require.NoError(t, m.EnsureCapacity(1, 1))
	big := make([]gfx.ShapeVertex, DefaultMinVertices+1)
	assert.Error(t, m.Upload(gfx.Bytes(big), nil))
}

func TestAllocationFailure(t *testing.T) {
	dev := headless.NewDevice(100, 100)
	dev.MaxBufferSize = 64 * 1024
	m := New(dev, gfx.ShapeVertexSize, DefaultOptions())
	require.NoError(t, m.EnsureCapacity(10, 10))

	err := m.EnsureCapacity(100000, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, gfx.ErrAllocationFailure)
}

func TestRelease(t *testing.T) {
	dev := headless.NewDevice(100, 100)
	m := New(dev, gfx.SpriteVertexSize, Options{})
	require.NoError(t, m.EnsureCapacity(1, 1))
	assert.Equal(t, 2, dev.LiveBuffers())
	m.Release()
	assert.Zero(t, dev.LiveBuffers())
	assert.Nil(t, m.Vertices())
	assert.Zero(t, m.VertexCapacity())

	require.NoError(t, m.EnsureCapacity(1, 1))
	assert.Equal(t, DefaultMinVertices, m.VertexCapacity())
}
