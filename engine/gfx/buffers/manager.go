// Package buffers owns the GPU-visible vertex/index buffer pair behind a batch.
package buffers

import (
	"fmt"

	"github.com/hubastard/grove2d/engine/gfx"
	"github.com/hubastard/grove2d/engine/logging"
)

const (
	DefaultGrowthFactor = 2
	DefaultMinVertices  = 1024
	DefaultMinIndices   = 4096
)

// Options are the growth tunables, sized in elements.
type Options struct {
	GrowthFactor int `yaml:"growth_factor"`
	MinVertices  int `yaml:"min_vertices"`
	MinIndices   int `yaml:"min_indices"`
}

func DefaultOptions() Options {
	return Options{
		GrowthFactor: DefaultGrowthFactor,
		MinVertices:  DefaultMinVertices,
		MinIndices:   DefaultMinIndices,
	}
}

func (o Options) withDefaults() Options {
	if o.GrowthFactor < 2 {
		o.GrowthFactor = DefaultGrowthFactor
	}
	if o.MinVertices <= 0 {
		o.MinVertices = DefaultMinVertices
	}
	if o.MinIndices <= 0 {
		o.MinIndices = DefaultMinIndices
	}
	return o
}

// Manager holds one vertex buffer and one index buffer and regrows them
// geometrically. A Buffer returned by Vertices or Indices is invalid after
// the next EnsureCapacity that reallocates.
type Manager struct {
	dev        gfx.Device
	vertexSize int
	opts       Options

	vbuf, ibuf gfx.Buffer
	vcap, icap int

	reallocs int
}

// New creates a manager for vertices of vertexSize bytes. No buffers are
// allocated until EnsureCapacity.
func New(dev gfx.Device, vertexSize int, opts Options) *Manager {
	return &Manager{dev: dev, vertexSize: vertexSize, opts: opts.withDefaults()}
}

func grow(prev, floor, required, factor int) int {
	return max(prev*factor, floor, required)
}

// EnsureCapacity makes both buffers hold at least the given element counts.
// Undersized buffers are released and replaced by new ones sized
// max(growth × previous, floor, required).
func (m *Manager) EnsureCapacity(vertices, indices int) error {
	if m.vbuf == nil || m.vcap < vertices {
		n := grow(m.vcap, m.opts.MinVertices, vertices, m.opts.GrowthFactor)
		m.releaseVertices()
		b, err := m.dev.NewBuffer(gfx.VertexBuffer, n*m.vertexSize)
		if err != nil {
			return fmt.Errorf("%w: vertex buffer of %d vertices: %w", gfx.ErrAllocationFailure, n, err)
		}
		m.vbuf, m.vcap = b, n
		m.reallocs++
		logging.Logger().Debug("vertex buffer allocated", "vertices", n, "bytes", n*m.vertexSize)
	}
	if m.ibuf == nil || m.icap < indices {
		n := grow(m.icap, m.opts.MinIndices, indices, m.opts.GrowthFactor)
		m.releaseIndices()
		b, err := m.dev.NewBuffer(gfx.IndexBuffer, n*gfx.IndexSize)
		if err != nil {
			return fmt.Errorf("%w: index buffer of %d indices: %w", gfx.ErrAllocationFailure, n, err)
		}
		m.ibuf, m.icap = b, n
		m.reallocs++
		logging.Logger().Debug("index buffer allocated", "indices", n, "bytes", n*gfx.IndexSize)
	}
	return nil
}

// Upload copies this frame's geometry into the buffers at offset 0.
func (m *Manager) Upload(vertexBytes []byte, indices []uint32) error {
	if m.vbuf == nil || m.ibuf == nil {
		return fmt.Errorf("buffers: upload before EnsureCapacity")
	}
	if len(vertexBytes) > m.vbuf.Size() || len(indices)*gfx.IndexSize > m.ibuf.Size() {
		return fmt.Errorf("buffers: upload of %d vertex bytes / %d indices exceeds capacity %d / %d",
			len(vertexBytes), len(indices), m.vcap, m.icap)
	}
	if err := m.vbuf.Write(0, vertexBytes); err != nil {
		return fmt.Errorf("upload vertices: %w", err)
	}
	if err := m.ibuf.Write(0, gfx.Bytes(indices)); err != nil {
		return fmt.Errorf("upload indices: %w", err)
	}
	return nil
}

func (m *Manager) Vertices() gfx.Buffer { return m.vbuf }
func (m *Manager) Indices() gfx.Buffer  { return m.ibuf }

// VertexCapacity and IndexCapacity are in elements.
func (m *Manager) VertexCapacity() int { return m.vcap }
func (m *Manager) IndexCapacity() int  { return m.icap }

// Reallocations counts buffer allocations over the manager's lifetime.
func (m *Manager) Reallocations() int { return m.reallocs }

// Release frees both buffers. The manager can be reused afterwards.
func (m *Manager) Release() {
	m.releaseVertices()
	m.releaseIndices()
	m.vcap, m.icap = 0, 0
}

func (m *Manager) releaseVertices() {
	if m.vbuf != nil {
		m.vbuf.Release()
		m.vbuf = nil
	}
}

func (m *Manager) releaseIndices() {
	if m.ibuf != nil {
		m.ibuf.Release()
		m.ibuf = nil
	}
}
