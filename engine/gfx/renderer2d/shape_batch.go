package renderer2d

import (
	"fmt"

	"github.com/hubastard/grove2d/engine/geom"
	"github.com/hubastard/grove2d/engine/gfx"
	"github.com/hubastard/grove2d/engine/gfx/buffers"
	"github.com/hubastard/grove2d/engine/gfx/geometry"
)

// ShapeBatch accumulates untextured geometry for one submission. Colors are
// packed (see colors.Color.Packed).
type ShapeBatch struct {
	b           geometry.Shapes
	segments    int
	thickness   float32
	maxVertices int
}

func NewShapeBatch(opts Options) *ShapeBatch {
	opts = opts.withDefaults()
	return &ShapeBatch{
		segments:    opts.CircleSegments,
		thickness:   opts.OutlineThickness,
		maxVertices: opts.MaxVertices,
	}
}

// commit undoes everything appended since m if the batch went over its
// vertex limit, so a failed draw never leaves half a primitive behind.
func (sb *ShapeBatch) commit(m geometry.Mark) error {
	if len(sb.b.Vertices) > sb.maxVertices {
		sb.b.Rollback(m)
		return fmt.Errorf("%w: shape batch is limited to %d vertices", gfx.ErrAllocationFailure, sb.maxVertices)
	}
	return nil
}

func (sb *ShapeBatch) AddRectangle(r geom.Rectangle, color uint32) error {
	m := sb.b.Mark()
	geometry.Rect(&sb.b, r, color)
	return sb.commit(m)
}

func (sb *ShapeBatch) AddRectangleLines(r geom.Rectangle, color uint32) error {
	return sb.AddRectangleLinesEx(r, sb.thickness, color)
}

func (sb *ShapeBatch) AddRectangleLinesEx(r geom.Rectangle, thickness float32, color uint32) error {
	m := sb.b.Mark()
	geometry.RectLines(&sb.b, r, thickness, color)
	return sb.commit(m)
}

func (sb *ShapeBatch) AddCircle(center geom.Vector2, radius float32, color uint32) error {
	m := sb.b.Mark()
	geometry.Circle(&sb.b, center, radius, sb.segments, color)
	return sb.commit(m)
}

func (sb *ShapeBatch) AddCircleLines(center geom.Vector2, radius float32, color uint32) error {
	m := sb.b.Mark()
	geometry.CircleLines(&sb.b, center, radius, sb.thickness, sb.segments, color)
	return sb.commit(m)
}

func (sb *ShapeBatch) AddLine(start, end geom.Vector2, thickness float32, color uint32) error {
	m := sb.b.Mark()
	geometry.Line(&sb.b, start, end, thickness, color)
	return sb.commit(m)
}

func (sb *ShapeBatch) AddTriangle(v1, v2, v3 geom.Vector2, color uint32) error {
	m := sb.b.Mark()
	geometry.Triangle(&sb.b, v1, v2, v3, color)
	return sb.commit(m)
}

func (sb *ShapeBatch) AddTriangleLines(v1, v2, v3 geom.Vector2, color uint32) error {
	m := sb.b.Mark()
	geometry.TriangleLines(&sb.b, v1, v2, v3, sb.thickness, color)
	return sb.commit(m)
}

func (sb *ShapeBatch) AddPolygon(center geom.Vector2, sides int, radius, rotationDeg float32, color uint32) error {
	m := sb.b.Mark()
	geometry.Poly(&sb.b, center, sides, radius, rotationDeg, color)
	return sb.commit(m)
}

func (sb *ShapeBatch) AddPolygonLines(center geom.Vector2, sides int, radius, rotationDeg float32, color uint32) error {
	return sb.AddPolygonLinesEx(center, sides, radius, rotationDeg, sb.thickness, color)
}

func (sb *ShapeBatch) AddPolygonLinesEx(center geom.Vector2, sides int, radius, rotationDeg, thickness float32, color uint32) error {
	m := sb.b.Mark()
	geometry.PolyLines(&sb.b, center, sides, radius, rotationDeg, thickness, color)
	return sb.commit(m)
}

// Clear empties the batch and keeps its capacity.
func (sb *ShapeBatch) Clear() { sb.b.Reset() }

func (sb *ShapeBatch) IsEmpty() bool { return sb.b.IsEmpty() }

// Vertices and Indices expose the accumulated geometry. They alias the
// batch and are invalidated by the next append or Clear.
func (sb *ShapeBatch) Vertices() []gfx.ShapeVertex { return sb.b.Vertices }
func (sb *ShapeBatch) Indices() []uint32           { return sb.b.Indices }

// PrepareForRender makes room in m and uploads the batch.
func (sb *ShapeBatch) PrepareForRender(m *buffers.Manager) error {
	if err := m.EnsureCapacity(len(sb.b.Vertices), len(sb.b.Indices)); err != nil {
		return err
	}
	return m.Upload(gfx.Bytes(sb.b.Vertices), sb.b.Indices)
}
