// Package geometry tessellates 2D primitives into triangle lists.
//
// All encoders emit triangles with a positive signed area on a y-down
// screen (clockwise as seen), append onto a caller-supplied batch and never
// fail: degenerate input (zero-length line, radius <= 0, fewer than 3 sides)
// appends nothing, zero extents give zero-area triangles.
package geometry

import (
	"github.com/chewxy/math32"
	"github.com/hubastard/grove2d/engine/geom"
	"github.com/hubastard/grove2d/engine/gfx"
)

const (
	// DefaultSegments is the circle tessellation used when none is configured.
	DefaultSegments = 32
	// DefaultOutlineThickness is the width of rectangle, circle and polygon outlines.
	DefaultOutlineThickness = 1.0
	// LineEpsilon is the squared length below which a line is skipped.
	LineEpsilon = 1e-6
)

func vtx(p geom.Vector2, color uint32) gfx.ShapeVertex {
	return gfx.ShapeVertex{X: p.X, Y: p.Y, Color: color}
}

// Rect appends a filled rectangle: corners TL, TR, BR, BL, indices 0-1-2, 0-2-3.
func Rect(b *Shapes, r geom.Rectangle, color uint32) {
	r = r.Normalize()
	base := b.base()
	b.Vertices = append(b.Vertices,
		gfx.ShapeVertex{X: r.X, Y: r.Y, Color: color},
		gfx.ShapeVertex{X: r.X + r.Width, Y: r.Y, Color: color},
		gfx.ShapeVertex{X: r.X + r.Width, Y: r.Y + r.Height, Color: color},
		gfx.ShapeVertex{X: r.X, Y: r.Y + r.Height, Color: color},
	)
	b.quad(base)
}

// RectLines appends an outline as four filled strips of the given thickness
// laid inside r.
func RectLines(b *Shapes, r geom.Rectangle, thickness float32, color uint32) {
	if thickness <= 0 {
		return
	}
	r = r.Normalize()
	inner := max(r.Height-2*thickness, 0)
	Rect(b, geom.Rect(r.X, r.Y, r.Width, thickness), color)
	Rect(b, geom.Rect(r.X, r.Y+r.Height-thickness, r.Width, thickness), color)
	Rect(b, geom.Rect(r.X, r.Y+thickness, thickness, inner), color)
	Rect(b, geom.Rect(r.X+r.Width-thickness, r.Y+thickness, thickness, inner), color)
}

// Fan appends a filled regular polygon as a triangle fan: the center vertex
// followed by sides perimeter vertices, the first at rotationDeg.
func Fan(b *Shapes, center geom.Vector2, radius float32, sides int, rotationDeg float32, color uint32) {
	if radius <= 0 || sides < 3 {
		return
	}
	base := b.base()
	b.Vertices = append(b.Vertices, vtx(center, color))
	step := 2 * math32.Pi / float32(sides)
	start := rotationDeg * geom.Deg2Rad
	for i := 0; i < sides; i++ {
		a := start + float32(i)*step
		b.Vertices = append(b.Vertices, gfx.ShapeVertex{
			X:     center.X + radius*math32.Cos(a),
			Y:     center.Y + radius*math32.Sin(a),
			Color: color,
		})
	}
	n := uint32(sides)
	for i := uint32(0); i < n; i++ {
		b.Indices = append(b.Indices, base, base+1+i, base+1+(i+1)%n)
	}
}

// Ring appends an annulus between radius and radius-thickness (clamped at
// zero) made of sides quads.
func Ring(b *Shapes, center geom.Vector2, radius, thickness float32, sides int, rotationDeg float32, color uint32) {
	if radius <= 0 || thickness <= 0 || sides < 3 {
		return
	}
	inner := max(radius-thickness, 0)
	base := b.base()
	step := 2 * math32.Pi / float32(sides)
	start := rotationDeg * geom.Deg2Rad
	for i := 0; i < sides; i++ {
		a := start + float32(i)*step
		c, s := math32.Cos(a), math32.Sin(a)
		b.Vertices = append(b.Vertices,
			gfx.ShapeVertex{X: center.X + radius*c, Y: center.Y + radius*s, Color: color},
			gfx.ShapeVertex{X: center.X + inner*c, Y: center.Y + inner*s, Color: color},
		)
	}
	n := uint32(sides)
	for i := uint32(0); i < n; i++ {
		o0 := base + 2*i
		o1 := base + 2*((i+1)%n)
		b.Indices = append(b.Indices,
			o0, o1, o1+1,
			o0, o1+1, o0+1,
		)
	}
}

// Circle appends a filled circle with the given segment count.
func Circle(b *Shapes, center geom.Vector2, radius float32, segments int, color uint32) {
	Fan(b, center, radius, segments, 0, color)
}

// CircleLines appends a circle outline as a thin ring.
func CircleLines(b *Shapes, center geom.Vector2, radius, thickness float32, segments int, color uint32) {
	Ring(b, center, radius, thickness, segments, 0, color)
}

// Poly appends a filled regular polygon.
func Poly(b *Shapes, center geom.Vector2, sides int, radius, rotationDeg float32, color uint32) {
	Fan(b, center, radius, sides, rotationDeg, color)
}

// PolyLines appends a regular polygon outline.
func PolyLines(b *Shapes, center geom.Vector2, sides int, radius, rotationDeg, thickness float32, color uint32) {
	Ring(b, center, radius, thickness, sides, rotationDeg, color)
}

// Line appends a quad around the segment start-end, thickness/2 to each side.
func Line(b *Shapes, start, end geom.Vector2, thickness float32, color uint32) {
	d := end.Sub(start)
	l2 := d.LengthSquared()
	if l2 < LineEpsilon || thickness <= 0 {
		return
	}
	k := thickness * 0.5 / math32.Sqrt(l2)
	n := geom.V2(-d.Y*k, d.X*k)
	base := b.base()
	b.Vertices = append(b.Vertices,
		vtx(start.Sub(n), color),
		vtx(end.Sub(n), color),
		vtx(end.Add(n), color),
		vtx(start.Add(n), color),
	)
	b.quad(base)
}

// Triangle appends one filled triangle, reordering the vertices when they
// are given in the opposite winding.
func Triangle(b *Shapes, v1, v2, v3 geom.Vector2, color uint32) {
	if geom.SignedArea2(v1, v2, v3) < 0 {
		v2, v3 = v3, v2
	}
	base := b.base()
	b.Vertices = append(b.Vertices, vtx(v1, color), vtx(v2, color), vtx(v3, color))
	b.Indices = append(b.Indices, base, base+1, base+2)
}

// TriangleLines appends the three edges as independent thick lines.
func TriangleLines(b *Shapes, v1, v2, v3 geom.Vector2, thickness float32, color uint32) {
	Line(b, v1, v2, thickness, color)
	Line(b, v2, v3, thickness, color)
	Line(b, v3, v1, thickness, color)
}
