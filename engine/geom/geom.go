package geom

import (
	"image"

	"github.com/chewxy/math32"
)

// Deg2Rad converts degrees to radians.
const Deg2Rad = math32.Pi / 180

// Vector2 is a 2D point or direction.
type Vector2 struct {
	X, Y float32
}

func V2(x, y float32) Vector2 { return Vector2{x, y} }

func (v Vector2) Add(o Vector2) Vector2       { return Vector2{v.X + o.X, v.Y + o.Y} }
func (v Vector2) Sub(o Vector2) Vector2       { return Vector2{v.X - o.X, v.Y - o.Y} }
func (v Vector2) Scale(s float32) Vector2     { return Vector2{v.X * s, v.Y * s} }
func (v Vector2) Dot(o Vector2) float32       { return v.X*o.X + v.Y*o.Y }
func (v Vector2) LengthSquared() float32      { return v.X*v.X + v.Y*v.Y }
func (v Vector2) Length() float32             { return math32.Sqrt(v.LengthSquared()) }
func (v Vector2) Cross(o Vector2) float32     { return v.X*o.Y - v.Y*o.X }
func (v Vector2) Rotate(c, s float32) Vector2 { return Vector2{v.X*c - v.Y*s, v.X*s + v.Y*c} }

// Rectangle is an axis-aligned rectangle. Width and Height may be negative.
type Rectangle struct {
	X, Y, Width, Height float32
}

func Rect(x, y, w, h float32) Rectangle { return Rectangle{x, y, w, h} }

// Normalize returns the same area with non-negative extents.
func (r Rectangle) Normalize() Rectangle {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Contains reports whether p lies inside r (min inclusive, max exclusive).
func (r Rectangle) Contains(p Vector2) bool {
	n := r.Normalize()
	return p.X >= n.X && p.X < n.X+n.Width && p.Y >= n.Y && p.Y < n.Y+n.Height
}

// ImageRect rounds the normalized rectangle outward to whole pixels.
func (r Rectangle) ImageRect() image.Rectangle {
	n := r.Normalize()
	return image.Rect(
		int(math32.Floor(n.X)), int(math32.Floor(n.Y)),
		int(math32.Ceil(n.X+n.Width)), int(math32.Ceil(n.Y+n.Height)),
	)
}

// SignedArea2 returns twice the signed area of triangle abc. Positive means
// clockwise on a y-down screen.
func SignedArea2(a, b, c Vector2) float32 {
	return b.Sub(a).Cross(c.Sub(a))
}
