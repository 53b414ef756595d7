package scene

import (
	"errors"

	"github.com/chewxy/math32"
	"github.com/hubastard/grove2d/engine/geom"
)

// ErrZeroZoom is returned when a camera with zoom 0 would be inverted.
var ErrZeroZoom = errors.New("scene: camera zoom must be non-zero")

// Camera2D maps world space to screen space: Target is the world point that
// appears at the screen point Offset, rotated by Rotation degrees and scaled
// by Zoom around it.
type Camera2D struct {
	Offset   geom.Vector2
	Target   geom.Vector2
	Rotation float32 // degrees
	Zoom     float32 // 1 = no zoom
}

// NewCamera2D returns an identity camera.
func NewCamera2D() Camera2D { return Camera2D{Zoom: 1} }

// Validate rejects cameras whose transform cannot be inverted.
func (c Camera2D) Validate() error {
	if c.Zoom == 0 {
		return ErrZeroZoom
	}
	return nil
}

// Orthographic maps screen pixels (origin top-left, y down) to clip space.
func Orthographic(width, height int) geom.Mat4 {
	return geom.Ortho(0, float32(width), float32(height), 0, -1, 1)
}

// ViewMatrix is translate(-target), then rotate(-rotation), then
// scale(zoom), then translate(offset).
func ViewMatrix(c Camera2D) geom.Mat4 {
	return geom.MulAll(
		geom.Translate(c.Offset.X, c.Offset.Y),
		geom.Scale(c.Zoom, c.Zoom),
		geom.RotateZ(-c.Rotation*geom.Deg2Rad),
		geom.Translate(-c.Target.X, -c.Target.Y),
	)
}

// CameraMatrix is the combined projection-view matrix for a viewport.
func CameraMatrix(width, height int, c Camera2D) geom.Mat4 {
	return geom.Mul(Orthographic(width, height), ViewMatrix(c))
}

// WorldToScreen applies the same composition as ViewMatrix to one point.
func WorldToScreen(p geom.Vector2, c Camera2D) geom.Vector2 {
	d := p.Sub(c.Target)
	if c.Rotation != 0 {
		a := -c.Rotation * geom.Deg2Rad
		d = d.Rotate(math32.Cos(a), math32.Sin(a))
	}
	return d.Scale(c.Zoom).Add(c.Offset)
}

// ScreenToWorld inverts WorldToScreen.
func ScreenToWorld(p geom.Vector2, c Camera2D) (geom.Vector2, error) {
	if err := c.Validate(); err != nil {
		return p, err
	}
	d := p.Sub(c.Offset).Scale(1 / c.Zoom)
	if c.Rotation != 0 {
		a := c.Rotation * geom.Deg2Rad
		d = d.Rotate(math32.Cos(a), math32.Sin(a))
	}
	return d.Add(c.Target), nil
}
