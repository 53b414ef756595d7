package core

import (
	"errors"
	"image"
	"strings"

	"github.com/hubastard/grove2d/engine/colors"
	"github.com/hubastard/grove2d/engine/geom"
	"github.com/hubastard/grove2d/engine/gfx"
	"github.com/hubastard/grove2d/engine/gfx/renderer2d"
	"github.com/hubastard/grove2d/engine/logging"
	"github.com/hubastard/grove2d/engine/scene"
)

// ErrUnsupported is returned by the default of an optional operation the
// backend does not implement.
var ErrUnsupported = errors.New("core: operation not supported by backend")

// DefaultFrameTime is what FrameTime reports for backends without a clock.
const DefaultFrameTime = float32(1.0 / 60.0)

// Backend is the set of operations every rendering backend provides.
// *renderer2d.Context implements it; windowed backends embed one.
type Backend interface {
	BeginDrawing()
	EndDrawing() error
	ClearBackground(c colors.Color)

	DrawRectangle(r geom.Rectangle, c colors.Color) error
	DrawRectangleLines(r geom.Rectangle, c colors.Color) error
	DrawRectangleLinesEx(r geom.Rectangle, thickness float32, c colors.Color) error
	DrawCircle(center geom.Vector2, radius float32, c colors.Color) error
	DrawCircleLines(center geom.Vector2, radius float32, c colors.Color) error
	DrawLine(start, end geom.Vector2, thickness float32, c colors.Color) error
	DrawTriangle(v1, v2, v3 geom.Vector2, c colors.Color) error
	DrawTriangleLines(v1, v2, v3 geom.Vector2, c colors.Color) error
	DrawPoly(center geom.Vector2, sides int, radius, rotation float32, c colors.Color) error
	DrawPolyLines(center geom.Vector2, sides int, radius, rotation float32, c colors.Color) error

	LoadTexture(img image.Image) (gfx.Texture, error)
	UnloadTexture(t gfx.Texture)
	DrawTexturePro(t gfx.Texture, src, dst geom.Rectangle, origin geom.Vector2, rotation float32, tint colors.Color) error

	BeginMode2D(cam scene.Camera2D) error
	EndMode2D()

	ScreenSize() (w, h int)
	ScreenToWorld(p geom.Vector2, cam scene.Camera2D) (geom.Vector2, error)
	WorldToScreen(p geom.Vector2, cam scene.Camera2D) geom.Vector2
}

var _ Backend = (*renderer2d.Context)(nil)

// Optional capabilities. A backend implements any subset of them; the
// package functions below fall back to a documented default otherwise.

type KeyPoller interface {
	IsKeyDown(k Key) bool
}

type MousePoller interface {
	MousePosition() geom.Vector2
}

type FrameTimer interface {
	// FrameTime returns the duration of the last frame in seconds.
	FrameTime() float32
}

type WindowLifecycle interface {
	ShouldClose() bool
	CloseWindow()
}

type Scissorer interface {
	BeginScissor(r geom.Rectangle)
	EndScissor()
}

type Screenshotter interface {
	TakeScreenshot() (*image.RGBA, error)
}

// IsKeyDown defaults to false.
func IsKeyDown(b Backend, k Key) bool {
	if kp, ok := b.(KeyPoller); ok {
		return kp.IsKeyDown(k)
	}
	return false
}

// MousePosition defaults to the zero vector.
func MousePosition(b Backend) geom.Vector2 {
	if mp, ok := b.(MousePoller); ok {
		return mp.MousePosition()
	}
	return geom.Vector2{}
}

// FrameTime defaults to DefaultFrameTime.
func FrameTime(b Backend) float32 {
	if ft, ok := b.(FrameTimer); ok {
		return ft.FrameTime()
	}
	return DefaultFrameTime
}

// ShouldClose defaults to false: a backend without a window never asks to stop.
func ShouldClose(b Backend) bool {
	if wl, ok := b.(WindowLifecycle); ok {
		return wl.ShouldClose()
	}
	return false
}

// CloseWindow defaults to a no-op.
func CloseWindow(b Backend) {
	if wl, ok := b.(WindowLifecycle); ok {
		wl.CloseWindow()
	}
}

// BeginScissor defaults to a no-op: drawing is not clipped.
func BeginScissor(b Backend, r geom.Rectangle) {
	if s, ok := b.(Scissorer); ok {
		s.BeginScissor(r)
		return
	}
	logging.Logger().Debug("scissor not supported by backend; drawing unclipped")
}

func EndScissor(b Backend) {
	if s, ok := b.(Scissorer); ok {
		s.EndScissor()
	}
}

// TakeScreenshot defaults to ErrUnsupported.
func TakeScreenshot(b Backend) (*image.RGBA, error) {
	if s, ok := b.(Screenshotter); ok {
		return s.TakeScreenshot()
	}
	logging.Logger().Warn("screenshot requested from a backend without readback")
	return nil, ErrUnsupported
}

// Capability is a set of optional interfaces.
type Capability uint

const (
	CapKeys Capability = 1 << iota
	CapMouse
	CapFrameTime
	CapWindow
	CapScissor
	CapScreenshot
)

var capNames = []string{"keys", "mouse", "frame-time", "window", "scissor", "screenshot"}

func (c Capability) Has(o Capability) bool { return c&o == o }

func (c Capability) String() string {
	var parts []string
	for i, n := range capNames {
		if c&(1<<i) != 0 {
			parts = append(parts, n)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Capabilities reports which optional interfaces b implements.
func Capabilities(b Backend) Capability {
	var c Capability
	if _, ok := b.(KeyPoller); ok {
		c |= CapKeys
	}
	if _, ok := b.(MousePoller); ok {
		c |= CapMouse
	}
	if _, ok := b.(FrameTimer); ok {
		c |= CapFrameTime
	}
	if _, ok := b.(WindowLifecycle); ok {
		c |= CapWindow
	}
	if _, ok := b.(Scissorer); ok {
		c |= CapScissor
	}
	if _, ok := b.(Screenshotter); ok {
		c |= CapScreenshot
	}
	return c
}
