package glbackend

import (
	"fmt"
	"image"

	"github.com/hubastard/grove2d/engine/core"
	"github.com/hubastard/grove2d/engine/geom"
	"github.com/hubastard/grove2d/engine/gfx/renderer2d"
	"github.com/hubastard/grove2d/engine/platform"
)

// Backend is the OpenGL backend: the batching context plus every optional
// capability GLFW can provide.
type Backend struct {
	*renderer2d.Context
	dev *Device
	win *platform.GLFWWindow

	last      float64
	frameTime float32
}

var (
	_ core.Backend         = (*Backend)(nil)
	_ core.KeyPoller       = (*Backend)(nil)
	_ core.MousePoller     = (*Backend)(nil)
	_ core.FrameTimer      = (*Backend)(nil)
	_ core.WindowLifecycle = (*Backend)(nil)
	_ core.Scissorer       = (*Backend)(nil)
	_ core.Screenshotter   = (*Backend)(nil)
)

// NewBackend builds the GL device on win's current context. win must come
// from platform.NewGLFWWindow.
func NewBackend(win core.Window, cfg core.Config) (core.Backend, error) {
	gw, ok := win.(*platform.GLFWWindow)
	if !ok {
		return nil, fmt.Errorf("gl backend needs a GLFW window, got %T", win)
	}
	w, h := gw.FramebufferSize()
	dev, err := NewDevice(w, h)
	if err != nil {
		return nil, err
	}
	return &Backend{
		Context: renderer2d.NewContext(dev, cfg.Renderer),
		dev:     dev,
		win:     gw,
		last:    gw.Time(),
	}, nil
}

// BeginDrawing measures the previous frame before starting a new one.
func (b *Backend) BeginDrawing() {
	now := b.win.Time()
	b.frameTime = float32(now - b.last)
	b.last = now
	b.Context.BeginDrawing()
}

func (b *Backend) FrameTime() float32 { return b.frameTime }

func (b *Backend) IsKeyDown(k core.Key) bool   { return b.win.IsKeyDown(k) }
func (b *Backend) MousePosition() geom.Vector2 { return b.win.MousePosition() }
func (b *Backend) ShouldClose() bool           { return b.win.ShouldClose() }
func (b *Backend) CloseWindow()                { b.win.RequestClose() }

// BeginScissor submits what was drawn so far, then clips later draws to r.
func (b *Backend) BeginScissor(r geom.Rectangle) {
	b.Flush()
	ir := r.ImageRect()
	b.dev.SetScissor(&ir)
}

func (b *Backend) EndScissor() {
	b.Flush()
	b.dev.SetScissor(nil)
}

// TakeScreenshot reads back the framebuffer including everything drawn in
// the current frame so far.
func (b *Backend) TakeScreenshot() (*image.RGBA, error) {
	b.Flush()
	return b.dev.ReadPixels()
}

// Close releases the context's resources and then the pipelines.
func (b *Backend) Close() {
	b.Context.Close()
	b.dev.Release()
}
