package sdlbackend

import (
	"fmt"
	"image"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/hubastard/grove2d/engine/core"
	"github.com/hubastard/grove2d/engine/geom"
	"github.com/hubastard/grove2d/engine/gfx/renderer2d"
	"github.com/hubastard/grove2d/engine/logging"
)

// Backend is the SDL2 backend.
type Backend struct {
	*renderer2d.Context
	dev *Device
	win *Window

	last      uint64
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

// NewBackend draws with the renderer of win, which must come from NewWindow.
func NewBackend(win core.Window, cfg core.Config) (core.Backend, error) {
	sw, ok := win.(*Window)
	if !ok {
		return nil, fmt.Errorf("sdl backend needs an SDL window, got %T", win)
	}
	dev, err := NewDevice(sw.Renderer())
	if err != nil {
		return nil, err
	}
	return &Backend{
		Context: renderer2d.NewContext(dev, cfg.Renderer),
		dev:     dev,
		win:     sw,
		last:    sdl.GetPerformanceCounter(),
	}, nil
}

func (b *Backend) BeginDrawing() {
	now := sdl.GetPerformanceCounter()
	b.frameTime = float32(float64(now-b.last) / float64(sdl.GetPerformanceFrequency()))
	b.last = now
	b.Context.BeginDrawing()
}

func (b *Backend) FrameTime() float32 { return b.frameTime }

func (b *Backend) IsKeyDown(k core.Key) bool { return b.win.IsKeyDown(k) }

func (b *Backend) MousePosition() geom.Vector2 {
	x, y, _ := sdl.GetMouseState()
	return geom.V2(float32(x), float32(y))
}

func (b *Backend) ShouldClose() bool { return b.win.ShouldClose() }
func (b *Backend) CloseWindow()      { b.win.RequestClose() }

func (b *Backend) BeginScissor(r geom.Rectangle) {
	b.Flush()
	ir := r.ImageRect()
	if err := b.dev.SetScissor(&ir); err != nil {
		logging.Logger().Warn("sdl: set clip rect", "rect", ir, "err", err)
	}
}

func (b *Backend) EndScissor() {
	b.Flush()
	if err := b.dev.SetScissor(nil); err != nil {
		logging.Logger().Warn("sdl: reset clip rect", "err", err)
	}
}

func (b *Backend) TakeScreenshot() (*image.RGBA, error) {
	b.Flush()
	return b.dev.ReadPixels()
}
