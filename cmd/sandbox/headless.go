package main

import (
	"github.com/hubastard/grove2d/engine/core"
	"github.com/hubastard/grove2d/engine/gfx/headless"
	"github.com/hubastard/grove2d/engine/gfx/renderer2d"
	"github.com/hubastard/grove2d/engine/logging"
)

// headlessFrames is how long a windowless run lasts.
const headlessFrames = 120

// headlessWindow stands in for a real window: no events, and it asks to
// close after a fixed number of frames.
type headlessWindow struct {
	w, h   int
	frames int
	shown  int
}

func newHeadlessWindow(cfg core.Config) (core.Window, error) {
	return &headlessWindow{w: cfg.Width, h: cfg.Height, frames: headlessFrames}, nil
}

func (w *headlessWindow) PollEvents()                       {}
func (w *headlessWindow) SwapBuffers()                      { w.shown++ }
func (w *headlessWindow) ShouldClose() bool                 { return w.shown >= w.frames }
func (w *headlessWindow) RequestClose()                     { w.frames = w.shown }
func (w *headlessWindow) FramebufferSize() (int, int)       { return w.w, w.h }
func (w *headlessWindow) SetTitle(string)                   {}
func (w *headlessWindow) SetEventCallback(func(core.Event)) {}

func (w *headlessWindow) Destroy() {
	logging.Logger().Info("headless run finished", "frames", w.shown)
}

func newHeadlessBackend(_ core.Window, cfg core.Config) (core.Backend, error) {
	return renderer2d.NewContext(headless.NewDevice(cfg.Width, cfg.Height), cfg.Renderer), nil
}
