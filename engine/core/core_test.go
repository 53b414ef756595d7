package core

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/grove2d/engine/colors"
	"github.com/hubastard/grove2d/engine/geom"
	"github.com/hubastard/grove2d/engine/gfx/headless"
	"github.com/hubastard/grove2d/engine/gfx/renderer2d"
	"github.com/hubastard/grove2d/engine/profiler"
)

func newHeadless(w, h int) (*renderer2d.Context, *headless.Device) {
	dev := headless.NewDevice(w, h)
	return renderer2d.NewContext(dev, renderer2d.DefaultOptions()), dev
}

// fullBackend adds every optional capability on top of a Context.
type fullBackend struct {
	*renderer2d.Context
	keys     map[Key]bool
	scissor  []geom.Rectangle
	closed   bool
	shotSize int
}

func (b *fullBackend) IsKeyDown(k Key) bool          { return b.keys[k] }
func (b *fullBackend) MousePosition() geom.Vector2   { return geom.V2(3, 4) }
func (b *fullBackend) FrameTime() float32            { return 0.5 }
func (b *fullBackend) ShouldClose() bool             { return b.closed }
func (b *fullBackend) CloseWindow()                  { b.closed = true }
func (b *fullBackend) BeginScissor(r geom.Rectangle) { b.scissor = append(b.scissor, r) }
func (b *fullBackend) EndScissor()                   { b.scissor = b.scissor[:0] }
func (b *fullBackend) TakeScreenshot() (*image.RGBA, error) {
	return image.NewRGBA(image.Rect(0, 0, b.shotSize, b.shotSize)), nil
}

func TestOptionalDefaults(t *testing.T) {
	ctx, _ := newHeadless(320, 240)
	var b Backend = ctx

	assert.Equal(t, Capability(0), Capabilities(b))
	assert.Equal(t, "none", Capabilities(b).String())
	assert.False(t, IsKeyDown(b, KeySpace))
	assert.Equal(t, geom.Vector2{}, MousePosition(b))
	assert.Equal(t, float32(1.0/60.0), FrameTime(b))
	assert.False(t, ShouldClose(b))
	CloseWindow(b)
	assert.False(t, ShouldClose(b))
	BeginScissor(b, geom.Rect(0, 0, 10, 10))
	EndScissor(b)

	img, err := TakeScreenshot(b)
	assert.Nil(t, img)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestOptionalOverrides(t *testing.T) {
	ctx, _ := newHeadless(320, 240)
	fb := &fullBackend{Context: ctx, keys: map[Key]bool{KeyW: true}, shotSize: 2}
	var b Backend = fb

	caps := Capabilities(b)
	for _, c := range []Capability{CapKeys, CapMouse, CapFrameTime, CapWindow, CapScissor, CapScreenshot} {
		assert.True(t, caps.Has(c), c.String())
	}
	assert.Equal(t, "keys|mouse|frame-time|window|scissor|screenshot", caps.String())

	assert.True(t, IsKeyDown(b, KeyW))
	assert.False(t, IsKeyDown(b, KeyA))
	assert.Equal(t, geom.V2(3, 4), MousePosition(b))
	assert.Equal(t, float32(0.5), FrameTime(b))

	BeginScissor(b, geom.Rect(1, 2, 3, 4))
	assert.Len(t, fb.scissor, 1)
	EndScissor(b)
	assert.Empty(t, fb.scissor)

	CloseWindow(b)
	assert.True(t, ShouldClose(b))

	img, err := TakeScreenshot(b)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())
}

func TestInput(t *testing.T) {
	in := NewInput()
	in.Handle(EventKey{Key: KeyA, Down: true})
	in.Handle(EventMouseMove{X: 10.5, Y: 20})
	in.Handle(EventScroll{Yoff: 1})
	in.Handle(EventScroll{Yoff: 2})

	assert.True(t, in.IsKeyDown(KeyA))
	in.Handle(EventKey{Key: KeyA, Down: false})
	assert.False(t, in.IsKeyDown(KeyA))

	assert.Equal(t, geom.V2(10.5, 20), in.MousePosition())
	assert.Equal(t, 3.0, in.TakeScroll())
	assert.Zero(t, in.TakeScroll())
}

func TestConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grove.yaml")
	data := `
title: demo
width: 800
backend: sdl
clear_color: {r: 10, g: 20, b: 30, a: 255}
log_level: debug
renderer:
  circle_segments: 64
  buffers:
    min_vertices: 2048
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Title)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 720, cfg.Height, "absent keys keep defaults")
	assert.Equal(t, "sdl", cfg.Backend)
	assert.Equal(t, colors.RGBA(10, 20, 30, 255), cfg.ClearColor)
	assert.Equal(t, 64, cfg.Renderer.CircleSegments)
	assert.Equal(t, 2048, cfg.Renderer.Buffers.MinVertices)
	assert.Equal(t, 4096, cfg.Renderer.Buffers.MinIndices)
	assert.Equal(t, "DEBUG", cfg.SlogLevel().String())
}

func TestParseConfigErrors(t *testing.T) {
	_, err := ParseConfig([]byte("width: [1, 2"))
	assert.Error(t, err)
	_, err = ParseConfig([]byte("width: -5"))
	assert.Error(t, err)

	cfg, err := ParseConfig([]byte("log_level: loud"))
	require.NoError(t, err)
	assert.Equal(t, "INFO", cfg.SlogLevel().String())
}

type recordingLayer struct {
	name   string
	log    *[]string
	handle bool
}

func (l *recordingLayer) OnAttach(*Engine)          { *l.log = append(*l.log, "attach "+l.name) }
func (l *recordingLayer) OnDetach(*Engine)          { *l.log = append(*l.log, "detach "+l.name) }
func (l *recordingLayer) OnUpdate(*Engine, float64) { *l.log = append(*l.log, "update "+l.name) }
func (l *recordingLayer) OnRender(*Engine, float64) { *l.log = append(*l.log, "render "+l.name) }
func (l *recordingLayer) OnEvent(*Engine, Event) bool {
	*l.log = append(*l.log, "event "+l.name)
	return l.handle
}

func TestLayerApp(t *testing.T) {
	var log []string
	app := &LayerApp{Layers: []Layer{
		&recordingLayer{name: "world", log: &log},
		&recordingLayer{name: "hud", log: &log, handle: true},
	}}
	e := &Engine{}

	app.OnStart(e)
	assert.Equal(t, 2, e.Layers.Len())
	app.OnUpdate(e, 0.1)
	app.OnRender(e, 0)
	app.OnEvent(e, EventKey{Key: KeySpace, Down: true})
	app.OnShutdown(e)

	assert.Equal(t, []string{
		"attach world", "attach hud",
		"update world", "update hud",
		"render world", "render hud",
		"event hud", // handled: world never sees it
		"detach hud", "detach world",
	}, log)
	assert.Zero(t, e.Layers.Len())
}

type fakeWindow struct {
	frames    int
	maxFrames int
	cb        func(Event)
	destroyed bool
	w, h      int
}

func (w *fakeWindow) PollEvents() {
	if w.frames == 0 && w.cb != nil {
		w.w, w.h = 1024, 768
		w.cb(EventResize{W: 1024, H: 768})
		w.cb(EventKey{Key: KeyD, Down: true})
	}
}
func (w *fakeWindow) SwapBuffers()                    { w.frames++ }
func (w *fakeWindow) ShouldClose() bool               { return w.frames >= w.maxFrames }
func (w *fakeWindow) RequestClose()                   { w.maxFrames = w.frames }
func (w *fakeWindow) FramebufferSize() (int, int)     { return w.w, w.h }
func (w *fakeWindow) SetTitle(string)                 {}
func (w *fakeWindow) SetEventCallback(cb func(Event)) { w.cb = cb }
func (w *fakeWindow) Destroy()                        { w.destroyed = true }

type countingApp struct {
	started, renders, shutdowns int
	events                      []Event
	keyDown                     bool
	profiler                    *profiler.Recorder
}

func (a *countingApp) OnStart(e *Engine) {
	a.started++
	a.profiler = e.Profiler
}
func (a *countingApp) OnUpdate(*Engine, float64) {}
func (a *countingApp) OnRender(e *Engine, _ float64) {
	a.renders++
	a.keyDown = e.Input.IsKeyDown(KeyD)
	_ = e.Backend.DrawRectangle(geom.Rect(0, 0, 10, 10), colors.Red)
}
func (a *countingApp) OnEvent(e *Engine, ev Event) { a.events = append(a.events, ev) }
func (a *countingApp) OnShutdown(e *Engine)        { a.shutdowns++ }

func TestRunLoop(t *testing.T) {
	win := &fakeWindow{maxFrames: 3, w: 640, h: 480}
	ctx, dev := newHeadless(1, 1)
	app := &countingApp{}

	cfg := DefaultConfig()
	cfg.ClearColor = colors.Black
	cfg.ProfileEvents = 64
	err := Run(app, cfg,
		func(Config) (Window, error) { return win, nil },
		func(Window, Config) (Backend, error) { return ctx, nil },
	)
	require.NoError(t, err)

	assert.Equal(t, 1, app.started)
	assert.Equal(t, 3, app.renders)
	assert.Equal(t, 1, app.shutdowns)
	assert.True(t, app.keyDown)
	assert.Len(t, app.events, 2)
	assert.True(t, win.destroyed)

	// one clear and one shape submission per frame, at the resized viewport
	assert.Len(t, dev.Clears, 3)
	assert.Equal(t, colors.Black, dev.Clears[0])
	assert.Len(t, dev.Submissions, 3)
	assert.Equal(t, 1024, dev.Width)
	assert.Zero(t, dev.LiveBuffers(), "backend closed on exit")

	// frame, update, render and present scopes: 8 events per frame
	require.NotNil(t, app.profiler)
	assert.Equal(t, 3*8, app.profiler.Len())
}
