package core

import (
	"fmt"
	"runtime"
	"time"

	"github.com/hubastard/grove2d/engine/gfx/renderer2d"
	"github.com/hubastard/grove2d/engine/logging"
	"github.com/hubastard/grove2d/engine/profiler"
)

// Resizer is implemented by backends whose projection follows the
// framebuffer size.
type Resizer interface {
	Resize(w, h int)
}

type statsReporter interface {
	LastFrameStats() renderer2d.Statistics
}

// Run wires the platform window + backend and executes the main loop.
func Run(app App, cfg Config, newWindow func(Config) (Window, error), newBackend func(Window, Config) (Backend, error)) error {
	// Graphics contexts require the main OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	log := logging.Logger()
	cfg = cfg.withDefaults()

	win, err := newWindow(cfg)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer win.Destroy()

	b, err := newBackend(win, cfg)
	if err != nil {
		return fmt.Errorf("create backend %q: %w", cfg.Backend, err)
	}
	if c, ok := b.(interface{ Close() }); ok {
		defer c.Close()
	}

	resize := func(w, h int) {
		if w < 1 || h < 1 {
			return
		}
		if r, ok := b.(Resizer); ok {
			r.Resize(w, h)
		}
	}
	resize(win.FramebufferSize())

	eng := &Engine{Window: win, Backend: b, Input: NewInput(), Config: cfg, start: time.Now()}
	if cfg.ProfileEvents > 0 {
		eng.Profiler = profiler.New(cfg.ProfileEvents)
	}
	prof := eng.Profiler
	win.SetEventCallback(func(ev Event) {
		eng.Input.Handle(ev)
		if _, ok := ev.(EventResize); ok {
			resize(win.FramebufferSize())
		}
		app.OnEvent(eng, ev)
	})

	log.Info("engine start", "title", cfg.Title, "backend", cfg.Backend, "capabilities", Capabilities(b).String())
	app.OnStart(eng)

	// Fixed-timestep with interpolation
	tick := time.Second / time.Duration(cfg.TickRate)
	var (
		accum   time.Duration
		prev    = time.Now()
		maxStep = 10 // prevent spiral of death
	)

	for !win.ShouldClose() && !ShouldClose(b) {
		endFrame := prof.Start("frame")
		now := time.Now()
		frame := now.Sub(prev)
		prev = now
		accum += frame
		eng.frameTime = float32(frame.Seconds())

		// Poll OS events (platform will emit via callbacks)
		win.PollEvents()

		endUpdate := prof.Start("update")
		steps := 0
		for accum >= tick && steps < maxStep {
			app.OnUpdate(eng, tick.Seconds())
			accum -= tick
			steps++
		}
		if steps == maxStep {
			accum = 0
		}
		alpha := float64(accum) / float64(tick)
		endUpdate()

		endRender := prof.Start("render")
		b.BeginDrawing()
		b.ClearBackground(cfg.ClearColor)
		app.OnRender(eng, alpha)
		if err := b.EndDrawing(); err != nil {
			log.Warn("frame submission failed", "frame", eng.frames, "err", err)
		}
		endRender()

		endPresent := prof.Start("present")
		win.SwapBuffers()
		endPresent()
		eng.frames++
		endFrame()

		if sr, ok := b.(statsReporter); ok && cfg.StatsEvery > 0 && eng.frames%uint64(cfg.StatsEvery) == 0 {
			log.Debug("frame stats", "frame", eng.frames, "stats", sr.LastFrameStats())
		}
	}

	app.OnShutdown(eng)
	log.Info("engine exit", "frames", eng.frames, "uptime", eng.Uptime())
	return nil
}
