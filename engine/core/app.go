package core

import (
	"time"

	"github.com/hubastard/grove2d/engine/geom"
	"github.com/hubastard/grove2d/engine/profiler"
)

// App defines the game/application hooks.
type App interface {
	OnStart(e *Engine)                 // called once after window/backend init
	OnUpdate(e *Engine, dt float64)    // called at a fixed tick (60Hz by default)
	OnRender(e *Engine, alpha float64) // render with interpolation alpha [0..1]
	OnEvent(e *Engine, ev Event)       // input/window events
	OnShutdown(e *Engine)              // before exit
}

// Engine exposes core services to the App.
type Engine struct {
	Window  Window
	Backend Backend
	Input   *Input
	Layers  LayerStack
	Config  Config
	// Profiler records frame scopes when Config.ProfileEvents > 0; nil
	// otherwise, which is still safe to call.
	Profiler *profiler.Recorder

	start     time.Time
	frameTime float32
	frames    uint64
}

func (e *Engine) Uptime() time.Duration { return time.Since(e.start) }

// FrameTime is the duration of the last rendered frame in seconds.
func (e *Engine) FrameTime() float32 {
	if e.frameTime == 0 {
		return DefaultFrameTime
	}
	return e.frameTime
}

// Frames counts rendered frames.
func (e *Engine) Frames() uint64 { return e.frames }

// Window abstraction.
type Window interface {
	PollEvents()
	SwapBuffers()
	ShouldClose() bool
	RequestClose()
	FramebufferSize() (int, int)
	SetTitle(title string)
	SetEventCallback(cb func(Event))
	Destroy()
}

// Event model.
type Event interface{ isEvent() }

type EventCloseRequested struct{}

func (EventCloseRequested) isEvent() {}

type EventResize struct{ W, H int }

func (EventResize) isEvent() {}

type EventKey struct {
	Key  Key
	Down bool
	Mods Mod
}

func (EventKey) isEvent() {}

type EventMouseMove struct{ X, Y float64 }

func (EventMouseMove) isEvent() {}

// Pos returns the cursor position as a Vector2.
func (e EventMouseMove) Pos() geom.Vector2 { return geom.V2(float32(e.X), float32(e.Y)) }

type EventScroll struct{ Xoff, Yoff float64 }

func (EventScroll) isEvent() {}

// Key/mod enums (subset; add as needed).
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyEnter
	KeyW
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeyR
	KeyP
	KeyF1
	KeyF12
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

type Mod int

const (
	ModNone  Mod = 0
	ModShift Mod = 1 << 0
	ModCtrl  Mod = 1 << 1
	ModAlt   Mod = 1 << 2
	ModSuper Mod = 1 << 3
)
