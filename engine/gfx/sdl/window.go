// Package sdlbackend renders through SDL2's 2D renderer. Batched geometry is
// projected on the CPU and drawn with Renderer.RenderGeometry.
package sdlbackend

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/hubastard/grove2d/engine/core"
	"github.com/hubastard/grove2d/engine/logging"
)

// Window is an SDL window with its renderer. It implements core.Window.
type Window struct {
	win      *sdl.Window
	renderer *sdl.Renderer
	onEv     func(core.Event)
	closing  bool
}

var _ core.Window = (*Window)(nil)

// NewWindow initializes SDL video and opens a window. Call it on the main
// thread.
func NewWindow(cfg core.Config) (core.Window, error) {
	runtime.LockOSThread()
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("sdl init: %w", err)
	}
	sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, "0")

	win, err := sdl.CreateWindow(cfg.Title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width), int32(cfg.Height), sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE|sdl.WINDOW_ALLOW_HIGHDPI)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("create window: %w", err)
	}

	flags := uint32(sdl.RENDERER_ACCELERATED)
	if cfg.VSync {
		flags |= sdl.RENDERER_PRESENTVSYNC
	}
	r, err := sdl.CreateRenderer(win, -1, flags)
	if err != nil {
		win.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	if info, err := r.GetInfo(); err == nil {
		logging.Logger().Info("sdl renderer ready", "driver", info.Name, "vsync", cfg.VSync)
	}
	return &Window{win: win, renderer: r}, nil
}

// Renderer returns the renderer the device draws with.
func (w *Window) Renderer() *sdl.Renderer { return w.renderer }

func (w *Window) PollEvents() {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch e := ev.(type) {
		case *sdl.QuitEvent:
			w.emit(core.EventCloseRequested{})
			w.closing = true
		case *sdl.WindowEvent:
			if int(e.Event) == int(sdl.WINDOWEVENT_SIZE_CHANGED) {
				fw, fh := w.FramebufferSize()
				w.emit(core.EventResize{W: fw, H: fh})
			}
		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			k := translateKey(int(e.Keysym.Sym))
			if k == core.KeyUnknown {
				continue
			}
			w.emit(core.EventKey{Key: k, Down: int(e.State) == int(sdl.PRESSED), Mods: translateMods(int(e.Keysym.Mod))})
		case *sdl.MouseMotionEvent:
			w.emit(core.EventMouseMove{X: float64(e.X), Y: float64(e.Y)})
		case *sdl.MouseWheelEvent:
			w.emit(core.EventScroll{Xoff: float64(e.X), Yoff: float64(e.Y)})
		}
	}
}

func (w *Window) emit(ev core.Event) {
	if w.onEv != nil {
		w.onEv(ev)
	}
}

func (w *Window) SwapBuffers()                         { w.renderer.Present() }
func (w *Window) ShouldClose() bool                    { return w.closing }
func (w *Window) RequestClose()                        { w.closing = true }
func (w *Window) SetTitle(t string)                    { w.win.SetTitle(t) }
func (w *Window) SetEventCallback(cb func(core.Event)) { w.onEv = cb }

// FramebufferSize is the renderer's output size, which differs from the
// window size on high-DPI displays.
func (w *Window) FramebufferSize() (int, int) {
	fw, fh, err := w.renderer.GetOutputSize()
	if err != nil {
		ww, wh := w.win.GetSize()
		return int(ww), int(wh)
	}
	return int(fw), int(fh)
}

func (w *Window) Destroy() {
	w.renderer.Destroy()
	w.win.Destroy()
	sdl.Quit()
}

// IsKeyDown polls the keyboard state array.
func (w *Window) IsKeyDown(k core.Key) bool {
	sc, ok := sdlScancodes[k]
	if !ok {
		return false
	}
	state := sdl.GetKeyboardState()
	return sc < len(state) && state[sc] != 0
}

var sdlKeycodes = map[int]core.Key{
	int(sdl.K_ESCAPE): core.KeyEscape,
	int(sdl.K_SPACE):  core.KeySpace,
	int(sdl.K_RETURN): core.KeyEnter,
	int(sdl.K_w):      core.KeyW,
	int(sdl.K_a):      core.KeyA,
	int(sdl.K_s):      core.KeyS,
	int(sdl.K_d):      core.KeyD,
	int(sdl.K_q):      core.KeyQ,
	int(sdl.K_e):      core.KeyE,
	int(sdl.K_r):      core.KeyR,
	int(sdl.K_p):      core.KeyP,
	int(sdl.K_F1):     core.KeyF1,
	int(sdl.K_F12):    core.KeyF12,
	int(sdl.K_LEFT):   core.KeyLeft,
	int(sdl.K_RIGHT):  core.KeyRight,
	int(sdl.K_UP):     core.KeyUp,
	int(sdl.K_DOWN):   core.KeyDown,
}

var sdlScancodes = map[core.Key]int{
	core.KeyEscape: int(sdl.SCANCODE_ESCAPE),
	core.KeySpace:  int(sdl.SCANCODE_SPACE),
	core.KeyEnter:  int(sdl.SCANCODE_RETURN),
	core.KeyW:      int(sdl.SCANCODE_W),
	core.KeyA:      int(sdl.SCANCODE_A),
	core.KeyS:      int(sdl.SCANCODE_S),
	core.KeyD:      int(sdl.SCANCODE_D),
	core.KeyQ:      int(sdl.SCANCODE_Q),
	core.KeyE:      int(sdl.SCANCODE_E),
	core.KeyR:      int(sdl.SCANCODE_R),
	core.KeyP:      int(sdl.SCANCODE_P),
	core.KeyF1:     int(sdl.SCANCODE_F1),
	core.KeyF12:    int(sdl.SCANCODE_F12),
	core.KeyLeft:   int(sdl.SCANCODE_LEFT),
	core.KeyRight:  int(sdl.SCANCODE_RIGHT),
	core.KeyUp:     int(sdl.SCANCODE_UP),
	core.KeyDown:   int(sdl.SCANCODE_DOWN),
}

func translateKey(sym int) core.Key {
	if k, ok := sdlKeycodes[sym]; ok {
		return k
	}
	return core.KeyUnknown
}

func translateMods(m int) core.Mod {
	var out core.Mod
	if m&int(sdl.KMOD_SHIFT) != 0 {
		out |= core.ModShift
	}
	if m&int(sdl.KMOD_CTRL) != 0 {
		out |= core.ModCtrl
	}
	if m&int(sdl.KMOD_ALT) != 0 {
		out |= core.ModAlt
	}
	if m&int(sdl.KMOD_GUI) != 0 {
		out |= core.ModSuper
	}
	return out
}
