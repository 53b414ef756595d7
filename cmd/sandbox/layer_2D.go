package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"time"

	"github.com/chewxy/math32"

	"github.com/hubastard/grove2d/engine/assets"
	"github.com/hubastard/grove2d/engine/colors"
	"github.com/hubastard/grove2d/engine/core"
	"github.com/hubastard/grove2d/engine/geom"
	"github.com/hubastard/grove2d/engine/gfx"
	"github.com/hubastard/grove2d/engine/gfx/renderer2d"
	"github.com/hubastard/grove2d/engine/logging"
	"github.com/hubastard/grove2d/engine/scene"
)

const spriteCell = 32

// ------- A simple 2D Layer demo -------
type Layer2D struct {
	cam    scene.Camera2D
	ctrl   *scene.Controller2D
	sheet  gfx.Texture
	frames []renderer2d.SubTexture2D
	t      float32
	shoot  bool
}

func (l *Layer2D) OnAttach(e *core.Engine) {
	w, h := e.Backend.ScreenSize()
	l.cam = scene.NewCamera2D()
	l.cam.Offset = geom.V2(float32(w)/2, float32(h)/2)
	l.ctrl = scene.NewController2D(&l.cam)

	img, err := assets.LoadImageFile("assets/player.png")
	if err != nil {
		logging.Logger().Debug("no sprite sheet on disk, generating one", "err", err)
		img = checkerSheet(4)
	}
	l.sheet, err = e.Backend.LoadTexture(img)
	if err != nil {
		logging.Logger().Error("load sprite sheet", "err", err)
		return
	}
	for x := 0; x < l.sheet.Width/spriteCell; x++ {
		l.frames = append(l.frames, renderer2d.FromGrid(l.sheet, x, 0, spriteCell, spriteCell))
	}
}

func (l *Layer2D) OnDetach(e *core.Engine) {
	e.Backend.UnloadTexture(l.sheet)
}

func (l *Layer2D) OnUpdate(e *core.Engine, dt float64) {
	down := func(k core.Key) bool { return e.Input.IsKeyDown(k) || core.IsKeyDown(e.Backend, k) }
	cursor := e.Input.MousePosition()
	if core.Capabilities(e.Backend).Has(core.CapMouse) {
		cursor = core.MousePosition(e.Backend)
	}
	l.ctrl.Update(scene.ControlInput{
		Left:      down(core.KeyA) || down(core.KeyLeft),
		Right:     down(core.KeyD) || down(core.KeyRight),
		Up:        down(core.KeyW) || down(core.KeyUp),
		Down:      down(core.KeyS) || down(core.KeyDown),
		RotateCW:  down(core.KeyE),
		RotateCCW: down(core.KeyQ),
		Wheel:     float32(e.Input.TakeScroll()),
		Cursor:    cursor,
	}, float32(dt))
	l.t += float32(dt)

	if down(core.KeyR) {
		l.cam = scene.NewCamera2D()
		w, h := e.Backend.ScreenSize()
		l.cam.Offset = geom.V2(float32(w)/2, float32(h)/2)
	}
	if down(core.KeyEscape) {
		core.CloseWindow(e.Backend)
		e.Window.RequestClose()
	}
}

func (l *Layer2D) OnRender(e *core.Engine, alpha float64) {
	b := e.Backend
	if err := b.BeginMode2D(l.cam); err != nil {
		logging.Logger().Warn("camera rejected", "err", err)
		return
	}
	var errs []error
	draw := func(err error) { errs = append(errs, err) }

	// ground grid
	for y := -8; y < 8; y++ {
		for x := -8; x < 8; x++ {
			c := colors.Gray.Fade(0.25)
			if (x+y)%2 == 0 {
				c = colors.LightGray.Fade(0.25)
			}
			draw(b.DrawRectangle(geom.Rect(float32(x*64), float32(y*64), 64, 64), c))
		}
	}
	draw(b.DrawRectangleLines(geom.Rect(-512, -512, 1024, 1024), colors.Yellow))
	draw(b.DrawLine(geom.V2(-512, 0), geom.V2(512, 0), 2, colors.Red))
	draw(b.DrawLine(geom.V2(0, -512), geom.V2(0, 512), 2, colors.Green))
	draw(b.DrawCircle(geom.V2(-200, -150), 60, colors.Blue.Fade(0.8)))
	draw(b.DrawCircleLines(geom.V2(-200, -150), 70, colors.White))
	draw(b.DrawTriangle(geom.V2(150, -220), geom.V2(250, -80), geom.V2(50, -80), colors.Magenta))
	draw(b.DrawTriangleLines(geom.V2(150, -240), geom.V2(270, -70), geom.V2(30, -70), colors.White))
	draw(b.DrawPoly(geom.V2(200, 200), 6, 60, l.t*45, colors.Cyan))
	draw(b.DrawPolyLines(geom.V2(200, 200), 6, 70, -l.t*45, colors.White))

	if len(l.frames) > 0 {
		// a ring of spinning sprites, cycling through the sheet
		anim := int(l.t*8) % len(l.frames)
		for i := 0; i < 12; i++ {
			a := float32(i) * 30
			rad := a * geom.Deg2Rad
			p := geom.V2(math32.Cos(rad), math32.Sin(rad)).Scale(160)
			f := l.frames[(anim+i)%len(l.frames)]
			dst := geom.Rect(p.X, p.Y, spriteCell*2, spriteCell*2)
			draw(b.DrawTexturePro(l.sheet, f.Source, dst, geom.V2(spriteCell, spriteCell), l.t*90+a, colors.White))
		}
		// mirrored copy of the whole sheet
		src := geom.Rect(0, 0, -float32(l.sheet.Width), float32(l.sheet.Height))
		dst := geom.Rect(-float32(l.sheet.Width)/2, 300, float32(l.sheet.Width), float32(l.sheet.Height))
		draw(b.DrawTexturePro(l.sheet, src, dst, geom.Vector2{}, 0, colors.White.Fade(0.7)))
	}
	b.EndMode2D()

	if err := errors.Join(errs...); err != nil {
		logging.Logger().Warn("world draw failed", "err", err)
	}

	if l.shoot {
		l.shoot = false
		if path, err := saveScreenshot(b); err != nil {
			logging.Logger().Warn("screenshot failed", "err", err)
		} else {
			logging.Logger().Info("screenshot saved", "path", path)
		}
	}
}

func (l *Layer2D) OnEvent(e *core.Engine, ev core.Event) bool {
	switch v := ev.(type) {
	case core.EventKey:
		if v.Down && v.Key == core.KeyF12 {
			// taken at the end of the next world render
			l.shoot = true
			return true
		}
	case core.EventResize:
		// the target stays under the window's center
		l.cam.Offset = geom.V2(float32(v.W)/2, float32(v.H)/2)
	}
	return false
}

func saveScreenshot(b core.Backend) (string, error) {
	img, err := core.TakeScreenshot(b)
	if err != nil {
		return "", err
	}
	path := fmt.Sprintf("screenshot-%s.png", time.Now().Format("20060102-150405"))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return "", err
	}
	return path, nil
}

// checkerSheet draws n sprite cells, each a checker in its own hue.
func checkerSheet(n int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, n*spriteCell, spriteCell))
	hues := []colors.Color{colors.Red, colors.Green, colors.Blue, colors.Yellow}
	for c := 0; c < n; c++ {
		hue := hues[c%len(hues)]
		for y := 0; y < spriteCell; y++ {
			for x := 0; x < spriteCell; x++ {
				col := color.RGBA{hue.R, hue.G, hue.B, 255}
				if (x/8+y/8)%2 == 1 {
					col = color.RGBA{255, 255, 255, 255}
				}
				if x == 0 || y == 0 || x == spriteCell-1 || y == spriteCell-1 {
					col = color.RGBA{0, 0, 0, 255}
				}
				img.SetRGBA(c*spriteCell+x, y, col)
			}
		}
	}
	return img
}
