package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hubastard/grove2d/engine/colors"
	"github.com/hubastard/grove2d/engine/core"
	"github.com/hubastard/grove2d/engine/geom"
	"github.com/hubastard/grove2d/engine/gfx/renderer2d"
	"github.com/hubastard/grove2d/engine/logging"
	"github.com/hubastard/grove2d/engine/profiler"
	"github.com/hubastard/grove2d/engine/text"
)

const (
	debugTextSize = 16
	debugPadding  = 12
)

// LayerDebug draws frame statistics in screen space.
type LayerDebug struct {
	font   *text.Font
	hidden bool
	lines  []string
}

func (l *LayerDebug) OnAttach(e *core.Engine) {
	var err error
	l.font, err = text.LoadDefault(e.Backend, debugTextSize)
	if err != nil {
		logging.Logger().Error("load debug font", "err", err)
	}
}

func (l *LayerDebug) OnDetach(e *core.Engine) {
	if l.font != nil {
		l.font.Unload(e.Backend)
	}
}

func (l *LayerDebug) OnUpdate(e *core.Engine, dt float64) {}

func (l *LayerDebug) OnRender(e *core.Engine, alpha float64) {
	if l.hidden || l.font == nil {
		return
	}
	b := e.Backend
	ft := core.FrameTime(b)
	rt := profiler.ReadRuntime()

	l.lines = append(l.lines[:0],
		fmt.Sprintf("Frame: %d", e.Frames()),
		fmt.Sprintf("  %2.3f ms (%.1f FPS)", ft*1000, 1/max(ft, 1e-6)),
		fmt.Sprintf("Backend: %s [%s]", e.Config.Backend, core.Capabilities(b)),
	)
	if sr, ok := b.(interface{ LastFrameStats() renderer2d.Statistics }); ok {
		st := sr.LastFrameStats()
		l.lines = append(l.lines,
			"2D Renderer",
			fmt.Sprintf("  Draw calls: %d", st.DrawCalls),
			fmt.Sprintf("  Sprites: %d in %d batches", st.Sprites, st.SubBatches),
			fmt.Sprintf("  Vertices: %d  Indices: %d", st.TotalVertexCount(), st.TotalIndexCount()),
			fmt.Sprintf("  Reallocations: %d", st.Reallocations),
		)
	}
	l.lines = append(l.lines,
		"Memory",
		fmt.Sprintf("  Heap: %.3f MB", float64(rt.HeapAlloc)/(1<<20)),
		fmt.Sprintf("  Allocs: %d  Goroutines: %d  CPUs: %d", rt.Mallocs, rt.Goroutines, rt.CPUs),
	)
	body := strings.Join(l.lines, "\n")

	size := text.MeasureText(l.font, body, debugTextSize)
	panel := geom.Rect(debugPadding, debugPadding, size.X+2*debugPadding, size.Y+2*debugPadding)

	core.BeginScissor(b, panel)
	errs := []error{
		b.DrawRectangle(panel, colors.Black.Fade(0.6)),
		b.DrawRectangleLinesEx(panel, 1, colors.Yellow.Fade(0.8)),
		text.DrawText(b, l.font, body, geom.V2(panel.X+debugPadding, panel.Y+debugPadding), debugTextSize, colors.White),
	}
	core.EndScissor(b)

	if err := errors.Join(errs...); err != nil {
		logging.Logger().Warn("debug overlay failed", "err", err)
	}
}

func (l *LayerDebug) OnEvent(e *core.Engine, ev core.Event) bool {
	v, ok := ev.(core.EventKey)
	if !ok || !v.Down {
		return false
	}
	switch {
	case v.Key == core.KeyF1:
		l.hidden = !l.hidden
		return true
	case v.Key == core.KeyP && v.Mods&core.ModCtrl != 0:
		path := filepath.Join(os.TempDir(), "grove2d.profile.speedscope.json")
		if err := e.Profiler.DumpFile(path, e.Config.Title); err != nil {
			logging.Logger().Warn("profile dump failed", "err", err)
		} else {
			logging.Logger().Info("speedscope profile written", "path", path)
		}
		return true
	}
	return false
}
