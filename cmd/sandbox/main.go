package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hubastard/grove2d/engine/core"
	glbackend "github.com/hubastard/grove2d/engine/gfx/gl"
	sdlbackend "github.com/hubastard/grove2d/engine/gfx/sdl"
	"github.com/hubastard/grove2d/engine/logging"
	"github.com/hubastard/grove2d/engine/platform"
)

type (
	windowFactory  func(core.Config) (core.Window, error)
	backendFactory func(core.Window, core.Config) (core.Backend, error)
)

// backends maps Config.Backend to its window and backend constructors.
func backends(name string) (windowFactory, backendFactory, error) {
	switch name {
	case "gl":
		return func(cfg core.Config) (core.Window, error) {
			return platform.NewGLFWWindow(cfg, nil)
		}, glbackend.NewBackend, nil
	case "sdl":
		return sdlbackend.NewWindow, sdlbackend.NewBackend, nil
	case "headless":
		return newHeadlessWindow, newHeadlessBackend, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q (want gl, sdl or headless)", name)
	}
}

func main() {
	path := "grove.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	cfg, err := core.LoadConfig(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	newWindow, newBackend, err := backends(cfg.Backend)
	if err != nil {
		logging.Logger().Error("sandbox", "err", err)
		os.Exit(1)
	}

	app := &core.LayerApp{Layers: []core.Layer{&Layer2D{}, &LayerDebug{}}}
	if err := core.Run(app, cfg, newWindow, newBackend); err != nil {
		logging.Logger().Error("sandbox", "err", err)
		os.Exit(1)
	}
}
