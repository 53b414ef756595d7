package core

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hubastard/grove2d/engine/colors"
	"github.com/hubastard/grove2d/engine/gfx/renderer2d"
	"github.com/hubastard/grove2d/engine/logging"
)

// Config for the engine run.
type Config struct {
	Title      string       `yaml:"title"`
	Width      int          `yaml:"width"`
	Height     int          `yaml:"height"`
	VSync      bool         `yaml:"vsync"`
	ClearColor colors.Color `yaml:"clear_color"`
	// Backend names the rendering backend: "gl", "sdl" or "headless".
	Backend string `yaml:"backend"`
	// TickRate is the number of fixed updates per second.
	TickRate int `yaml:"tick_rate"`
	// StatsEvery logs frame statistics at debug level every N frames; 0 disables.
	StatsEvery int `yaml:"stats_every"`
	// ProfileEvents sizes the scope profiler's ring; 0 disables it.
	ProfileEvents int                `yaml:"profile_events"`
	LogLevel      string             `yaml:"log_level"`
	Renderer      renderer2d.Options `yaml:"renderer"`
}

func DefaultConfig() Config {
	return Config{
		Title:      "grove2d",
		Width:      1280,
		Height:     720,
		VSync:      true,
		ClearColor: colors.DarkGray,
		Backend:    "gl",
		TickRate:   60,
		LogLevel:   "info",
		Renderer:   renderer2d.DefaultOptions(),
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.Backend == "" {
		c.Backend = d.Backend
	}
	if c.TickRate <= 0 {
		c.TickRate = d.TickRate
	}
	return c
}

// ParseConfig decodes YAML on top of DefaultConfig, so absent keys keep
// their defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Width < 0 || cfg.Height < 0 {
		return Config{}, fmt.Errorf("parse config: negative window size %dx%d", cfg.Width, cfg.Height)
	}
	return cfg.withDefaults(), nil
}

// LoadConfig reads a YAML config file. A missing file is not an error: the
// defaults are returned.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Logger().Debug("config file not found, using defaults", "path", path)
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%q: %w", path, err)
	}
	logging.Logger().Info("loaded config", "path", path, "backend", cfg.Backend)
	return cfg, nil
}

// SlogLevel parses LogLevel; unknown values fall back to info.
func (c Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
