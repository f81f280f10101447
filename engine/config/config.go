// Package config holds the overlay settings. Values come from defaults, then
// an optional YAML file named by OVERLAY_CONFIG, then environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvConfig      = "OVERLAY_CONFIG"
	EnvLogLevel    = "OVERLAY_LOG_LEVEL"
	EnvLogFile     = "OVERLAY_LOG_FILE"
	EnvHUD         = "OVERLAY_HUD"
	EnvProfilePath = "OVERLAY_PROFILE_PATH"
)

type Config struct {
	Log     Log     `yaml:"log"`
	HUD     HUD     `yaml:"hud"`
	Profile Profile `yaml:"profile"`
}

type Log struct {
	// Level is one of off, debug, info, warn, error.
	Level string `yaml:"level"`
	// File receives log output; empty means stderr.
	File string `yaml:"file"`
}

type HUD struct {
	Enabled    bool    `yaml:"enabled"`
	FontSize   float32 `yaml:"font_size"`
	Opacity    float32 `yaml:"opacity"`
	Position   string  `yaml:"position"` // top-left, top-right, bottom-left, bottom-right
	ShowGPU    bool    `yaml:"show_gpu"`
	ShowMemory bool    `yaml:"show_memory"`
	GraphWidth int     `yaml:"graph_width"`
	Logo       string  `yaml:"logo"` // optional PNG path
}

type Profile struct {
	Path        string `yaml:"path"`
	AfterFrames int    `yaml:"after_frames"`
}

var Positions = []string{"top-left", "top-right", "bottom-left", "bottom-right"}

var levels = []string{"off", "debug", "info", "warn", "error"}

func Default() Config {
	return Config{
		Log: Log{Level: "off"},
		HUD: HUD{
			Enabled:    true,
			FontSize:   14,
			Opacity:    0.85,
			Position:   "top-left",
			ShowGPU:    true,
			ShowMemory: true,
			GraphWidth: 120,
		},
		Profile: Profile{AfterFrames: 600},
	}
}

// Load builds the configuration from the process environment.
func Load() (Config, error) {
	return LoadEnv(os.Getenv)
}

// LoadEnv is Load with a custom environment lookup.
func LoadEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	if path := getenv(EnvConfig); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := Parse(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Parse overlays YAML onto cfg. Unknown keys are an error.
func Parse(b []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := getenv(EnvLogFile); v != "" {
		c.Log.File = v
	}
	if v := getenv(EnvHUD); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvHUD, err)
		}
		c.HUD.Enabled = b
	}
	if v := getenv(EnvProfilePath); v != "" {
		c.Profile.Path = v
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if !contains(levels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level %q: want one of %v", c.Log.Level, levels))
	}
	if c.HUD.FontSize < 6 || c.HUD.FontSize > 96 {
		errs = append(errs, fmt.Errorf("hud.font_size %g: want 6..96", c.HUD.FontSize))
	}
	if c.HUD.Opacity < 0 || c.HUD.Opacity > 1 {
		errs = append(errs, fmt.Errorf("hud.opacity %g: want 0..1", c.HUD.Opacity))
	}
	if !contains(Positions, c.HUD.Position) {
		errs = append(errs, fmt.Errorf("hud.position %q: want one of %v", c.HUD.Position, Positions))
	}
	if c.HUD.GraphWidth < 0 || c.HUD.GraphWidth > 1024 {
		errs = append(errs, fmt.Errorf("hud.graph_width %d: want 0..1024", c.HUD.GraphWidth))
	}
	if c.Profile.AfterFrames < 0 {
		errs = append(errs, fmt.Errorf("profile.after_frames %d: must not be negative", c.Profile.AfterFrames))
	}
	return errors.Join(errs...)
}

func contains(list []string, s string) bool { return slices.Contains(list, s) }
