// Package config loads viewer settings from an optional JSON file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/stuarthighley/buildmap/engine"
	"github.com/stuarthighley/buildmap/player"
)

// Config holds every setting of the viewer. Lengths are world units.
type Config struct {
	Width    int     `json:"width"`     // Viewport width in pixels
	Height   int     `json:"height"`    // Viewport height in pixels
	Scale    int     `json:"scale"`     // Window/snapshot pixels per viewport pixel
	FOV      float64 `json:"fov"`       // Horizontal field of view, degrees
	TickRate int     `json:"tick_rate"` // Simulation ticks per second
	Overhead bool    `json:"overhead"`  // Start in the top-down view

	MaxSpeed   float64 `json:"max_speed"`   // Units per second
	Accel      float64 `json:"accel"`       // Units per second squared
	Decel      float64 `json:"decel"`       // Units per second squared
	TurnSpeed  float64 `json:"turn_speed"`  // Radians per second
	StepHeight float64 `json:"step_height"` // Tallest walkable floor rise
	BodyHeight float64 `json:"body_height"` // Lowest passable opening
	EyeHeight  float64 `json:"eye_height"`  // Eye above floor
	Fly        bool    `json:"fly"`         // Start in fly mode
}

// Default returns the built-in settings.
func Default() *Config {
	p := player.DefaultConfig()
	return &Config{
		Width:      320,
		Height:     200,
		Scale:      3,
		FOV:        90,
		TickRate:   60,
		MaxSpeed:   p.MaxSpeed,
		Accel:      p.Accel,
		Decel:      p.Decel,
		TurnSpeed:  p.TurnSpeed,
		StepHeight: p.StepHeight,
		BodyHeight: p.BodyHeight,
		EyeHeight:  p.EyeHeight,
	}
}

// Load reads a JSON file over the defaults. Fields missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 || c.Width > 4096 || c.Height > 4096 {
		errs = append(errs, fmt.Errorf("viewport %dx%d out of range", c.Width, c.Height))
	}
	if c.Scale < 1 || c.Scale > 16 {
		errs = append(errs, fmt.Errorf("scale %d out of range 1..16", c.Scale))
	}
	if c.FOV <= 0 || c.FOV >= 180 {
		errs = append(errs, fmt.Errorf("fov %v out of range (0, 180)", c.FOV))
	}
	if c.TickRate <= 0 || c.TickRate > engine.MaxTickRate {
		errs = append(errs, fmt.Errorf("tick rate %d out of range 1..%d", c.TickRate, engine.MaxTickRate))
	}
	if c.MaxSpeed < 0 || c.Accel < 0 || c.Decel < 0 || c.TurnSpeed < 0 {
		errs = append(errs, errors.New("speeds must not be negative"))
	}
	if c.EyeHeight < 0 || c.StepHeight < 0 || c.BodyHeight < 0 {
		errs = append(errs, errors.New("heights must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Player returns the movement settings.
func (c *Config) Player() player.Config {
	p := player.DefaultConfig()
	p.MaxSpeed = c.MaxSpeed
	p.Accel = c.Accel
	p.Decel = c.Decel
	p.TurnSpeed = c.TurnSpeed
	p.StepHeight = c.StepHeight
	p.BodyHeight = c.BodyHeight
	p.EyeHeight = c.EyeHeight
	p.Fly = c.Fly
	return p
}

// Engine returns the frame loop settings.
func (c *Config) Engine() engine.Config {
	cfg := engine.Config{
		Width:    c.Width,
		Height:   c.Height,
		FOV:      c.FOV * math.Pi / 180,
		TickRate: c.TickRate,
		Player:   c.Player(),
	}
	if c.Overhead {
		cfg.View = engine.ViewOverhead
	}
	return cfg
}
