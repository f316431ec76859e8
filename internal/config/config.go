package config

import (
	"fmt"
	"os"

	"github.com/san-kum/drivesim/internal/control"
	"github.com/san-kum/drivesim/internal/dynamo"
	"github.com/san-kum/drivesim/internal/physics"
	"github.com/san-kum/drivesim/internal/reward"
	"github.com/san-kum/drivesim/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFPS      = 25.0
	DefaultDuration = 30.0
	DefaultRewards  = 5
	DefaultValue    = 10.0
)

type Config struct {
	Name       string               `yaml:"name"`
	Controller string               `yaml:"controller"`
	Selection  string               `yaml:"selection"`
	FPS        float64              `yaml:"fps"`
	Duration   float64              `yaml:"duration"`
	Seed       int64                `yaml:"seed"`
	Vehicle    physics.VehicleState `yaml:"vehicle"`
	Limits     sim.Limits           `yaml:"limits"`
	Rewards    []MarkerConfig       `yaml:"rewards"`
	Arena      ArenaConfig          `yaml:"arena"`
	Pursuit    control.PursuitGains `yaml:"pursuit"`
}

type MarkerConfig struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Value float64 `yaml:"value"`
}

// ArenaConfig places random markers when Rewards is empty.
type ArenaConfig struct {
	Count int     `yaml:"count"`
	Value float64 `yaml:"value"`
	MinX  float64 `yaml:"min_x"`
	MaxX  float64 `yaml:"max_x"`
	MinY  float64 `yaml:"min_y"`
	MaxY  float64 `yaml:"max_y"`
}

func DefaultArena() ArenaConfig {
	return ArenaConfig{
		Count: DefaultRewards,
		Value: DefaultValue,
		MinX:  50,
		MaxX:  1230,
		MinY:  50,
		MaxY:  750,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Name:       "default",
		Controller: "pursuit",
		Selection:  "nearest",
		FPS:        DefaultFPS,
		Duration:   DefaultDuration,
		Vehicle:    physics.DefaultVehicleState(),
		Limits:     sim.DefaultLimits(),
		Arena:      DefaultArena(),
		Pursuit:    control.DefaultPursuitGains(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Dt is the tick length in seconds.
func (c *Config) Dt() float64 {
	return 1.0 / c.FPS
}

// Markers returns the fixed markers, nil when the arena places them randomly.
func (c *Config) Markers() []reward.Marker {
	if len(c.Rewards) == 0 {
		return nil
	}
	out := make([]reward.Marker, len(c.Rewards))
	for i, r := range c.Rewards {
		out[i] = reward.NewMarker(r.X, r.Y, r.Value)
	}
	return out
}

func (c *Config) Validate() error {
	if !dynamo.IsFinite(c.FPS) || c.FPS <= 0 {
		return fmt.Errorf("fps must be positive and finite, got %f: %w", c.FPS, dynamo.ErrParameterBounds)
	}
	if !dynamo.IsFinite(c.Duration) || c.Duration <= 0 {
		return fmt.Errorf("duration must be positive and finite, got %f: %w", c.Duration, dynamo.ErrParameterBounds)
	}
	if err := c.Vehicle.Validate(); err != nil {
		return fmt.Errorf("vehicle: %w", err)
	}
	if err := c.Limits.Validate(); err != nil {
		return fmt.Errorf("limits: %w", err)
	}
	if len(c.Rewards) == 0 {
		if c.Arena.Count < 0 {
			return fmt.Errorf("arena count must be non-negative, got %d", c.Arena.Count)
		}
		if c.Arena.MaxX < c.Arena.MinX || c.Arena.MaxY < c.Arena.MinY {
			return fmt.Errorf("arena bounds are inverted")
		}
	}
	return nil
}
