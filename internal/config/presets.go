package config

import (
	"sort"

	"github.com/san-kum/drivesim/internal/physics"
)

func preset(name string, mutate func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	mutate(cfg)
	return cfg
}

var Presets = map[string]*Config{
	// Five random markers, 25 fps, 30 s episodes.
	"gym": preset("gym", func(c *Config) {}),
	// A single high value marker far from the origin.
	"single": preset("single", func(c *Config) {
		c.Rewards = []MarkerConfig{{X: 1000, Y: 700, Value: 100}}
	}),
	// Windowed demo layout: start mid screen, one marker in each corner region.
	"window": preset("window", func(c *Config) {
		c.Vehicle = physics.NewVehicleState(physics.WithPosition(700, 400))
		c.Rewards = []MarkerConfig{
			{X: 10, Y: 10, Value: 10},
			{X: 1000, Y: 700, Value: 100},
		}
	}),
	// Dense random field for longer episodes.
	"sprint": preset("sprint", func(c *Config) {
		c.Duration = 60
		c.Arena.Count = 20
		c.Arena.Value = 5
	}),
	// Nimble car: short wheelbase, tight steer limit, lower top speed.
	"kart": preset("kart", func(c *Config) {
		c.Vehicle = physics.NewVehicleState(physics.WithWheelbase(30), physics.WithMaxSpeed(300))
		c.Limits.MaxAcceleration = 200
		c.Pursuit.Cruise = 150
	}),
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	c.Rewards = append([]MarkerConfig(nil), cfg.Rewards...)
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
