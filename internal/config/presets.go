package config

import (
	"fmt"
	"sort"
)

// Presets are named variations on the reference configuration.
var Presets = map[string]func(*Config){
	"reference": func(c *Config) {},
	"preview": func(c *Config) {
		c.Grid = GridConfig{Width: 150, Height: 100}
		c.Frames = 3
	},
	"hires": func(c *Config) {
		c.Grid = GridConfig{Width: 1200, Height: 800}
	},
	"long": func(c *Config) {
		c.Frames = 120
	},
	"tight": func(c *Config) {
		c.Model.Softening = 0.05
		c.Substeps = 40
		c.Dt = 0.005
	},
	"wide": func(c *Config) {
		c.Grid = GridConfig{Width: 480, Height: 200}
		c.Box = BoxConfig{Origin: [2]float64{-2.64, -1.1}, Size: [2]float64{5.28, 2.2}}
	},
}

// GetPreset returns a fresh config for the named preset, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	cfg.Preset = name
	return cfg
}

// LookupPreset is GetPreset with an error naming the available presets.
func LookupPreset(name string) (*Config, error) {
	cfg := GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, ListPresets())
	}
	return cfg, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
