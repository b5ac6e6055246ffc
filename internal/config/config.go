package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fieldtex/internal/field"
	"github.com/san-kum/fieldtex/internal/integrators"
	"github.com/san-kum/fieldtex/internal/sim"
	"github.com/san-kum/fieldtex/internal/vecmath"
)

const DefaultPreset = "reference"

type Config struct {
	Preset     string       `yaml:"preset,omitempty"`
	Grid       GridConfig   `yaml:"grid"`
	Frames     int          `yaml:"frames"`
	Substeps   int          `yaml:"substeps"`
	Dt         float64      `yaml:"dt"`
	Integrator string       `yaml:"integrator"`
	Workers    int          `yaml:"workers"`
	Model      ModelConfig  `yaml:"model"`
	Box        BoxConfig    `yaml:"box"`
	Seed       SeedConfig   `yaml:"seed"`
	Output     OutputConfig `yaml:"output"`
}

type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type ModelConfig struct {
	Softening  float64 `yaml:"softening"`
	Drag       float64 `yaml:"drag"`
	Spring     float64 `yaml:"spring"`
	Nodes      int     `yaml:"nodes"`
	NodeRadius float64 `yaml:"node_radius"`
	TimeScale  float64 `yaml:"time_scale"`
}

type BoxConfig struct {
	Origin [2]float64 `yaml:"origin"`
	Size   [2]float64 `yaml:"size"`
}

type SeedConfig struct {
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`
}

type OutputConfig struct {
	Dir                 string `yaml:"dir"`
	ContinueOnSinkError bool   `yaml:"continue_on_error"`
}

func DefaultConfig() *Config {
	return FromSim(sim.DefaultConfig())
}

// FromSim converts a simulator config into its file form.
func FromSim(c sim.Config) *Config {
	return &Config{
		Grid:       GridConfig{Width: c.Width, Height: c.Height},
		Frames:     c.Frames,
		Substeps:   c.Substeps,
		Dt:         c.Dt,
		Integrator: c.Integrator,
		Workers:    c.Workers,
		Model: ModelConfig{
			Softening:  c.Coefficients.SofteningLength,
			Drag:       c.Coefficients.Drag,
			Spring:     c.Coefficients.Spring,
			Nodes:      c.Layout.NodeCount,
			NodeRadius: c.Layout.Radius,
			TimeScale:  c.Layout.TimeScale,
		},
		Box: BoxConfig{
			Origin: [2]float64{c.Box.Origin.X, c.Box.Origin.Y},
			Size:   [2]float64{c.Box.Size.X, c.Box.Size.Y},
		},
		Seed: SeedConfig{Amplitude: c.Seed.Amplitude, Frequency: c.Seed.Frequency},
		Output: OutputConfig{
			Dir:                 DefaultOutputDir,
			ContinueOnSinkError: c.ContinueOnSinkError,
		},
	}
}

const DefaultOutputDir = ".fieldtex"

// ToSim converts the file form into a simulator config. It does not
// validate; sim.New does.
func (c *Config) ToSim() sim.Config {
	integ := c.Integrator
	if integ == "" {
		integ = integrators.DefaultName
	}
	return sim.Config{
		Width:    c.Grid.Width,
		Height:   c.Grid.Height,
		Frames:   c.Frames,
		Substeps: c.Substeps,
		Dt:       c.Dt,
		Box: sim.Box{
			Origin: vecmath.Vec2{X: c.Box.Origin[0], Y: c.Box.Origin[1]},
			Size:   vecmath.Vec2{X: c.Box.Size[0], Y: c.Box.Size[1]},
		},
		Layout: field.Layout{
			NodeCount: c.Model.Nodes,
			Radius:    c.Model.NodeRadius,
			TimeScale: c.Model.TimeScale,
		},
		Coefficients: field.Coefficients{
			SofteningLength: c.Model.Softening,
			Drag:            c.Model.Drag,
			Spring:          c.Model.Spring,
		},
		Seed:                sim.Seed{Amplitude: c.Seed.Amplitude, Frequency: c.Seed.Frequency},
		Integrator:          integ,
		Workers:             c.Workers,
		ValidateState:       true,
		ContinueOnSinkError: c.Output.ContinueOnSinkError,
	}
}

// Validate checks the config the same way the simulator will.
func (c *Config) Validate() error {
	return c.ToSim().Validate()
}

// Load reads a YAML file over the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto overlays a YAML file onto cfg. A preset named in the file
// replaces cfg before the file's own keys are applied.
func LoadInto(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return err
	}

	if head.Preset != "" {
		p, err := LookupPreset(head.Preset)
		if err != nil {
			return err
		}
		*cfg = *p
	}
	return yaml.Unmarshal(data, cfg)
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
