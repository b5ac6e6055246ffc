package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/fieldtex/internal/field"
	"github.com/san-kum/fieldtex/internal/integrators"
	"github.com/san-kum/fieldtex/internal/vecmath"
)

const (
	DefaultWidth         = 300
	DefaultHeight        = 200
	DefaultFrames        = 10
	DefaultSubsteps      = 20
	DefaultDt            = 0.01
	DefaultSeedAmplitude = 0.05
	DefaultSeedFrequency = 10.0
)

type Config struct {
	Width    int
	Height   int
	Frames   int
	Substeps int
	// Dt is both the clock advance per frame and the size of every sub-step.
	Dt           float64
	Box          Box
	Layout       field.Layout
	Coefficients field.Coefficients
	Seed         Seed
	Integrator   string
	// Workers bounds the goroutines stepping rows; 0 means GOMAXPROCS.
	Workers             int
	ValidateState       bool
	ContinueOnSinkError bool
}

func DefaultBox() Box {
	return Box{
		Origin: vecmath.Vec2{X: -1.65, Y: -1.1},
		Size:   vecmath.Vec2{X: 3.3, Y: 2.2},
	}
}

func DefaultConfig() Config {
	return Config{
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		Frames:        DefaultFrames,
		Substeps:      DefaultSubsteps,
		Dt:            DefaultDt,
		Box:           DefaultBox(),
		Layout:        field.DefaultLayout(),
		Coefficients:  field.DefaultCoefficients(),
		Seed:          Seed{Amplitude: DefaultSeedAmplitude, Frequency: DefaultSeedFrequency},
		Integrator:    integrators.DefaultName,
		ValidateState: true,
	}
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: grid must be positive, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.Frames <= 0 {
		return fmt.Errorf("%w: frames must be positive, got %d", ErrInvalidConfig, c.Frames)
	}
	if c.Substeps <= 0 {
		return fmt.Errorf("%w: substeps must be positive, got %d", ErrInvalidConfig, c.Substeps)
	}
	if !finite(c.Dt) || c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if !c.Box.Origin.IsFinite() || !c.Box.Size.IsFinite() {
		return fmt.Errorf("%w: box must be finite, got %+v", ErrInvalidConfig, c.Box)
	}
	if !finite(c.Seed.Amplitude) || !finite(c.Seed.Frequency) {
		return fmt.Errorf("%w: seed must be finite, got %+v", ErrInvalidConfig, c.Seed)
	}
	if err := c.Layout.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Coefficients.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Integrator != "" {
		if _, err := integrators.Get(c.Integrator); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// SimulatedTime is the time each mass advances per frame.
func (c Config) SimulatedTime() float64 { return float64(c.Substeps) * c.Dt }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
