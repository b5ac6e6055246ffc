// Package metrics summarizes the mass field once per frame.
package metrics

import (
	"math"

	"github.com/san-kum/fieldtex/internal/field"
	"github.com/san-kum/fieldtex/internal/sim"
)

// Default returns the metrics recorded for every render.
func Default() []sim.Metric {
	return []sim.Metric{
		NewKineticEnergy(),
		NewMaxSpeed(),
		NewMeanRadius(),
		NewCaptured(1),
	}
}

// KineticEnergy is the mean of ½|v|² over all masses.
type KineticEnergy struct {
	name    string
	samples int
	total   float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(f *sim.MassField, _ *field.Params) {
	for _, m := range f.States {
		e.total += 0.5 * m.Vel.Len2()
		e.samples++
	}
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.samples = 0
}

type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (s *MaxSpeed) Name() string { return s.name }

func (s *MaxSpeed) Observe(f *sim.MassField, _ *field.Params) {
	best := s.max * s.max
	for _, m := range f.States {
		best = math.Max(best, m.Vel.Len2())
	}
	s.max = math.Sqrt(best)
}

func (s *MaxSpeed) Value() float64 { return s.max }

func (s *MaxSpeed) Reset() { s.max = 0 }
