package metrics

import (
	"github.com/san-kum/fieldtex/internal/field"
	"github.com/san-kum/fieldtex/internal/sim"
)

// MeanRadius is the mean distance of the masses from the origin.
type MeanRadius struct {
	name    string
	samples int
	total   float64
}

func NewMeanRadius() *MeanRadius {
	return &MeanRadius{name: "mean_radius"}
}

func (r *MeanRadius) Name() string { return r.name }

func (r *MeanRadius) Observe(f *sim.MassField, _ *field.Params) {
	for _, m := range f.States {
		r.total += m.Pos.Len()
		r.samples++
	}
}

func (r *MeanRadius) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return r.total / float64(r.samples)
}

func (r *MeanRadius) Reset() {
	r.total = 0
	r.samples = 0
}

// Captured is the fraction of masses within Scale softening lengths of
// their nearest node.
type Captured struct {
	name     string
	scale    float64
	captured int
	samples  int
}

func NewCaptured(scale float64) *Captured {
	return &Captured{name: "captured", scale: scale}
}

func (c *Captured) Name() string { return c.name }

func (c *Captured) Observe(f *sim.MassField, p *field.Params) {
	if p == nil {
		return
	}
	r := c.scale * p.SofteningLength
	r2 := r * r
	for _, m := range f.States {
		c.samples++
		if idx, d2 := p.NearestNode(m.Pos); idx >= 0 && d2 <= r2 {
			c.captured++
		}
	}
}

func (c *Captured) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.captured) / float64(c.samples)
}

func (c *Captured) Reset() {
	c.captured = 0
	c.samples = 0
}
