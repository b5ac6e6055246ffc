// Package field implements the attractor force model.
//
// A mass at position p with velocity v accelerates as
//
//	a = -(Spring*p + Drag*v) + Σ (n - p) / (|n - p|² + d²)^1.5
//
// summed over the attractor nodes n, with d the softening length. The
// softening keeps the pull finite when a mass sits exactly on a node.
//
// Node geometry rotates with a macroscopic clock: see [MakeParams].
package field

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/fieldtex/internal/vecmath"
)

const (
	DefaultNodeCount       = 4
	DefaultNodeRadius      = 0.5
	DefaultTimeScale       = 30.0
	DefaultSofteningLength = 0.1
	DefaultDrag            = 0.2
	DefaultSpring          = 0.2
)

var ErrInvalidParams = errors.New("field: invalid parameters")

// Coefficients are the scalar constants of the force law.
type Coefficients struct {
	// SofteningLength regularizes the inverse-square pull near a node.
	// It damps nothing; Drag is the only velocity-dependent term.
	SofteningLength float64
	Drag            float64
	Spring          float64
}

func DefaultCoefficients() Coefficients {
	return Coefficients{
		SofteningLength: DefaultSofteningLength,
		Drag:            DefaultDrag,
		Spring:          DefaultSpring,
	}
}

func (c Coefficients) Validate() error {
	if math.IsNaN(c.SofteningLength) || math.IsInf(c.SofteningLength, 0) || c.SofteningLength <= 0 {
		return fmt.Errorf("%w: softening length must be positive and finite, got %g", ErrInvalidParams, c.SofteningLength)
	}
	if math.IsNaN(c.Drag) || math.IsInf(c.Drag, 0) {
		return fmt.Errorf("%w: drag must be finite, got %g", ErrInvalidParams, c.Drag)
	}
	if math.IsNaN(c.Spring) || math.IsInf(c.Spring, 0) {
		return fmt.Errorf("%w: spring must be finite, got %g", ErrInvalidParams, c.Spring)
	}
	return nil
}

// Params is the force field for one frame. It is built once and only read
// afterwards, so a single value can be shared by every worker.
type Params struct {
	Nodes []vecmath.Vec2
	Coefficients
}

// NewParams copies nodes and validates the coefficients.
func NewParams(nodes []vecmath.Vec2, c Coefficients) (*Params, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	for i, n := range nodes {
		if !n.IsFinite() {
			return nil, fmt.Errorf("%w: node %d is not finite", ErrInvalidParams, i)
		}
	}
	ns := make([]vecmath.Vec2, len(nodes))
	copy(ns, nodes)
	return &Params{Nodes: ns, Coefficients: c}, nil
}

// Acceleration returns the force on a unit mass at pos moving with vel.
func (p *Params) Acceleration(pos, vel vecmath.Vec2) vecmath.Vec2 {
	force := pos.Scale(p.Spring).Add(vel.Scale(p.Drag)).Neg()
	dd := p.SofteningLength * p.SofteningLength
	for _, n := range p.Nodes {
		dp := n.Sub(pos)
		force = force.Add(dp.Scale(1 / math.Pow(dp.Len2()+dd, 1.5)))
	}
	return force
}

// Derive reduces the second-order motion to first order:
// (pos, vel) -> (vel, acc).
func (p *Params) Derive(x vecmath.Vec4) vecmath.Vec4 {
	pos, vel := x.Split()
	return vecmath.Pack4(vel, p.Acceleration(pos, vel))
}

// NearestNode returns the index of the node closest to pos and the squared
// distance to it, or -1 when there are no nodes.
func (p *Params) NearestNode(pos vecmath.Vec2) (int, float64) {
	best, bestD := -1, math.Inf(1)
	for i, n := range p.Nodes {
		if d := n.Sub(pos).Len2(); d < bestD {
			best, bestD = i, d
		}
	}
	return best, bestD
}
