package field

import (
	"fmt"
	"math"

	"github.com/san-kum/fieldtex/internal/vecmath"
)

// Layout describes the rotating node ring.
type Layout struct {
	NodeCount int
	Radius    float64
	// TimeScale converts the animation clock into a rotation angle in
	// radians.
	TimeScale float64
}

func DefaultLayout() Layout {
	return Layout{
		NodeCount: DefaultNodeCount,
		Radius:    DefaultNodeRadius,
		TimeScale: DefaultTimeScale,
	}
}

func (l Layout) Validate() error {
	if l.NodeCount <= 0 {
		return fmt.Errorf("%w: node count must be positive, got %d", ErrInvalidParams, l.NodeCount)
	}
	if math.IsNaN(l.Radius) || math.IsInf(l.Radius, 0) {
		return fmt.Errorf("%w: node radius must be finite, got %g", ErrInvalidParams, l.Radius)
	}
	if math.IsNaN(l.TimeScale) || math.IsInf(l.TimeScale, 0) {
		return fmt.Errorf("%w: time scale must be finite, got %g", ErrInvalidParams, l.TimeScale)
	}
	return nil
}

// BaseNodes returns the unrotated ring: node k at angle k*2π/N. For four
// nodes that is (r,0), (0,r), (-r,0), (0,-r).
func (l Layout) BaseNodes() []vecmath.Vec2 {
	nodes := make([]vecmath.Vec2, l.NodeCount)
	for k := range nodes {
		nodes[k] = baseNode(k, l.NodeCount, l.Radius)
	}
	return nodes
}

func baseNode(k, n int, r float64) vecmath.Vec2 {
	// Exact quarter turns keep the default ring free of cos(π/2) noise.
	if n%4 == 0 {
		switch q := 4 * k; {
		case q == 0:
			return vecmath.Vec2{X: r}
		case q == n:
			return vecmath.Vec2{Y: r}
		case q == 2*n:
			return vecmath.Vec2{X: -r}
		case q == 3*n:
			return vecmath.Vec2{Y: -r}
		}
	}
	s, c := math.Sincos(2 * math.Pi * float64(k) / float64(n))
	return vecmath.Vec2{X: r * c, Y: r * s}
}

// Angle is the ring rotation at the given clock value.
func (l Layout) Angle(clock float64) float64 { return clock * l.TimeScale }

// MakeParams builds a fresh Params for the given clock by rotating the base
// ring through Angle(clock).
func MakeParams(clock float64, l Layout, c Coefficients) (*Params, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	rot := vecmath.Rotation(l.Angle(clock))
	nodes := l.BaseNodes()
	for i, n := range nodes {
		nodes[i] = rot.MulVec(n)
	}
	return NewParams(nodes, c)
}
