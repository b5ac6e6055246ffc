package integrators

import "github.com/san-kum/fieldtex/internal/vecmath"

// RK4 is the classical fourth-order Runge-Kutta method.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(sys System, x vecmath.Vec4, dt float64) vecmath.Vec4 {
	k1 := sys.Derive(x)
	k2 := sys.Derive(x.Add(k1.Scale(dt / 2)))
	k3 := sys.Derive(x.Add(k2.Scale(dt / 2)))
	k4 := sys.Derive(x.Add(k3.Scale(dt)))

	sum := k1.Add(k2.Scale(2)).Add(k3.Scale(2)).Add(k4)
	return x.Add(sum.Scale(dt / 6))
}
