package integrators

import "github.com/san-kum/fieldtex/internal/vecmath"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys System, x vecmath.Vec4, dt float64) vecmath.Vec4 {
	return x.Add(sys.Derive(x).Scale(dt))
}
