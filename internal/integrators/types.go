// Package integrators provides fixed-step ODE steppers for a single mass.
//
// State is a vecmath.Vec4 of (pos.x, pos.y, vel.x, vel.y). Steppers hold no
// scratch state and may be shared between goroutines.
package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/fieldtex/internal/vecmath"
)

// System is a first-order ODE dX/dt = f(X).
type System interface {
	Derive(x vecmath.Vec4) vecmath.Vec4
}

type Stepper interface {
	Step(sys System, x vecmath.Vec4, dt float64) vecmath.Vec4
}

const DefaultName = "rk4"

var registry = map[string]func() Stepper{
	"rk4":   func() Stepper { return NewRK4() },
	"euler": func() Stepper { return NewEuler() },
}

// Get returns the stepper registered under name.
func Get(name string) (Stepper, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, Names())
	}
	return factory(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
