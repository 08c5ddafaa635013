package integrators

import "github.com/san-kum/causalab/internal/sim"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn sim.System, x sim.State, t float64, dt float64) sim.State {
	dx := dyn.Derive(x, t)
	result := make(sim.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
