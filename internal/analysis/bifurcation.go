package analysis

import (
	"github.com/san-kum/causalab/internal/sim"
)

// BifurcationPoint holds the distinct attractor values observed at one
// parameter setting.
type BifurcationPoint struct {
	Param  float64
	Values []float64
}

// Bifurcation sweeps a model parameter and records, for each setting,
// the distinct values one state variable visits after transients die
// out. A fixed point yields one value, a limit cycle a band, chaos a
// cloud. The build function constructs the system for a given
// parameter value.
func Bifurcation(
	build func(param float64) sim.System,
	integ sim.Integrator,
	x0 sim.State,
	paramMin, paramMax float64,
	paramSteps, stateIndex int,
	dt, transient, record float64,
) []BifurcationPoint {
	if paramSteps < 1 || stateIndex < 0 || stateIndex >= len(x0) {
		return nil
	}

	points := make([]BifurcationPoint, 0, paramSteps)
	paramStep := (paramMax - paramMin) / float64(paramSteps)

	for p := 0; p < paramSteps; p++ {
		param := paramMin + float64(p)*paramStep
		dyn := build(param)

		x := x0.Clone()
		t := 0.0
		for t < transient {
			x = integ.Step(dyn, x, t, dt)
			t += dt
		}

		// Quantize to collapse near-identical values into one bin.
		seen := make(map[int]bool)
		values := make([]float64, 0)
		end := t + record
		for t < end {
			x = integ.Step(dyn, x, t, dt)
			t += dt
			if !x.IsValid() {
				break
			}

			val := x[stateIndex]
			key := int(val * 1000)
			if !seen[key] {
				seen[key] = true
				values = append(values, val)
			}
		}

		points = append(points, BifurcationPoint{Param: param, Values: values})
	}

	return points
}
