package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/causalab/internal/integrators"
	"github.com/san-kum/causalab/internal/models"
	"github.com/san-kum/causalab/internal/sim"
	"github.com/san-kum/causalab/internal/trace"
)

// Model is a system runnable by both the simulator and the tracer.
type Model interface {
	sim.System
	trace.System
	DefaultInit() sim.State
}

type Registry struct {
	models      map[string]func() Model
	integrators map[string]func() sim.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]func() Model),
		integrators: make(map[string]func() sim.Integrator),
	}

	r.models["pendulum"] = func() Model { return models.NewPendulum() }
	r.models["lotka_volterra"] = func() Model { return models.NewLotkaVolterra() }
	r.models["sir"] = func() Model { return models.NewSIR() }
	r.models["hiv"] = func() Model { return models.NewHIV() }

	// Only steppers the tracer mirrors are registered; truth and data
	// must come from the same integration scheme.
	r.integrators["euler"] = func() sim.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() sim.Integrator { return integrators.NewRK4() }

	return r
}

func (r *Registry) GetModel(name string) (Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetIntegrator(name string) (sim.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
