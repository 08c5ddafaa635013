package trace

import (
	"fmt"

	"github.com/san-kum/causalab/internal/graph"
)

// NodeID names the graph node for variable name at save step k.
func NodeID(name string, step int) string {
	return fmt.Sprintf("%s@%d", name, step)
}

// Tracer unrolls a simulation over the tape and reads the causal
// dependency structure out of the recorded partials.
type Tracer struct {
	dyn    System
	step   func(tp *Tape, dyn System, x []Val, t, dt float64) []Val
	method string
}

func NewTracer(dyn System, method string) (*Tracer, error) {
	tr := &Tracer{dyn: dyn, method: method}
	switch method {
	case "euler":
		tr.step = StepEuler
	case "rk4":
		tr.step = StepRK4
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
	return tr, nil
}

// Run traces the simulation from x0 for saves save points, stride
// integrator steps apart, and returns the unrolled dependency graph
// over "name@step" nodes. An edge name_i@k -> name_j@k+1 is emitted
// when the accumulated first-order partial of x_j at save k+1 with
// respect to x_i at save k is nonzero at the traced operating point.
func (tr *Tracer) Run(x0 []float64, dt float64, saves, stride int) (*graph.Graph, error) {
	if stride < 1 {
		return nil, ErrBadStride
	}
	if len(x0) != tr.dyn.StateDim() {
		return nil, fmt.Errorf("trace: initial state has %d vars, system wants %d", len(x0), tr.dyn.StateDim())
	}

	names := tr.dyn.VarNames()
	g := graph.New()
	for k := 0; k <= saves; k++ {
		for _, name := range names {
			if err := g.AddNode(NodeID(name, k)); err != nil {
				return nil, err
			}
		}
	}

	// One tape segment per save interval: seed inputs with the current
	// values, run stride steps, sweep each output back to the inputs.
	cur := make([]float64, len(x0))
	copy(cur, x0)
	tp := NewTape()
	t := 0.0

	for k := 0; k < saves; k++ {
		tp.Reset()

		inputs := make([]Val, len(cur))
		for i, v := range cur {
			inputs[i] = tp.Input(v)
		}

		x := inputs
		for s := 0; s < stride; s++ {
			x = tr.step(tp, tr.dyn, x, t, dt)
			t += dt
		}

		for j, out := range x {
			if !out.valid() {
				return nil, fmt.Errorf("%w: %s at save %d", ErrDiverged, names[j], k+1)
			}
			adj := tp.Adjoints(out)
			for i, in := range inputs {
				if adj[in.id] != 0 {
					from := NodeID(names[i], k)
					to := NodeID(names[j], k+1)
					if err := g.AddDirected(from, to); err != nil {
						return nil, err
					}
				}
			}
			cur[j] = out.Value()
		}
	}

	return g, nil
}

// ProjectTruth traces the full simulation and projects the unrolled
// graph onto the observed save steps, yielding the ground truth against
// which discovery output is scored. obsSteps index into the save grid.
func (tr *Tracer) ProjectTruth(x0 []float64, dt float64, saves, stride int, obsSteps []int) (*graph.Graph, error) {
	full, err := tr.Run(x0, dt, saves, stride)
	if err != nil {
		return nil, err
	}

	names := tr.dyn.VarNames()
	observed := make([]string, 0, len(obsSteps)*len(names))
	for _, k := range obsSteps {
		if k < 0 || k > saves {
			return nil, fmt.Errorf("trace: observed step %d outside save range [0, %d]", k, saves)
		}
		for _, name := range names {
			observed = append(observed, NodeID(name, k))
		}
	}

	return full.Project(observed)
}
