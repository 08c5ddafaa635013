package models

import (
	"math"
	"testing"

	"github.com/san-kum/causalab/internal/sim"
	"github.com/san-kum/causalab/internal/trace"
)

type tracedModel interface {
	sim.System
	trace.System
	DefaultInit() sim.State
}

// Derive and DeriveTape must compute identical values: the tracer
// believes the tape is the simulator.
func TestDeriveMatchesTape(t *testing.T) {
	tests := []struct {
		name  string
		model tracedModel
	}{
		{"pendulum", NewPendulum()},
		{"lotka_volterra", NewLotkaVolterra()},
		{"sir", NewSIR()},
		{"hiv", NewHIV()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := tt.model.DefaultInit()
			want := tt.model.Derive(x, 0)

			tp := trace.NewTape()
			vals := make([]trace.Val, len(x))
			for i, v := range x {
				vals[i] = tp.Input(v)
			}
			got := tt.model.DeriveTape(tp, vals, 0)

			if len(got) != len(want) {
				t.Fatalf("tape derivative has %d components, want %d", len(got), len(want))
			}
			for i := range want {
				rel := math.Abs(got[i].Value() - want[i])
				if math.Abs(want[i]) > 1 {
					rel /= math.Abs(want[i])
				}
				if rel > 1e-12 {
					t.Errorf("component %d: tape %.12g, plain %.12g", i, got[i].Value(), want[i])
				}
			}
		})
	}
}

func TestVarNamesMatchDim(t *testing.T) {
	models := []tracedModel{NewPendulum(), NewLotkaVolterra(), NewSIR(), NewHIV()}
	for _, m := range models {
		if len(m.VarNames()) != m.StateDim() {
			t.Errorf("%T: %d names for %d dims", m, len(m.VarNames()), m.StateDim())
		}
		if len(m.DefaultInit()) != m.StateDim() {
			t.Errorf("%T: default init has %d vars for %d dims", m, len(m.DefaultInit()), m.StateDim())
		}
	}
}

func TestSIRConservesPopulation(t *testing.T) {
	m := NewSIR()
	x := m.DefaultInit()

	// dS + dI + dR = 0 at any state.
	d := m.Derive(x, 0)
	sum := d[0] + d[1] + d[2]
	if math.Abs(sum) > 1e-9 {
		t.Errorf("population not conserved: d sum = %g", sum)
	}
}

func TestLotkaVolterraFixedPoint(t *testing.T) {
	m := NewLotkaVolterra()

	// The nontrivial equilibrium (gamma/delta, alpha/beta) has zero derivative.
	x := sim.State{m.Gamma / m.Delta, m.Alpha / m.Beta}
	d := m.Derive(x, 0)
	if math.Abs(d[0]) > 1e-9 || math.Abs(d[1]) > 1e-9 {
		t.Errorf("expected equilibrium, got derivative %v", d)
	}
}

func TestPendulumRestingState(t *testing.T) {
	m := NewPendulum()
	d := m.Derive(sim.State{0, 0}, 0)
	if d[0] != 0 || d[1] != 0 {
		t.Errorf("hanging pendulum should be at rest, got %v", d)
	}
}
