package models

import (
	"github.com/san-kum/causalab/internal/sim"
	"github.com/san-kum/causalab/internal/trace"
)

// HIV is the six-state within-host HIV model of Adams et al. (2004):
// two target cell populations, their infected counterparts, free virus,
// and the cytotoxic immune response. Epsilon1/Epsilon2 are treatment
// efficacies (zero means untreated).
type HIV struct {
	Lambda1  float64 // type 1 target cell production
	D1       float64 // type 1 target cell death
	K1       float64 // type 1 infection rate
	Lambda2  float64 // type 2 target cell production
	D2       float64 // type 2 target cell death
	K2       float64 // type 2 infection rate
	F        float64 // treatment efficacy reduction in type 2 cells
	Delta    float64 // infected cell death
	M1       float64 // type 1 immune-induced clearance
	M2       float64 // type 2 immune-induced clearance
	NT       float64 // virions per infected cell
	C        float64 // virus clearance
	Rho1     float64 // virions lost per type 1 infection
	Rho2     float64 // virions lost per type 2 infection
	LambdaE  float64 // immune effector production
	BE       float64 // max immune effector birth rate
	KB       float64 // immune birth saturation
	DE       float64 // max immune effector death rate
	KD       float64 // immune death saturation
	DeltaE   float64 // natural immune effector death
	Epsilon1 float64 // RT inhibitor efficacy
	Epsilon2 float64 // protease inhibitor efficacy
}

func NewHIV() *HIV {
	return &HIV{
		Lambda1: 1e4,
		D1:      0.01,
		K1:      8e-7,
		Lambda2: 31.98,
		D2:      0.01,
		K2:      1e-4,
		F:       0.34,
		Delta:   0.7,
		M1:      1e-5,
		M2:      1e-5,
		NT:      100,
		C:       13,
		Rho1:    1,
		Rho2:    1,
		LambdaE: 1,
		BE:      0.3,
		KB:      100,
		DE:      0.25,
		KD:      500,
		DeltaE:  0.1,
	}
}

func (h *HIV) StateDim() int {
	return 6
}

func (h *HIV) VarNames() []string {
	return []string{
		"uninfected_t1", "uninfected_t2",
		"infected_t1", "infected_t2",
		"free_virus", "immune_response",
	}
}

func (h *HIV) DefaultInit() sim.State {
	return sim.State{1e6, 3198, 1e-4, 1e-4, 1, 10}
}

func (h *HIV) Derive(x sim.State, t float64) sim.State {
	t1, t2 := x[0], x[1]
	t1s, t2s := x[2], x[3]
	v, e := x[4], x[5]

	inf1 := (1 - h.Epsilon1) * h.K1 * v * t1
	inf2 := (1 - h.F*h.Epsilon1) * h.K2 * v * t2
	infected := t1s + t2s

	dT1 := h.Lambda1 - h.D1*t1 - inf1
	dT2 := h.Lambda2 - h.D2*t2 - inf2
	dT1s := inf1 - h.Delta*t1s - h.M1*e*t1s
	dT2s := inf2 - h.Delta*t2s - h.M2*e*t2s
	dV := (1-h.Epsilon2)*h.NT*h.Delta*infected - h.C*v - h.Rho1*inf1 - h.Rho2*inf2
	dE := h.LambdaE +
		h.BE*infected/(infected+h.KB)*e -
		h.DE*infected/(infected+h.KD)*e -
		h.DeltaE*e

	return sim.State{dT1, dT2, dT1s, dT2s, dV, dE}
}

func (h *HIV) DeriveTape(tp *trace.Tape, x []trace.Val, t float64) []trace.Val {
	t1, t2 := x[0], x[1]
	t1s, t2s := x[2], x[3]
	v, e := x[4], x[5]

	inf1 := v.Mul(t1).MulC((1 - h.Epsilon1) * h.K1)
	inf2 := v.Mul(t2).MulC((1 - h.F*h.Epsilon1) * h.K2)
	infected := t1s.Add(t2s)

	dT1 := t1.MulC(-h.D1).Sub(inf1).AddC(h.Lambda1)
	dT2 := t2.MulC(-h.D2).Sub(inf2).AddC(h.Lambda2)
	dT1s := inf1.Sub(t1s.MulC(h.Delta)).Sub(e.Mul(t1s).MulC(h.M1))
	dT2s := inf2.Sub(t2s.MulC(h.Delta)).Sub(e.Mul(t2s).MulC(h.M2))
	dV := infected.MulC((1 - h.Epsilon2) * h.NT * h.Delta).
		Sub(v.MulC(h.C)).
		Sub(inf1.MulC(h.Rho1)).
		Sub(inf2.MulC(h.Rho2))
	dE := infected.MulC(h.BE).Div(infected.AddC(h.KB)).Mul(e).
		Sub(infected.MulC(h.DE).Div(infected.AddC(h.KD)).Mul(e)).
		Sub(e.MulC(h.DeltaE)).
		AddC(h.LambdaE)

	return []trace.Val{dT1, dT2, dT1s, dT2s, dV, dE}
}
