package models

import (
	"github.com/san-kum/causalab/internal/sim"
	"github.com/san-kum/causalab/internal/trace"
)

// SIR is the classic susceptible-infectious-recovered epidemic model
// with frequency-dependent transmission.
type SIR struct {
	Beta       float64 // transmission rate
	Gamma      float64 // recovery rate
	Population float64
}

func NewSIR() *SIR {
	return &SIR{
		Beta:       0.3,
		Gamma:      0.1,
		Population: 1000.0,
	}
}

func (s *SIR) StateDim() int {
	return 3
}

func (s *SIR) VarNames() []string {
	return []string{"susceptible", "infectious", "recovered"}
}

func (s *SIR) DefaultInit() sim.State {
	return sim.State{s.Population - 10, 10, 0}
}

func (s *SIR) Derive(x sim.State, t float64) sim.State {
	su := x[0]
	in := x[1]

	force := s.Beta * su * in / s.Population
	return sim.State{-force, force - s.Gamma*in, s.Gamma * in}
}

func (s *SIR) DeriveTape(tp *trace.Tape, x []trace.Val, t float64) []trace.Val {
	su := x[0]
	in := x[1]

	force := su.Mul(in).MulC(s.Beta / s.Population)
	recover := in.MulC(s.Gamma)

	return []trace.Val{force.Neg(), force.Sub(recover), recover}
}
