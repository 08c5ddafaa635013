package models

import (
	"math"

	"github.com/san-kum/causalab/internal/sim"
	"github.com/san-kum/causalab/internal/trace"
)

type Pendulum struct {
	Mass    float64
	Length  float64
	Damping float64
	Gravity float64
}

func NewPendulum() *Pendulum {
	return &Pendulum{
		Mass:    1.0,
		Length:  1.0,
		Damping: 0.1,
		Gravity: 9.81,
	}
}

func (p *Pendulum) StateDim() int {
	return 2
}

func (p *Pendulum) VarNames() []string {
	return []string{"theta", "omega"}
}

func (p *Pendulum) DefaultInit() sim.State {
	return sim.State{0.5, 0.0}
}

func (p *Pendulum) Derive(x sim.State, t float64) sim.State {
	theta := x[0]
	omega := x[1]

	alpha := (-p.Damping*omega - p.Mass*p.Gravity*p.Length*math.Sin(theta)) / (p.Mass * p.Length * p.Length)

	return sim.State{omega, alpha}
}

func (p *Pendulum) DeriveTape(tp *trace.Tape, x []trace.Val, t float64) []trace.Val {
	theta := x[0]
	omega := x[1]

	ml2 := p.Mass * p.Length * p.Length
	alpha := omega.MulC(-p.Damping).Sub(theta.Sin().MulC(p.Mass * p.Gravity * p.Length)).DivC(ml2)

	return []trace.Val{omega, alpha}
}
