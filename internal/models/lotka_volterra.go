package models

import (
	"github.com/san-kum/causalab/internal/sim"
	"github.com/san-kum/causalab/internal/trace"
)

// LotkaVolterra is the two-species predator-prey system.
type LotkaVolterra struct {
	Alpha float64 // prey growth
	Beta  float64 // predation
	Delta float64 // predator reproduction per prey eaten
	Gamma float64 // predator death
}

func NewLotkaVolterra() *LotkaVolterra {
	return &LotkaVolterra{
		Alpha: 1.1,
		Beta:  0.4,
		Delta: 0.1,
		Gamma: 0.4,
	}
}

func (l *LotkaVolterra) StateDim() int {
	return 2
}

func (l *LotkaVolterra) VarNames() []string {
	return []string{"prey", "predator"}
}

func (l *LotkaVolterra) DefaultInit() sim.State {
	return sim.State{10.0, 5.0}
}

func (l *LotkaVolterra) Derive(x sim.State, t float64) sim.State {
	prey := x[0]
	pred := x[1]

	dPrey := l.Alpha*prey - l.Beta*prey*pred
	dPred := l.Delta*prey*pred - l.Gamma*pred

	return sim.State{dPrey, dPred}
}

func (l *LotkaVolterra) DeriveTape(tp *trace.Tape, x []trace.Val, t float64) []trace.Val {
	prey := x[0]
	pred := x[1]

	interact := prey.Mul(pred)
	dPrey := prey.MulC(l.Alpha).Sub(interact.MulC(l.Beta))
	dPred := interact.MulC(l.Delta).Sub(pred.MulC(l.Gamma))

	return []trace.Val{dPrey, dPred}
}
