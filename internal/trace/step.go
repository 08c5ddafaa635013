package trace

// System is a dynamical system whose derivative can be evaluated over
// tape values. Models implement this alongside sim.System; DeriveTape
// must compute the same dynamics as Derive.
type System interface {
	DeriveTape(tp *Tape, x []Val, t float64) []Val
	StateDim() int
	VarNames() []string
}

// StepEuler performs one forward-Euler step over the tape, mirroring
// integrators.Euler.
func StepEuler(tp *Tape, dyn System, x []Val, t, dt float64) []Val {
	dx := dyn.DeriveTape(tp, x, t)
	result := make([]Val, len(x))
	for i := range x {
		result[i] = x[i].Add(dx[i].MulC(dt))
	}
	return result
}

// StepRK4 performs one classic RK4 step over the tape, mirroring
// integrators.RK4.
func StepRK4(tp *Tape, dyn System, x []Val, t, dt float64) []Val {
	n := len(x)

	k1 := dyn.DeriveTape(tp, x, t)

	scratch := make([]Val, n)
	for i := 0; i < n; i++ {
		scratch[i] = x[i].Add(k1[i].MulC(dt * 0.5))
	}
	k2 := dyn.DeriveTape(tp, scratch, t+dt*0.5)

	for i := 0; i < n; i++ {
		scratch[i] = x[i].Add(k2[i].MulC(dt * 0.5))
	}
	k3 := dyn.DeriveTape(tp, scratch, t+dt*0.5)

	for i := 0; i < n; i++ {
		scratch[i] = x[i].Add(k3[i].MulC(dt))
	}
	k4 := dyn.DeriveTape(tp, scratch, t+dt)

	result := make([]Val, n)
	for i := 0; i < n; i++ {
		sum := k1[i].Add(k2[i].MulC(2)).Add(k3[i].MulC(2)).Add(k4[i])
		result[i] = x[i].Add(sum.MulC(dt / 6.0))
	}
	return result
}
