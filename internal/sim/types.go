package sim

import (
	"fmt"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is an autonomous ODE system dX/dt = f(X, t).
// VarNames returns one name per state dimension; these names become the
// node labels of the traced dependency graph and the dataset columns.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
	VarNames() []string
}

type Integrator interface {
	Step(dyn System, x State, t float64, dt float64) State
}

type Observer interface {
	OnStep(x State, t float64)
}

type Config struct {
	Dt            float64
	Duration      float64
	Seed          int64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		ValidateState: true,
	}
}

type Result struct {
	States     []State
	Times      []float64
	StepsTaken int
	Errors     []error
}

// SimError records where a run aborted and why. It wraps one of the
// package sentinels so callers can test with errors.Is.
type SimError struct {
	Time float64
	Step int
	Err  error
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Err)
}

func (e SimError) Unwrap() error { return e.Err }
