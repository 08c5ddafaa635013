package sim

import (
	"context"
	"fmt"
)

// maxStateNorm is the divergence cutoff: a state norm past it aborts
// the run with ErrUnstable before the floats overflow to Inf.
const maxStateNorm = 1e12

type Simulator struct {
	dyn        System
	integrator Integrator
	observers  []Observer
}

func New(dyn System, integrator Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(x0) != s.dyn.StateDim() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}

	// Round, not floor: 1.0/0.1 lands just under 10 in float64.
	steps := int(cfg.Duration/cfg.Dt + 0.5)
	result := &Result{
		States: make([]State, 0, steps+1),
		Times:  make([]float64, 0, steps+1),
		Errors: make([]error, 0),
	}

	x := x0.Clone()
	t := 0.0

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, obs := range s.observers {
			obs.OnStep(x, t)
		}

		newX := s.integrator.Step(s.dyn, x, t, cfg.Dt)

		if cfg.ValidateState {
			if !newX.IsValid() {
				result.Errors = append(result.Errors, SimError{Time: t, Step: i, Err: ErrInvalidState})
				break
			}
			if newX.Norm() > maxStateNorm {
				result.Errors = append(result.Errors, SimError{Time: t, Step: i, Err: ErrUnstable})
				break
			}
		}

		x = newX
		t += cfg.Dt
		result.StepsTaken++

		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, t)
	}

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

// RunWithCallback steps the simulation, invoking callback before each step.
// Returning false from the callback stops the run without error.
func (s *Simulator) RunWithCallback(ctx context.Context, x0 State, cfg Config, callback func(State, float64) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	x := x0.Clone()
	t := 0.0

	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(x, t) {
			return nil
		}

		x = s.integrator.Step(s.dyn, x, t, cfg.Dt)
		t += cfg.Dt

		if cfg.ValidateState && !x.IsValid() {
			return fmt.Errorf("%w at t=%.4f", ErrInvalidState, t)
		}
	}

	return nil
}
