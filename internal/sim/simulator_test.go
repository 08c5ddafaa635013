package sim

import (
	"context"
	"errors"
	"math"
	"testing"
)

type testDynamics struct{}

func (t *testDynamics) Derive(x State, time float64) State {
	return State{-x[0]}
}

func (t *testDynamics) StateDim() int      { return 1 }
func (t *testDynamics) VarNames() []string { return []string{"x"} }

type testIntegrator struct{}

func (t *testIntegrator) Step(dyn System, x State, time float64, dt float64) State {
	dx := dyn.Derive(x, time)
	return State{x[0] + dt*dx[0]}
}

func TestSimulatorRun(t *testing.T) {
	dyn := &testDynamics{}
	integ := &testIntegrator{}

	s := New(dyn, integ)

	cfg := Config{
		Dt:       0.1,
		Duration: 1.0,
	}

	x0 := State{1.0}
	result, err := s.Run(context.Background(), x0, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 11 {
		t.Errorf("expected 11 states, got %d", len(result.States))
	}

	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}

	finalState := result.States[len(result.States)-1][0]
	expected := 1.0 * math.Exp(-1.0)
	if math.Abs(finalState-expected) > 0.2 {
		t.Errorf("expected final state ~%.4f, got %.4f", expected, finalState)
	}

	if x0[0] != 1.0 {
		t.Error("run mutated x0")
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := New(&testDynamics{}, &testIntegrator{})

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x0 := State{1.0}
			_, err := s.Run(context.Background(), x0, tt.cfg)
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSimulatorDimensionMismatch(t *testing.T) {
	s := New(&testDynamics{}, &testIntegrator{})

	_, err := s.Run(context.Background(), State{1.0, 2.0}, Config{Dt: 0.1, Duration: 1.0})
	if err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

type divergingDynamics struct{}

func (d *divergingDynamics) Derive(x State, t float64) State {
	return State{math.NaN()}
}
func (d *divergingDynamics) StateDim() int      { return 1 }
func (d *divergingDynamics) VarNames() []string { return []string{"x"} }

func TestSimulatorStateValidation(t *testing.T) {
	s := New(&divergingDynamics{}, &testIntegrator{})

	cfg := Config{Dt: 0.1, Duration: 1.0, ValidateState: true}
	result, err := s.Run(context.Background(), State{1.0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Errors) == 0 {
		t.Fatal("expected recorded SimError for NaN state")
	}
	if !errors.Is(result.Errors[0], ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", result.Errors[0])
	}
	if result.StepsTaken != 0 {
		t.Errorf("expected run to abort at step 0, got %d steps", result.StepsTaken)
	}
}

type explodingDynamics struct{}

func (d *explodingDynamics) Derive(x State, t float64) State {
	return State{100 * x[0]}
}
func (d *explodingDynamics) StateDim() int      { return 1 }
func (d *explodingDynamics) VarNames() []string { return []string{"x"} }

func TestSimulatorUnstable(t *testing.T) {
	s := New(&explodingDynamics{}, &testIntegrator{})

	cfg := Config{Dt: 1.0, Duration: 100.0, ValidateState: true}
	result, err := s.Run(context.Background(), State{1.0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Errors) == 0 {
		t.Fatal("expected recorded SimError for diverging state")
	}
	if !errors.Is(result.Errors[0], ErrUnstable) {
		t.Errorf("expected ErrUnstable, got %v", result.Errors[0])
	}
	if result.StepsTaken >= 100 {
		t.Errorf("expected early abort, got %d steps", result.StepsTaken)
	}
}

func TestSimulatorContextCancel(t *testing.T) {
	s := New(&testDynamics{}, &testIntegrator{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, State{1.0}, Config{Dt: 0.001, Duration: 100.0})
	if err == nil {
		t.Fatal("expected context error")
	}
	if result == nil {
		t.Fatal("expected partial result")
	}
}

type countingObserver struct {
	count int
}

func (c *countingObserver) OnStep(x State, t float64) { c.count++ }

func TestSimulatorObserver(t *testing.T) {
	s := New(&testDynamics{}, &testIntegrator{})
	obs := &countingObserver{}
	s.AddObserver(obs)

	_, err := s.Run(context.Background(), State{1.0}, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if obs.count != 10 {
		t.Errorf("expected observer called 10 times, got %d", obs.count)
	}
}

func TestRunWithCallback(t *testing.T) {
	s := New(&testDynamics{}, &testIntegrator{})

	calls := 0
	err := s.RunWithCallback(context.Background(), State{1.0}, Config{Dt: 0.1, Duration: 1.0}, func(x State, t float64) bool {
		calls++
		return calls < 5
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if calls != 5 {
		t.Errorf("expected callback stopped after 5 calls, got %d", calls)
	}
}

func TestRunWithCallbackInvalidState(t *testing.T) {
	s := New(&divergingDynamics{}, &testIntegrator{})

	cfg := Config{Dt: 0.1, Duration: 1.0, ValidateState: true}
	err := s.RunWithCallback(context.Background(), State{1.0}, cfg, func(x State, t float64) bool {
		return true
	})
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestStateSubNorm(t *testing.T) {
	d := State{3.0, 4.0}.Sub(State{0.0, 0.0})
	if got := d.Norm(); got != 5.0 {
		t.Errorf("norm = %f, want 5", got)
	}
}
