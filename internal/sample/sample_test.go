package sample

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/causalab/internal/sim"
)

func TestInitialConditionsReproducible(t *testing.T) {
	base := sim.State{1.0, 2.0, 3.0}

	a, err := InitialConditions(base, 5, 0.1, nil, 42)
	if err != nil {
		t.Fatal(err)
	}
	b, err := InitialConditions(base, 5, 0.1, nil, 42)
	if err != nil {
		t.Fatal(err)
	}

	for i := range a {
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				t.Fatalf("sample %d var %d differs across identical seeds", i, j)
			}
		}
	}
}

func TestInitialConditionsPerturbSelected(t *testing.T) {
	base := sim.State{1.0, 2.0}

	states, err := InitialConditions(base, 10, 0.5, []int{0}, 7)
	if err != nil {
		t.Fatal(err)
	}

	var moved bool
	for _, s := range states {
		if s[1] != 2.0 {
			t.Errorf("unperturbed variable changed: %f", s[1])
		}
		if s[0] != 1.0 {
			moved = true
		}
	}
	if !moved {
		t.Error("perturbed variable never moved")
	}
	if base[0] != 1.0 || base[1] != 2.0 {
		t.Error("base state mutated")
	}
}

func TestInitialConditionsZeroScale(t *testing.T) {
	base := sim.State{1.0, 2.0}
	states, err := InitialConditions(base, 3, 0, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range states {
		if s[0] != 1.0 || s[1] != 2.0 {
			t.Errorf("zero scale should copy base, got %v", s)
		}
	}
}

func TestInitialConditionsErrors(t *testing.T) {
	base := sim.State{1.0}

	if _, err := InitialConditions(base, 0, 0.1, nil, 1); !errors.Is(err, ErrNoSamples) {
		t.Errorf("expected ErrNoSamples, got %v", err)
	}
	if _, err := InitialConditions(base, 1, -0.1, nil, 1); !errors.Is(err, ErrBadScale) {
		t.Errorf("expected ErrBadScale, got %v", err)
	}
	if _, err := InitialConditions(base, 1, 0.1, []int{3}, 1); !errors.Is(err, ErrVarOutOfRange) {
		t.Errorf("expected ErrVarOutOfRange, got %v", err)
	}
}

func TestMeasurementNoise(t *testing.T) {
	data := [][]float64{{1, 2}, {3, 4}}
	MeasurementNoise(data, 0, 1)
	if data[0][0] != 1 || data[1][1] != 4 {
		t.Error("zero sigma must not change data")
	}

	MeasurementNoise(data, 0.5, 1)
	var changed bool
	for _, row := range data {
		for _, v := range row {
			if v != math.Trunc(v) {
				changed = true
			}
		}
	}
	if !changed {
		t.Error("expected noise to move values")
	}
}
