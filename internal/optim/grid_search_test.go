package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/causalab/internal/experiment"
)

func TestGridSearchFindsMaximum(t *testing.T) {
	gs := NewGridSearch(
		[]string{"x", "y"},
		[][]float64{{0, 1, 2, 3}, {1, 3, 5}},
	)

	params, best, err := gs.Search(context.Background(), func(_ context.Context, p map[string]float64) (float64, error) {
		return -math.Pow(p["x"]-2, 2) - math.Pow(p["y"]-3, 2), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if params["x"] != 2 || params["y"] != 3 {
		t.Errorf("best params = %v", params)
	}
	if best != 0 {
		t.Errorf("best value = %f, want 0", best)
	}
}

func TestGridSearchSkipsFailures(t *testing.T) {
	gs := NewGridSearch([]string{"x"}, [][]float64{{1, 2, 3}})

	params, best, err := gs.Search(context.Background(), func(_ context.Context, p map[string]float64) (float64, error) {
		if p["x"] == 3 {
			return 0, errors.New("boom")
		}
		return p["x"], nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if params["x"] != 2 || best != 2 {
		t.Errorf("params = %v, best = %f", params, best)
	}
}

func TestGridSearchAllFail(t *testing.T) {
	gs := NewGridSearch([]string{"x"}, [][]float64{{1}})

	params, _, err := gs.Search(context.Background(), func(_ context.Context, _ map[string]float64) (float64, error) {
		return 0, errors.New("boom")
	})
	if err != nil {
		t.Fatal(err)
	}
	if params != nil {
		t.Errorf("params = %v, want nil", params)
	}
}

func TestGridSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gs := NewGridSearch([]string{"x"}, [][]float64{{1, 2}})
	var calls int
	params, _, err := gs.Search(ctx, func(_ context.Context, _ map[string]float64) (float64, error) {
		calls++
		return 1, nil
	})
	if calls != 0 {
		t.Errorf("evaluate called %d times after cancel", calls)
	}
	if params != nil || err == nil {
		t.Errorf("params = %v, err = %v", params, err)
	}
}

func TestTuneDiscovery(t *testing.T) {
	base := experiment.Config{
		Model:        "pendulum",
		Integrator:   "euler",
		Dt:           0.01,
		Duration:     0.1,
		Stride:       5,
		ObsSteps:     []int{0, 1, 2},
		Samples:      30,
		PerturbScale: 0.2,
		Seed:         3,
	}

	tuned, f1, err := TuneDiscovery(context.Background(), base, experiment.NewRegistry(),
		[]float64{0.01, 0.05}, []int{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if f1 < 0 || f1 > 1 {
		t.Errorf("f1 = %f out of range", f1)
	}
	if tuned.Alpha != 0.01 && tuned.Alpha != 0.05 {
		t.Errorf("tuned alpha = %f", tuned.Alpha)
	}
	if tuned.MaxCond != 1 && tuned.MaxCond != 2 {
		t.Errorf("tuned max cond = %d", tuned.MaxCond)
	}
	if tuned.Model != base.Model || tuned.Seed != base.Seed {
		t.Error("tuning must not change base settings")
	}
}
