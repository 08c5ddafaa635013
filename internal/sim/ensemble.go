package sim

import (
	"context"
	"sync"
)

// Ensemble runs the same system from many initial conditions in parallel.
// Each run gets its own Simulator so integrator scratch buffers are not
// shared across goroutines.
type Ensemble struct {
	base      *Simulator
	seedStart int64
}

func NewEnsemble(s *Simulator, seedStart int64) *Ensemble {
	return &Ensemble{base: s, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, inits []State, cfg Config, newIntegrator func() Integrator) ([]*Result, error) {
	results := make([]*Result, len(inits))
	errs := make([]error, len(inits))

	var wg sync.WaitGroup
	for i := range inits {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			s := New(e.base.dyn, newIntegrator())
			results[idx], errs[idx] = s.Run(ctx, inits[idx], cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
