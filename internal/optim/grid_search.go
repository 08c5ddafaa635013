// Package optim tunes discovery hyperparameters by exhaustive grid
// search over candidate values, scoring each combination with a full
// pipeline run against the traced ground truth.
package optim

import (
	"context"
	"math"

	"github.com/san-kum/causalab/internal/experiment"
)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search walks the full grid and returns the parameter combination
// with the highest objective value. Evaluations that fail are skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	evaluate func(ctx context.Context, params map[string]float64) (float64, error),
) (map[string]float64, float64, error) {

	best := math.Inf(-1)
	var bestParams map[string]float64

	g.searchRecursive(ctx, 0, make(map[string]float64), evaluate, &best, &bestParams)

	if bestParams == nil {
		return nil, best, ctx.Err()
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	evaluate func(context.Context, map[string]float64) (float64, error),
	best *float64,
	bestParams *map[string]float64,
) {
	if ctx.Err() != nil {
		return
	}

	if depth == len(g.paramNames) {
		val, err := evaluate(ctx, current)
		if err != nil {
			return
		}
		if val > *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(ctx, depth+1, newParams, evaluate, best, bestParams)
	}
}

// TuneDiscovery grid-searches the CI significance level and the
// conditioning set bound, maximizing adjacency F1 against the traced
// truth. The returned config is the base config with the winning
// values applied.
func TuneDiscovery(
	ctx context.Context,
	base experiment.Config,
	reg *experiment.Registry,
	alphas []float64,
	maxConds []int,
) (experiment.Config, float64, error) {

	condVals := make([]float64, len(maxConds))
	for i, c := range maxConds {
		condVals[i] = float64(c)
	}

	gs := NewGridSearch(
		[]string{"alpha", "max_cond"},
		[][]float64{alphas, condVals},
	)

	params, f1, err := gs.Search(ctx, func(ctx context.Context, p map[string]float64) (float64, error) {
		cfg := base
		cfg.Alpha = p["alpha"]
		cfg.MaxCond = int(p["max_cond"])

		res, err := experiment.NewPipeline(cfg, reg).Run(ctx)
		if err != nil {
			return 0, err
		}
		return res.Report.AdjacencyF1, nil
	})
	if err != nil {
		return base, 0, err
	}
	if params == nil {
		return base, 0, nil
	}

	tuned := base
	tuned.Alpha = params["alpha"]
	tuned.MaxCond = int(params["max_cond"])
	return tuned, f1, nil
}
