// Package optim searches scenario parameters, most often dt, by running the
// scenario repeatedly.
package optim

import (
	"context"
	"math"

	"github.com/san-kum/circuitsim/internal/config"
	"github.com/san-kum/circuitsim/internal/experiment"
)

// Objective scores a run; lower is better. ok=false rejects the run.
type Objective func(res *experiment.Result) (score float64, ok bool)

// GridSearch tries every combination of the given parameter values. Names are
// those accepted by config.Config.Set.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search runs base with each combination applied and returns the best
// parameters and score. bestParams is nil when no run was accepted.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, objective Objective, opts ...experiment.Option) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, objective, opts, &best, &bestParams)
	return bestParams, best, err
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	objective Objective,
	opts []experiment.Option,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		cfg := *base
		for k, v := range current {
			if err := cfg.Set(k, v); err != nil {
				return err
			}
		}

		result, err := experiment.New(&cfg, opts...).Run(ctx)
		if err != nil {
			// an invalid combination is skipped, not fatal
			return ctx.Err()
		}

		val, ok := objective(result)
		if ok && val < *best {
			*best = val
			*bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, objective, opts, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}
