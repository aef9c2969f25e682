package optim

import (
	"context"
	"fmt"

	"github.com/san-kum/circuitsim/internal/config"
	"github.com/san-kum/circuitsim/internal/experiment"
)

// LargestAcceptableDt returns the largest candidate dt whose run stays finite,
// bounded and, when an analytic reference exists, within tol of it. A run
// with a reference but no error window never qualifies.
func LargestAcceptableDt(ctx context.Context, base *config.Config, candidates []float64, tol float64, opts ...experiment.Option) (float64, error) {
	gs := NewGridSearch([]string{"dt"}, [][]float64{candidates})
	params, _, err := gs.Search(ctx, base, func(res *experiment.Result) (float64, bool) {
		if res.Trajectory.Diverged() || res.Metrics["stability"] < 1 {
			return 0, false
		}
		if res.HasAnalytic() && (!res.HasError() || res.MaxError > tol) {
			return 0, false
		}
		return -res.Config.Dt, true
	}, opts...)
	if err != nil {
		return 0, err
	}
	if params == nil {
		return 0, fmt.Errorf("no candidate dt met tolerance %g", tol)
	}
	return params["dt"], nil
}

// Halvings returns dt, dt/2, ... with n entries.
func Halvings(dt float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = dt
		dt /= 2
	}
	return out
}
