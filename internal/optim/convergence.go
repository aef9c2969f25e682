package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/san-kum/circuitsim/internal/analytic"
	"github.com/san-kum/circuitsim/internal/config"
	"github.com/san-kum/circuitsim/internal/dynamo"
	"github.com/san-kum/circuitsim/internal/experiment"
)

// ConvergencePoint is one refinement level of a study.
type ConvergencePoint struct {
	Dt       float64
	Samples  int
	MaxError float64
	RMSError float64
	// Ratio is the previous level's MaxError over this one; 0 on the first level.
	Ratio    float64
	Diverged bool
}

type Study struct {
	Points []ConvergencePoint
	// Order is the observed order of accuracy from the last ratio; Euler gives about 1.
	Order float64
}

// Converge runs base at dt, dt/2, ... (levels entries) in parallel and reports
// the error against the analytic reference at each level.
func Converge(ctx context.Context, base *config.Config, levels int, logger log.Logger) (*Study, error) {
	if levels < 2 {
		return nil, fmt.Errorf("%w: need at least 2 levels, got %d", dynamo.ErrInvalidParameter, levels)
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	logger = log.With(logger, "subsys", "converge")

	dts := Halvings(base.Dt, levels)
	results := make([]*experiment.Result, levels)
	errs := make([]error, levels)

	dynamo.ParallelFor(levels, 1, func(start, end int) {
		for i := start; i < end; i++ {
			cfg := *base
			cfg.Dt = dts[i]
			cfg.Analytic = true
			results[i], errs[i] = experiment.New(&cfg).Run(ctx)
		}
	})

	study := &Study{Points: make([]ConvergencePoint, levels)}
	for i, res := range results {
		if errs[i] != nil {
			return nil, fmt.Errorf("dt=%g: %w", dts[i], errs[i])
		}
		if !res.HasAnalytic() {
			return nil, fmt.Errorf("%w: %s with a %s source has no analytic reference", dynamo.ErrDomainMismatch, base.Circuit, base.Source.Type)
		}
		if !res.HasError() {
			return nil, fmt.Errorf("%w: duration %g ends before the error window at t=%g", dynamo.ErrInvalidParameter, base.Duration, res.ErrorFrom)
		}
		p := ConvergencePoint{
			Dt:       dts[i],
			Samples:  res.Trajectory.Len(),
			MaxError: res.MaxError,
			RMSError: res.RMSError,
			Diverged: res.Trajectory.Diverged(),
		}
		if i > 0 {
			p.Ratio = study.Points[i-1].MaxError / p.MaxError
		}
		study.Points[i] = p
		level.Debug(logger).Log("msg", "level done", "dt", p.Dt, "max_error", p.MaxError, "ratio", p.Ratio)
	}

	last := study.Points[levels-1].Ratio
	if last > 0 && !math.IsInf(last, 0) {
		study.Order = analytic.ObservedOrder(last, 2)
	}
	level.Info(logger).Log("msg", "convergence study", "levels", levels, "order", study.Order)
	return study, nil
}
