// Package experiment turns a scenario config into a solver run.
package experiment

import (
	"context"
	"fmt"
	"math"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/san-kum/circuitsim/internal/analysis"
	"github.com/san-kum/circuitsim/internal/analytic"
	"github.com/san-kum/circuitsim/internal/config"
	"github.com/san-kum/circuitsim/internal/dynamo"
	"github.com/san-kum/circuitsim/internal/metrics"
)

// Result bundles a finished run with everything computed about it.
type Result struct {
	Config      *config.Config
	Trajectory  *dynamo.Trajectory
	StateLabels []string
	Advice      analysis.Advice
	Info        Info
	Metrics     map[string]float64
	// MaxError and RMSError compare against the analytic series when present,
	// over the ErrorSamples samples with t >= ErrorFrom. Both are NaN when the
	// run ends before ErrorFrom.
	MaxError     float64
	RMSError     float64
	ErrorFrom    float64
	ErrorSamples int
}

// HasAnalytic reports whether an analytic reference was produced.
func (r *Result) HasAnalytic() bool {
	return r.Trajectory != nil && len(r.Trajectory.Analytic) == r.Trajectory.Len()
}

// HasError reports whether MaxError and RMSError were measured.
func (r *Result) HasError() bool {
	return r.HasAnalytic() && r.ErrorSamples > 0
}

type Experiment struct {
	cfg      *config.Config
	registry *Registry
	logger   log.Logger
}

type Option func(*Experiment)

func WithLogger(logger log.Logger) Option {
	return func(e *Experiment) { e.logger = logger }
}

func WithRegistry(r *Registry) Option {
	return func(e *Experiment) { e.registry = r }
}

func New(cfg *config.Config, opts ...Option) *Experiment {
	e := &Experiment{cfg: cfg, logger: log.NewNopLogger()}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = NewRegistry()
	}
	e.logger = log.With(e.logger, "subsys", "experiment", "circuit", cfg.Circuit)
	return e
}

// Run validates the config, consults the advisor and steps the circuit. A
// diverged trajectory is returned with a nil error; check Trajectory.Err.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}

	factory, err := e.registry.GetCircuit(e.cfg.Circuit)
	if err != nil {
		return nil, err
	}
	dev, err := e.registry.GetDevice(e.cfg.Device)
	if err != nil {
		return nil, err
	}
	src, err := e.registry.GetSource(e.cfg)
	if err != nil {
		return nil, err
	}
	circuit, err := factory(e.cfg, dev)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", e.cfg.Circuit, err)
	}

	adv, err := circuit.Advise(src, e.cfg)
	if err != nil {
		level.Debug(e.logger).Log("msg", "no timestep advice", "err", err)
	}
	for _, w := range adv.Warnings {
		level.Warn(e.logger).Log("msg", "timestep", "dt", e.cfg.Dt, "advice", w)
	}

	level.Debug(e.logger).Log("msg", "solving", "dt", e.cfg.Dt, "duration", e.cfg.Duration, "source", e.cfg.Source.Type)
	tr, err := circuit.Solve(src, e.cfg)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Config:      e.cfg,
		Trajectory:  tr,
		StateLabels: circuit.StateLabels(),
		Advice:      adv,
		Info:        circuit.Info(),
		Metrics:     metrics.Evaluate(tr, circuit.Metrics(src, e.cfg)...),
	}
	if res.HasAnalytic() {
		from := 0
		if ss, ok := circuit.(steadyStater); ok {
			res.ErrorFrom = ss.SteadyStateFrom(src)
			for from < tr.Len() && tr.Time[from] < res.ErrorFrom {
				from++
			}
		}
		res.ErrorSamples = tr.Len() - from
		if res.ErrorSamples == 0 {
			res.MaxError, res.RMSError = math.NaN(), math.NaN()
			level.Warn(e.logger).Log("msg", "run ends before the error window", "error_from", res.ErrorFrom, "duration", e.cfg.Duration)
		} else {
			vc := tr.Component(0)[from:]
			res.MaxError = analytic.MaxAbsError(vc, tr.Analytic[from:])
			res.RMSError = analytic.RMSError(vc, tr.Analytic[from:])
		}
	}

	if derr := tr.Err(); derr != nil {
		level.Warn(e.logger).Log("msg", "trajectory diverged", "err", derr)
	}
	level.Info(e.logger).Log("msg", "run complete", "samples", tr.Len(), "max_error", res.MaxError)
	return res, nil
}
