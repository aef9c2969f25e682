package experiment

import (
	"fmt"
	"math"

	"github.com/san-kum/circuitsim/internal/analysis"
	"github.com/san-kum/circuitsim/internal/analytic"
	"github.com/san-kum/circuitsim/internal/components"
	"github.com/san-kum/circuitsim/internal/config"
	"github.com/san-kum/circuitsim/internal/dynamo"
	"github.com/san-kum/circuitsim/internal/metrics"
	"github.com/san-kum/circuitsim/internal/solvers"
	"github.com/san-kum/circuitsim/internal/sources"
)

// Circuit adapts one solver to the config-driven runner.
type Circuit interface {
	Solve(src sources.Source, cfg *config.Config) (*dynamo.Trajectory, error)
	Advise(src sources.Source, cfg *config.Config) (analysis.Advice, error)
	Info() Info
	Metrics(src sources.Source, cfg *config.Config) []metrics.Metric
	// StateLabels names each state component for tables and exports.
	StateLabels() []string
}

// steadyStater is implemented by circuits whose reference omits the transient.
type steadyStater interface {
	SteadyStateFrom(src sources.Source) float64
}

// Info lists derived circuit parameters for display and run metadata.
type Info struct {
	Params  map[string]float64 `json:"params"`
	Damping string             `json:"damping,omitempty"`
}

type rcCircuit struct {
	s *solvers.LinearRC
}

func newRCCircuit(cfg *config.Config, _ components.Device) (Circuit, error) {
	s, err := solvers.NewLinearRC(cfg.Params.R, cfg.Params.C, cfg.Dt)
	if err != nil {
		return nil, err
	}
	return &rcCircuit{s: s}, nil
}

func (c *rcCircuit) Solve(src sources.Source, cfg *config.Config) (*dynamo.Trajectory, error) {
	var ref analytic.Func
	if cfg.Analytic {
		ref = rcReference(src, cfg.InitState.VC, c.s.TimeConstant())
	}
	return c.s.Solve(src, cfg.Duration, cfg.InitState.VC, ref)
}

// rcReference picks the closed form matching src, or nil when there is none.
func rcReference(src sources.Source, x0, tau float64) analytic.Func {
	switch s := src.(type) {
	case *sources.Step:
		return analytic.RCStep(s.Amplitude, x0, tau)
	case *sources.Ramp:
		return analytic.RCRamp(s.Slope, x0, tau)
	case *sources.Sinusoid:
		if s.Phase == 0 {
			return analytic.RCSinusoidSteadyState(s.Amplitude, s.Omega, tau)
		}
	}
	return nil
}

// SteadyStateFrom is the time after which the sinusoidal reference applies;
// the transient has decayed by e^-10 at 10τ.
func (c *rcCircuit) SteadyStateFrom(src sources.Source) float64 {
	if _, ok := src.(*sources.Sinusoid); ok {
		return 10 * c.s.TimeConstant()
	}
	return 0
}

func (c *rcCircuit) Advise(sources.Source, *config.Config) (analysis.Advice, error) {
	return c.s.Advice(), nil
}

func (c *rcCircuit) Info() Info {
	tau := c.s.TimeConstant()
	return Info{Params: map[string]float64{
		"tau":    tau,
		"cutoff": 1 / tau,
	}}
}

func (c *rcCircuit) Metrics(src sources.Source, cfg *config.Config) []metrics.Metric {
	ms := []metrics.Metric{
		metrics.NewStability(1e6),
		metrics.NewPeak("peak_vc", 0),
		metrics.NewFinalEnergy(c.s),
	}
	return appendSettling(ms, src, cfg.InitState.VC)
}

// appendSettling adds a 2% settling time on vC for a step drive that moves
// the capacitor off its initial voltage.
func appendSettling(ms []metrics.Metric, src sources.Source, x0 float64) []metrics.Metric {
	step, ok := src.(*sources.Step)
	if !ok || step.Amplitude == x0 {
		return ms
	}
	return append(ms, metrics.NewSettlingTime(0, step.Amplitude, 0.02*math.Abs(step.Amplitude-x0)))
}

func (c *rcCircuit) StateLabels() []string { return []string{"vc"} }

type rcDiodeCircuit struct {
	s *solvers.RCDiode
}

func newRCDiodeCircuit(cfg *config.Config, dev components.Device) (Circuit, error) {
	if dev == nil {
		dev = components.NewXDiode()
	}
	s, err := solvers.NewRCDiode(cfg.Params.RLoad, cfg.Params.C, cfg.Dt, dev)
	if err != nil {
		return nil, err
	}
	return &rcDiodeCircuit{s: s}, nil
}

func (c *rcDiodeCircuit) Solve(src sources.Source, cfg *config.Config) (*dynamo.Trajectory, error) {
	return c.s.Solve(src, cfg.Duration, cfg.InitState.VC)
}

func (c *rcDiodeCircuit) Advise(src sources.Source, cfg *config.Config) (analysis.Advice, error) {
	return adviseNonlinear(c.s.Device(), cfg, src)
}

func (c *rcDiodeCircuit) Info() Info {
	return Info{Params: map[string]float64{}}
}

func (c *rcDiodeCircuit) Metrics(sources.Source, *config.Config) []metrics.Metric {
	return []metrics.Metric{
		metrics.NewStability(1e6),
		metrics.NewPeak("peak_vo", 0),
	}
}

func (c *rcDiodeCircuit) StateLabels() []string { return []string{"vo"} }

type nonlinearCircuit struct {
	s *solvers.NonlinearRC
}

func newNonlinearCircuit(cfg *config.Config, dev components.Device) (Circuit, error) {
	if dev == nil {
		dev = components.NewDefaultQuadratic()
	}
	s, err := solvers.NewNonlinearRC(cfg.Params.C, cfg.Dt, dev)
	if err != nil {
		return nil, err
	}
	return &nonlinearCircuit{s: s}, nil
}

func (c *nonlinearCircuit) Solve(src sources.Source, cfg *config.Config) (*dynamo.Trajectory, error) {
	return c.s.Solve(src, cfg.Duration, cfg.InitState.VC)
}

func (c *nonlinearCircuit) Advise(src sources.Source, cfg *config.Config) (analysis.Advice, error) {
	return adviseNonlinear(c.s.Device(), cfg, src)
}

func (c *nonlinearCircuit) Info() Info {
	return Info{Params: map[string]float64{}}
}

func (c *nonlinearCircuit) Metrics(sources.Source, *config.Config) []metrics.Metric {
	return []metrics.Metric{
		metrics.NewStability(1e6),
		metrics.NewPeak("peak_vc", 0),
		metrics.NewFinalEnergy(c.s),
	}
}

func (c *nonlinearCircuit) StateLabels() []string { return []string{"vc"} }

// adviseNonlinear bounds the device voltage by the largest source magnitude on
// the grid plus |x0|.
func adviseNonlinear(dev components.Device, cfg *config.Config, src sources.Source) (analysis.Advice, error) {
	lin, ok := dev.(components.Linearizable)
	if !ok {
		return analysis.Advice{}, fmt.Errorf("%w: device %v has no conductance", dynamo.ErrDomainMismatch, dev)
	}
	grid, err := dynamo.NewTimeGrid(cfg.Duration, cfg.Dt)
	if err != nil {
		return analysis.Advice{}, err
	}
	vmax := 0.0
	for _, u := range sources.Sample(src, grid.Times()) {
		vmax = math.Max(vmax, math.Abs(u))
	}
	vmax += math.Abs(cfg.InitState.VC)
	if vmax == 0 {
		vmax = 1
	}
	return analysis.AdviseNonlinear(cfg.Params.C, lin, -vmax, vmax, cfg.Dt)
}

type rlcCircuit struct {
	s *solvers.RLC
}

func newRLCCircuit(cfg *config.Config, _ components.Device) (Circuit, error) {
	s, err := solvers.NewRLC(cfg.Params.R, cfg.Params.L, cfg.Params.C, cfg.Dt)
	if err != nil {
		return nil, err
	}
	return &rlcCircuit{s: s}, nil
}

func (c *rlcCircuit) Solve(src sources.Source, cfg *config.Config) (*dynamo.Trajectory, error) {
	step, isStep := src.(*sources.Step)
	if cfg.Analytic && isStep {
		return c.s.SolveStep(step.Amplitude, cfg.Duration, cfg.InitState.VC, cfg.InitState.IL)
	}
	return c.s.Solve(src, cfg.Duration, cfg.InitState.VC, cfg.InitState.IL)
}

func (c *rlcCircuit) Advise(sources.Source, *config.Config) (analysis.Advice, error) {
	return c.s.Advice(), nil
}

func (c *rlcCircuit) Info() Info {
	p := c.s.CircuitParams()
	params := map[string]float64{
		"omega0": p.Omega0,
		"f0":     p.F0,
		"T0":     p.T0,
		"zeta":   p.Zeta,
		"alpha":  p.Alpha,
	}
	if p.Damping == analysis.Underdamped {
		params["omega_d"] = p.OmegaD
		params["f_d"] = p.FD
		params["overshoot"] = p.Overshoot
	}
	return Info{Params: params, Damping: p.Damping.String()}
}

func (c *rlcCircuit) Metrics(src sources.Source, cfg *config.Config) []metrics.Metric {
	ms := []metrics.Metric{
		metrics.NewStability(1e6),
		metrics.NewPeak("peak_vc", 0),
		metrics.NewPeak("peak_il", 1),
		metrics.NewOvershoot(0),
		metrics.NewEnergyGrowth(c.s),
		metrics.NewFinalEnergy(c.s),
	}
	return appendSettling(ms, src, cfg.InitState.VC)
}

func (c *rlcCircuit) StateLabels() []string { return []string{"vc", "il"} }
