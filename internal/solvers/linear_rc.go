package solvers

import (
	"fmt"

	"github.com/san-kum/circuitsim/internal/analysis"
	"github.com/san-kum/circuitsim/internal/analytic"
	"github.com/san-kum/circuitsim/internal/components"
	"github.com/san-kum/circuitsim/internal/dynamo"
	"github.com/san-kum/circuitsim/internal/sources"
)

// LinearRC solves dvC/dt = -(1/τ)·vC + (1/τ)·u(t) with τ = RC.
//
// dt is not checked against the stability bound 2τ; use TimeConstant or Advice.
type LinearRC struct {
	r, c, dt float64
	cp       *components.Capacitor
}

func NewLinearRC(r, c, dt float64) (*LinearRC, error) {
	if err := requireAll(namedValue{"R", r}, namedValue{"C", c}, namedValue{"dt", dt}); err != nil {
		return nil, fmt.Errorf("linear rc: %w", err)
	}
	return &LinearRC{r: r, c: c, dt: dt, cp: capacitor(c)}, nil
}

func (s *LinearRC) R() float64  { return s.r }
func (s *LinearRC) C() float64  { return s.c }
func (s *LinearRC) Dt() float64 { return s.dt }

func (s *LinearRC) TimeConstant() float64 {
	return analysis.TimeConstant(s.r, s.c)
}

// Advice checks the configured dt against τ.
func (s *LinearRC) Advice() analysis.Advice {
	return analysis.AdviseRC(s.TimeConstant(), s.dt)
}

func (s *LinearRC) StateDim() int { return 1 }

func (s *LinearRC) Derive(x dynamo.State, u float64, t float64) dynamo.State {
	tau := s.TimeConstant()
	return dynamo.State{-x[0]/tau + u/tau}
}

// Energy is ½C·vC².
func (s *LinearRC) Energy(x dynamo.State) float64 {
	return s.cp.Energy(x[0])
}

// Solve runs src from vC(0) = x0 to tEnd. When ref is non-nil it is sampled on
// the same grid into the trajectory's Analytic series.
func (s *LinearRC) Solve(src sources.Source, tEnd, x0 float64, ref analytic.Func) (*dynamo.Trajectory, error) {
	tr, err := run(s, src, s.dt, tEnd, dynamo.State{x0})
	if err != nil {
		return nil, err
	}
	if ref != nil {
		tr.Analytic = ref.Sample(tr.Time)
	}
	tr.SetDerived(StoredEnergy, energySeries(tr, s))
	return tr, nil
}

// SolveStep applies u(t) = A with the reference A + (x0−A)·e^(−t/τ).
func (s *LinearRC) SolveStep(amplitude, tEnd, x0 float64) (*dynamo.Trajectory, error) {
	return s.Solve(sources.NewStep(amplitude), tEnd, x0, analytic.RCStep(amplitude, x0, s.TimeConstant()))
}

// SolveRamp applies u(t) = A·t with the reference A(t−τ) + (x0+Aτ)·e^(−t/τ).
func (s *LinearRC) SolveRamp(slope, tEnd, x0 float64) (*dynamo.Trajectory, error) {
	return s.Solve(sources.NewRamp(slope), tEnd, x0, analytic.RCRamp(slope, x0, s.TimeConstant()))
}

// SolveSinusoid applies u(t) = A·sin(ωt). The reference is the steady state
// only, so early samples differ by the decaying transient.
func (s *LinearRC) SolveSinusoid(amplitude, omega, tEnd, x0 float64) (*dynamo.Trajectory, error) {
	return s.Solve(sources.NewSinusoid(amplitude, omega, 0), tEnd, x0, analytic.RCSinusoidSteadyState(amplitude, omega, s.TimeConstant()))
}

func (s *LinearRC) String() string {
	return fmt.Sprintf("LinearRC(R=%g, C=%g, dt=%g)", s.r, s.c, s.dt)
}
