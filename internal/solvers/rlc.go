package solvers

import (
	"fmt"

	"github.com/san-kum/circuitsim/internal/analysis"
	"github.com/san-kum/circuitsim/internal/analytic"
	"github.com/san-kum/circuitsim/internal/components"
	"github.com/san-kum/circuitsim/internal/dynamo"
	"github.com/san-kum/circuitsim/internal/sources"
)

// RLC is a series RLC with state x = [vC, iL]:
//
//	dvC/dt = iL / C
//	diL/dt = (−R·iL − vC + u(t)) / L
type RLC struct {
	r, l, c, dt float64
	cp          *components.Capacitor
	ind         *components.Inductor
}

func NewRLC(r, l, c, dt float64) (*RLC, error) {
	if err := requireAll(namedValue{"R", r}, namedValue{"L", l}, namedValue{"C", c}, namedValue{"dt", dt}); err != nil {
		return nil, fmt.Errorf("rlc: %w", err)
	}
	ind, _ := components.NewInductor(l)
	return &RLC{r: r, l: l, c: c, dt: dt, cp: capacitor(c), ind: ind}, nil
}

func (s *RLC) Dt() float64 { return s.dt }

// CircuitParams derives ω0, f0, T0, ζ and the damping regime from R, L, C.
func (s *RLC) CircuitParams() analysis.RLCParams {
	// constants were validated in NewRLC
	p, _ := analysis.NewRLCParams(s.r, s.l, s.c)
	return p
}

func (s *RLC) Advice() analysis.Advice {
	return analysis.AdviseRLC(s.CircuitParams(), s.dt)
}

func (s *RLC) StateDim() int { return 2 }

// Derive reads both components of x before producing either derivative.
func (s *RLC) Derive(x dynamo.State, u float64, t float64) dynamo.State {
	vC, iL := x[0], x[1]
	return dynamo.State{
		s.cp.RateFromCurrent(iL),
		s.ind.RateFromVoltage(-s.r*iL - vC + u),
	}
}

// Energy is ½C·vC² + ½L·iL².
func (s *RLC) Energy(x dynamo.State) float64 {
	return s.cp.Energy(x[0]) + s.ind.Energy(x[1])
}

// Solve runs src from [vC0, iL0] and attaches the stored-energy series.
func (s *RLC) Solve(src sources.Source, tEnd, vC0, iL0 float64) (*dynamo.Trajectory, error) {
	tr, err := run(s, src, s.dt, tEnd, dynamo.State{vC0, iL0})
	if err != nil {
		return nil, err
	}
	tr.SetDerived(StoredEnergy, energySeries(tr, s))
	return tr, nil
}

// SolveStep applies a step of height A and fills Analytic with the closed-form vC(t).
func (s *RLC) SolveStep(amplitude, tEnd, vC0, iL0 float64) (*dynamo.Trajectory, error) {
	tr, err := s.Solve(sources.NewStep(amplitude), tEnd, vC0, iL0)
	if err != nil {
		return nil, err
	}
	tr.Analytic = analytic.RLCStep(amplitude, vC0, iL0, s.r, s.l, s.c).Sample(tr.Time)
	return tr, nil
}

// SolveSinusoid applies A·sin(ωt) from rest.
func (s *RLC) SolveSinusoid(amplitude, omega, tEnd float64) (*dynamo.Trajectory, error) {
	return s.Solve(sources.NewSinusoid(amplitude, omega, 0), tEnd, 0, 0)
}

// AnalyzeEnergy summarizes stored energy over a finished run of this circuit.
func (s *RLC) AnalyzeEnergy(tr *dynamo.Trajectory) analysis.EnergyReport {
	return analysis.AnalyzeEnergy(tr, s)
}

func (s *RLC) String() string {
	return fmt.Sprintf("RLC(R=%g, L=%g, C=%g, dt=%g)", s.r, s.l, s.c, s.dt)
}
