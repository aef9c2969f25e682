package solvers

import (
	"fmt"

	"github.com/san-kum/circuitsim/internal/analysis"
	"github.com/san-kum/circuitsim/internal/components"
	"github.com/san-kum/circuitsim/internal/dynamo"
	"github.com/san-kum/circuitsim/internal/sources"
)

// NonlinearRC charges C through an arbitrary device:
//
//	dvC/dt = i_device(u(t) − vC) / C
//
// Large dt can make the run diverge. dt is never clamped; a diverged run is
// reported through Trajectory.Err.
type NonlinearRC struct {
	c, dt  float64
	device components.Device
	cp     *components.Capacitor
}

func NewNonlinearRC(c, dt float64, device components.Device) (*NonlinearRC, error) {
	if err := requireAll(namedValue{"C", c}, namedValue{"dt", dt}); err != nil {
		return nil, fmt.Errorf("nonlinear rc: %w", err)
	}
	if device == nil {
		return nil, fmt.Errorf("nonlinear rc: %w: nil device", dynamo.ErrDomainMismatch)
	}
	return &NonlinearRC{c: c, dt: dt, device: device, cp: capacitor(c)}, nil
}

func (s *NonlinearRC) Device() components.Device { return s.device }
func (s *NonlinearRC) Dt() float64               { return s.dt }

func (s *NonlinearRC) StateDim() int { return 1 }

func (s *NonlinearRC) Derive(x dynamo.State, u float64, t float64) dynamo.State {
	return dynamo.State{s.cp.RateFromCurrent(s.device.Current(u - x[0]))}
}

func (s *NonlinearRC) Energy(x dynamo.State) float64 {
	return s.cp.Energy(x[0])
}

// Advice estimates the local stability limit over device voltages in
// [vmin, vmax]. The device must report its conductance.
func (s *NonlinearRC) Advice(vmin, vmax float64) (analysis.Advice, error) {
	lin, ok := s.device.(components.Linearizable)
	if !ok {
		return analysis.Advice{}, fmt.Errorf("%w: device %v has no conductance", dynamo.ErrDomainMismatch, s.device)
	}
	return analysis.AdviseNonlinear(s.c, lin, vmin, vmax, s.dt)
}

// Solve returns time, source, vC and the device current as aligned series.
func (s *NonlinearRC) Solve(src sources.Source, tEnd, x0 float64) (*dynamo.Trajectory, error) {
	tr, err := run(s, src, s.dt, tEnd, dynamo.State{x0})
	if err != nil {
		return nil, err
	}
	tr.SetDerived(DeviceCurrent, deviceCurrents(tr, s.device))
	return tr, nil
}

func (s *NonlinearRC) SolveStep(amplitude, tEnd, x0 float64) (*dynamo.Trajectory, error) {
	return s.Solve(sources.NewStep(amplitude), tEnd, x0)
}

func (s *NonlinearRC) SolveSinusoid(amplitude, omega, tEnd, x0 float64) (*dynamo.Trajectory, error) {
	return s.Solve(sources.NewSinusoid(amplitude, omega, 0), tEnd, x0)
}

func (s *NonlinearRC) String() string {
	return fmt.Sprintf("NonlinearRC(C=%g, dt=%g, device=%v)", s.c, s.dt, s.device)
}
