package solvers

import (
	"fmt"

	"github.com/san-kum/circuitsim/internal/components"
	"github.com/san-kum/circuitsim/internal/dynamo"
	"github.com/san-kum/circuitsim/internal/sources"
)

// Reference exam drive: Vs(t) = 10·sin(10t).
const (
	ExamAmplitude = 10.0
	ExamOmega     = 10.0
)

// RCDiode is a series device feeding a parallel R_LOAD‖C:
//
//	dVo/dt = (i_device(Vs − Vo) − Vo/R_LOAD) / C
//
// There is no closed form; only the numerical trajectory is produced.
type RCDiode struct {
	rLoad, c, dt float64
	device       components.Device
	cp           *components.Capacitor
}

func NewRCDiode(rLoad, c, dt float64, device components.Device) (*RCDiode, error) {
	if err := requireAll(namedValue{"R_LOAD", rLoad}, namedValue{"C", c}, namedValue{"dt", dt}); err != nil {
		return nil, fmt.Errorf("rc diode: %w", err)
	}
	if device == nil {
		return nil, fmt.Errorf("rc diode: %w: nil device", dynamo.ErrDomainMismatch)
	}
	return &RCDiode{rLoad: rLoad, c: c, dt: dt, device: device, cp: capacitor(c)}, nil
}

func (s *RCDiode) Device() components.Device { return s.device }
func (s *RCDiode) Dt() float64               { return s.dt }

func (s *RCDiode) StateDim() int { return 1 }

func (s *RCDiode) Derive(x dynamo.State, u float64, t float64) dynamo.State {
	vo := x[0]
	return dynamo.State{s.cp.RateFromCurrent(s.device.Current(u-vo) - vo/s.rLoad)}
}

func (s *RCDiode) Energy(x dynamo.State) float64 {
	return s.cp.Energy(x[0])
}

// ExamSource returns the default drive 10·sin(10t).
func ExamSource() sources.Source {
	return sources.NewSinusoid(ExamAmplitude, ExamOmega, 0)
}

// Simulate runs the default exam drive.
func (s *RCDiode) Simulate(tEnd, v0 float64) (*dynamo.Trajectory, error) {
	return s.Solve(ExamSource(), tEnd, v0)
}

// Solve runs an arbitrary drive and records the device current as a derived series.
func (s *RCDiode) Solve(src sources.Source, tEnd, v0 float64) (*dynamo.Trajectory, error) {
	tr, err := run(s, src, s.dt, tEnd, dynamo.State{v0})
	if err != nil {
		return nil, err
	}
	tr.SetDerived(DeviceCurrent, deviceCurrents(tr, s.device))
	return tr, nil
}

func (s *RCDiode) String() string {
	return fmt.Sprintf("RCDiode(R_LOAD=%g, C=%g, dt=%g, device=%v)", s.rLoad, s.c, s.dt, s.device)
}

func deviceCurrents(tr *dynamo.Trajectory, dev components.Device) []float64 {
	out := make([]float64, tr.Len())
	for k := range out {
		out[k] = dev.Current(tr.Input[k] - tr.States[k][0])
	}
	return out
}
