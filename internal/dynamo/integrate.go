package dynamo

import "fmt"

// Integrate steps sys across grid starting from x0:
//
//	x[0] = x0
//	x[k+1] = integ.Step(sys, x[k], input[k], t[k], dt)
//
// input must hold one value per grid point. The run always covers the whole
// grid; the first non-finite state is recorded on the trajectory instead of
// cutting it short.
func Integrate(sys System, integ Integrator, grid TimeGrid, input []float64, x0 State) (*Trajectory, error) {
	if sys == nil || integ == nil {
		return nil, fmt.Errorf("%w: nil system or integrator", ErrDomainMismatch)
	}
	if len(x0) != sys.StateDim() {
		return nil, fmt.Errorf("%w: initial state has %d components, system expects %d", ErrDomainMismatch, len(x0), sys.StateDim())
	}
	n := grid.Len()
	if len(input) != n {
		return nil, fmt.Errorf("%w: %d input samples for %d grid points", ErrDomainMismatch, len(input), n)
	}

	tr := &Trajectory{
		Time:   grid.Times(),
		Input:  input,
		States: make([]State, n),
	}

	x := x0.Clone()
	tr.States[0] = x
	tr.checkFinite(0, x)

	dt := grid.Dt()
	for k := 0; k < n-1; k++ {
		x = integ.Step(sys, x, input[k], tr.Time[k], dt)
		tr.States[k+1] = x
		tr.checkFinite(k+1, x)
	}

	return tr, nil
}

func (tr *Trajectory) checkFinite(k int, x State) {
	if tr.divergence != nil {
		return
	}
	if i := x.firstInvalid(); i >= 0 {
		tr.divergence = &DivergenceError{Step: k, Time: tr.Time[k], Component: i}
	}
}
