package dynamo

// Trajectory holds index-aligned series: Time[i], Input[i], States[i] and, when
// present, Analytic[i] and Derived[name][i] all describe the same sample.
type Trajectory struct {
	Time     []float64
	Input    []float64
	States   []State
	Analytic []float64
	Derived  map[string][]float64

	divergence *DivergenceError
}

// Len returns the number of samples.
func (tr *Trajectory) Len() int {
	return len(tr.Time)
}

// Component extracts state component i as its own series.
func (tr *Trajectory) Component(i int) []float64 {
	out := make([]float64, len(tr.States))
	for k, x := range tr.States {
		if i < len(x) {
			out[k] = x[i]
		}
	}
	return out
}

// Final returns the last recorded state.
func (tr *Trajectory) Final() State {
	if len(tr.States) == 0 {
		return nil
	}
	return tr.States[len(tr.States)-1]
}

// SetDerived attaches a named series such as a device current.
func (tr *Trajectory) SetDerived(name string, series []float64) {
	if tr.Derived == nil {
		tr.Derived = make(map[string][]float64)
	}
	tr.Derived[name] = series
}

// Diverged reports whether any state became NaN or Inf.
func (tr *Trajectory) Diverged() bool {
	return tr.divergence != nil
}

// Err returns a *DivergenceError for the first non-finite state, or nil.
func (tr *Trajectory) Err() error {
	if tr.divergence == nil {
		return nil
	}
	return tr.divergence
}

// Replay feeds every sample to obs in time order.
func (tr *Trajectory) Replay(obs ...Observer) {
	for k := range tr.States {
		for _, o := range obs {
			o.OnStep(tr.States[k], tr.Input[k], tr.Time[k])
		}
	}
}
