package sources

import "fmt"

// Ramp is u(t) = A·t.
type Ramp struct {
	Slope float64
}

func NewRamp(slope float64) *Ramp {
	return &Ramp{Slope: slope}
}

func (r *Ramp) Evaluate(t float64) float64 {
	return r.Slope * t
}

func (r *Ramp) Vectorized(times []float64) []float64 {
	return Sample(r, times)
}

func (r *Ramp) String() string {
	return fmt.Sprintf("Ramp(slope=%g V/s)", r.Slope)
}
