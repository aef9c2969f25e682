package sources

import "fmt"

// Step is u(t) = A for t ≥ 0.
type Step struct {
	Amplitude float64
}

func NewStep(amplitude float64) *Step {
	return &Step{Amplitude: amplitude}
}

func (s *Step) Evaluate(float64) float64 {
	return s.Amplitude
}

func (s *Step) Vectorized(times []float64) []float64 {
	return Sample(s, times)
}

func (s *Step) String() string {
	return fmt.Sprintf("Step(A=%g V)", s.Amplitude)
}
