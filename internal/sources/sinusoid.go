package sources

import (
	"fmt"
	"math"
)

// Sinusoid is u(t) = A·sin(ωt + φ).
type Sinusoid struct {
	Amplitude float64
	Omega     float64
	Phase     float64
}

func NewSinusoid(amplitude, omega, phase float64) *Sinusoid {
	return &Sinusoid{Amplitude: amplitude, Omega: omega, Phase: phase}
}

func (s *Sinusoid) Evaluate(t float64) float64 {
	return s.Amplitude * math.Sin(s.Omega*t+s.Phase)
}

func (s *Sinusoid) Vectorized(times []float64) []float64 {
	return Sample(s, times)
}

// Period is 2π/ω.
func (s *Sinusoid) Period() float64 {
	return 2 * math.Pi / s.Omega
}

func (s *Sinusoid) FrequencyHz() float64 {
	return s.Omega / (2 * math.Pi)
}

func (s *Sinusoid) String() string {
	return fmt.Sprintf("Sinusoid(A=%g V, ω=%g rad/s, φ=%g rad)", s.Amplitude, s.Omega, s.Phase)
}
