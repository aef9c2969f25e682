package metrics

import (
	"math"

	"github.com/san-kum/circuitsim/internal/dynamo"
)

// Stability is the fraction of samples whose state is finite and bounded by threshold.
type Stability struct {
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{threshold: threshold}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(x dynamo.State, u float64, t float64) {
	s.samples++
	for _, val := range x {
		if !(math.Abs(val) <= s.threshold) {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// SettlingTime is the last time component i was outside target ± band.
type SettlingTime struct {
	index        int
	target, band float64
	last         float64
}

func NewSettlingTime(index int, target, band float64) *SettlingTime {
	return &SettlingTime{index: index, target: target, band: band}
}

func (s *SettlingTime) Name() string { return "settling_time" }

func (s *SettlingTime) Observe(x dynamo.State, u float64, t float64) {
	if s.index >= len(x) {
		return
	}
	if !(math.Abs(x[s.index]-s.target) <= s.band) {
		s.last = t
	}
}

func (s *SettlingTime) Value() float64 { return s.last }

func (s *SettlingTime) Reset() { s.last = 0 }
