package dynamo

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	return s.firstInvalid() < 0
}

func (s State) firstInvalid() int {
	for i, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i
		}
	}
	return -1
}

// AddScaled returns s + alpha·d without modifying either operand. d must
// have the same length as s.
func (s State) AddScaled(alpha float64, d State) State {
	return floats.AddScaledTo(make(State, len(s)), s, alpha, d)
}

// System is a circuit state equation dx/dt = f(x, u, t) driven by a scalar input.
type System interface {
	Derive(x State, u float64, t float64) State
	StateDim() int
}

// EnergyStorage is implemented by systems whose state stores energy (½Cv², ½Li²).
type EnergyStorage interface {
	Energy(x State) float64
}

// Observer receives every sample after it has been recorded.
type Observer interface {
	OnStep(x State, u float64, t float64)
}

type Integrator interface {
	Step(sys System, x State, u float64, t float64, dt float64) State
}
