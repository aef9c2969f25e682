package metrics

import (
	"math"

	"github.com/san-kum/circuitsim/internal/dynamo"
)

// EnergyGrowth tracks the largest single-step rise in stored energy relative to
// the initial energy. A passive circuit with a zero source should stay near 0;
// Euler's own error shows up as a small positive value.
type EnergyGrowth struct {
	es      dynamo.EnergyStorage
	initial float64
	prev    float64
	maxRise float64
	samples int
}

func NewEnergyGrowth(es dynamo.EnergyStorage) *EnergyGrowth {
	return &EnergyGrowth{es: es}
}

func (e *EnergyGrowth) Name() string { return "energy_growth" }

func (e *EnergyGrowth) Observe(x dynamo.State, u float64, t float64) {
	energy := e.es.Energy(x)
	if e.samples == 0 {
		e.initial = energy
	} else {
		e.maxRise = math.Max(e.maxRise, energy-e.prev)
	}
	e.prev = energy
	e.samples++
}

func (e *EnergyGrowth) Value() float64 {
	if e.initial == 0 {
		return e.maxRise
	}
	return e.maxRise / e.initial
}

func (e *EnergyGrowth) Reset() {
	e.initial, e.prev, e.maxRise = 0, 0, 0
	e.samples = 0
}

// FinalEnergy is the stored energy at the last sample.
type FinalEnergy struct {
	es   dynamo.EnergyStorage
	last float64
}

func NewFinalEnergy(es dynamo.EnergyStorage) *FinalEnergy {
	return &FinalEnergy{es: es}
}

func (e *FinalEnergy) Name() string { return "final_energy" }

func (e *FinalEnergy) Observe(x dynamo.State, u float64, t float64) {
	e.last = e.es.Energy(x)
}

func (e *FinalEnergy) Value() float64 { return e.last }

func (e *FinalEnergy) Reset() { e.last = 0 }
