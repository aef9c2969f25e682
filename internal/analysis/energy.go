package analysis

import (
	"github.com/san-kum/circuitsim/internal/dynamo"
)

// EnergyReport summarizes stored energy over a run.
type EnergyReport struct {
	Series     []float64
	Initial    float64
	Final      float64
	Peak       float64
	Dissipated float64
	// MaxIncrease is the largest single-step rise; Euler adds a little energy
	// each step even when the circuit is passive.
	MaxIncrease float64
}

// NonIncreasing reports whether every step rise is within tol·Initial.
func (r EnergyReport) NonIncreasing(tol float64) bool {
	return r.MaxIncrease <= tol*r.Initial
}

// AnalyzeEnergy evaluates the stored energy at every sample of tr.
func AnalyzeEnergy(tr *dynamo.Trajectory, es dynamo.EnergyStorage) EnergyReport {
	if tr == nil || es == nil || tr.Len() == 0 {
		return EnergyReport{}
	}
	series := make([]float64, len(tr.States))
	for k, x := range tr.States {
		series[k] = es.Energy(x)
	}

	rep := EnergyReport{
		Series:  series,
		Initial: series[0],
		Final:   series[len(series)-1],
	}
	for k, e := range series {
		if e > rep.Peak {
			rep.Peak = e
		}
		if k > 0 && e-series[k-1] > rep.MaxIncrease {
			rep.MaxIncrease = e - series[k-1]
		}
	}
	rep.Dissipated = rep.Initial - rep.Final
	return rep
}
