package analytic

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Residual returns numerical - reference element-wise.
func Residual(numerical, reference []float64) []float64 {
	out := make([]float64, len(numerical))
	floats.SubTo(out, numerical, reference)
	return out
}

// MaxAbsError is the infinity norm of the residual.
func MaxAbsError(numerical, reference []float64) float64 {
	if len(numerical) == 0 {
		return 0
	}
	return floats.Distance(numerical, reference, math.Inf(1))
}

// RMSError is the root-mean-square residual.
func RMSError(numerical, reference []float64) float64 {
	if len(numerical) == 0 {
		return 0
	}
	return floats.Distance(numerical, reference, 2) / math.Sqrt(float64(len(numerical)))
}

// MaxAbsErrorFrom restricts the infinity norm to samples with times[i] >= from,
// e.g. to compare against a steady-state reference once the transient is gone.
func MaxAbsErrorFrom(times, numerical, reference []float64, from float64) float64 {
	start := len(times)
	for i, t := range times {
		if t >= from {
			start = i
			break
		}
	}
	return MaxAbsError(numerical[start:], reference[start:])
}

// ConvergenceRatios returns errs[i]/errs[i+1]. For a first-order method and
// halved timesteps each ratio approaches 2.
func ConvergenceRatios(errs []float64) []float64 {
	if len(errs) < 2 {
		return nil
	}
	out := make([]float64, len(errs)-1)
	floats.DivTo(out, errs[:len(errs)-1], errs[1:])
	return out
}

// ObservedOrder estimates p in err ∝ dt^p from ratios obtained with refinement factor r.
func ObservedOrder(ratio, refinement float64) float64 {
	return math.Log(ratio) / math.Log(refinement)
}
