// Package analytic holds closed-form reference trajectories for the linear
// circuits and the error norms used to compare numerical output against them.
package analytic

import "math"

// Func is a reference solution x(t).
type Func func(t float64) float64

// Sample evaluates f on every time point.
func (f Func) Sample(times []float64) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = f(t)
	}
	return out
}

// RCStep is vC(t) = A + (x0 - A)·e^(-t/τ).
func RCStep(amplitude, x0, tau float64) Func {
	return func(t float64) float64 {
		return amplitude + (x0-amplitude)*math.Exp(-t/tau)
	}
}

// RCRamp is vC(t) = A(t - τ) + (x0 + Aτ)·e^(-t/τ).
func RCRamp(slope, x0, tau float64) Func {
	return func(t float64) float64 {
		return slope*(t-tau) + (x0+slope*tau)*math.Exp(-t/tau)
	}
}

// RCSinusoidSteadyState is the steady-state response to A·sin(ωt):
//
//	vC(t) = A/√(1+(ωτ)²) · sin(ωt - atan(ωτ))
//
// The transient is not included.
func RCSinusoidSteadyState(amplitude, omega, tau float64) Func {
	wt := omega * tau
	mag := amplitude / math.Sqrt(1+wt*wt)
	lag := math.Atan(wt)
	return func(t float64) float64 {
		return mag * math.Sin(omega*t-lag)
	}
}
