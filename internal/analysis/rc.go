package analysis

import (
	"math"
)

const (
	// RCStabilityFactor bounds Euler stability for a first-order RC: dt < 2τ.
	RCStabilityFactor = 2.0
	// RCAccuracyFactor is the largest dt/τ considered accurate.
	RCAccuracyFactor = 0.05
	// RCRecommendedFactor is the dt/τ used by the reference examples.
	RCRecommendedFactor = 0.002
)

// TimeConstant returns τ = RC.
func TimeConstant(r, c float64) float64 {
	return r * c
}

// AdviseRC checks dt against τ.
func AdviseRC(tau, dt float64) Advice {
	adv := Advice{
		Dt:             dt,
		StabilityLimit: RCStabilityFactor * tau,
		Recommended:    RCRecommendedFactor * tau,
	}
	adv.Stable = dt > 0 && dt < adv.StabilityLimit
	switch {
	case !adv.Stable:
		adv.warn("dt=%g is outside the stable range 0 < dt < 2τ = %g", dt, adv.StabilityLimit)
	case dt > RCAccuracyFactor*tau:
		adv.warn("dt=%g exceeds 0.05τ = %g; expect visible error", dt, RCAccuracyFactor*tau)
	}
	return adv
}

// FrequencyResponse of the RC low-pass vC/u at one angular frequency.
type FrequencyResponse struct {
	Omega     float64
	Magnitude float64
	// Phase in radians, negative for a lag.
	Phase  float64
	Cutoff float64
}

// MagnitudeDB returns 20·log10(|H|).
func (f FrequencyResponse) MagnitudeDB() float64 {
	return 20 * math.Log10(f.Magnitude)
}

// RCFrequencyResponse evaluates H(jω) = 1/(1 + jωτ).
func RCFrequencyResponse(omega, tau float64) FrequencyResponse {
	wt := omega * tau
	return FrequencyResponse{
		Omega:     omega,
		Magnitude: 1 / math.Sqrt(1+wt*wt),
		Phase:     -math.Atan(wt),
		Cutoff:    1 / tau,
	}
}
