// Package sources provides the input waveforms that drive a circuit.
package sources

import (
	"fmt"
	"strings"
)

// Source is a stateless function of time.
type Source interface {
	Evaluate(t float64) float64
}

// Sample evaluates src independently at every time point.
func Sample(src Source, times []float64) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = src.Evaluate(t)
	}
	return out
}

// Func adapts an ordinary function to the Source interface.
type Func func(t float64) float64

func (f Func) Evaluate(t float64) float64 {
	return f(t)
}

// Params carries the constructor arguments accepted by New.
type Params struct {
	Amplitude float64
	Slope     float64
	Omega     float64
	Phase     float64
}

// New builds a source from its type name: "step", "ramp", "sine" or "sinusoid".
func New(kind string, p Params) (Source, error) {
	switch strings.ToLower(kind) {
	case "step":
		return NewStep(p.Amplitude), nil
	case "ramp":
		slope := p.Slope
		if slope == 0 {
			slope = p.Amplitude
		}
		return NewRamp(slope), nil
	case "sine", "sinusoid":
		return NewSinusoid(p.Amplitude, p.Omega, p.Phase), nil
	default:
		return nil, fmt.Errorf("unknown source type: %s", kind)
	}
}
