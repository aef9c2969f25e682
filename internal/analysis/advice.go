package analysis

import "fmt"

// Advice is the advisor's verdict on a chosen timestep.
type Advice struct {
	Dt float64
	// StabilityLimit is the largest dt for which Euler does not blow up.
	StabilityLimit float64
	// Recommended is the dt the advisor would pick for accurate plots.
	Recommended float64
	Stable      bool
	Warnings    []string
}

func (a Advice) OK() bool {
	return a.Stable && len(a.Warnings) == 0
}

func (a *Advice) warn(format string, args ...any) {
	a.Warnings = append(a.Warnings, fmt.Sprintf(format, args...))
}
