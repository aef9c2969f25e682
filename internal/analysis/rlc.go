package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/circuitsim/internal/dynamo"
)

// Damping classifies a second-order response by ζ.
type Damping int

const (
	Underdamped Damping = iota
	CriticallyDamped
	Overdamped
)

func (d Damping) String() string {
	switch d {
	case Underdamped:
		return "underdamped"
	case CriticallyDamped:
		return "critically_damped"
	case Overdamped:
		return "overdamped"
	default:
		return fmt.Sprintf("Damping(%d)", int(d))
	}
}

// Classify applies the exact three-way split. Only ζ == 1 is critical; there
// is no tolerance band around it.
func Classify(zeta float64) Damping {
	switch {
	case zeta < 1:
		return Underdamped
	case zeta == 1:
		return CriticallyDamped
	default:
		return Overdamped
	}
}

// RLCParams holds the derived quantities of a series RLC.
type RLCParams struct {
	R, L, C float64

	Omega0  float64
	F0      float64
	T0      float64
	Zeta    float64
	Alpha   float64
	Damping Damping

	// Only set when underdamped.
	OmegaD    float64
	FD        float64
	Overshoot float64
}

// NewRLCParams computes ω0 = 1/√(LC), ζ = R/(2√(L/C)) and the regime.
func NewRLCParams(r, l, c float64) (RLCParams, error) {
	for _, p := range []struct {
		name string
		v    float64
	}{{"R", r}, {"L", l}, {"C", c}} {
		if err := dynamo.RequirePositive(p.name, p.v); err != nil {
			return RLCParams{}, err
		}
	}

	w0 := 1 / math.Sqrt(l*c)
	zeta := r / (2 * math.Sqrt(l/c))
	p := RLCParams{
		R: r, L: l, C: c,
		Omega0:  w0,
		F0:      w0 / (2 * math.Pi),
		T0:      2 * math.Pi / w0,
		Zeta:    zeta,
		Alpha:   r / (2 * l),
		Damping: Classify(zeta),
	}
	if p.Damping == Underdamped {
		p.OmegaD = w0 * math.Sqrt(1-zeta*zeta)
		p.FD = p.OmegaD / (2 * math.Pi)
		p.Overshoot = math.Exp(-math.Pi * zeta / math.Sqrt(1-zeta*zeta))
	}
	return p, nil
}

// Energy is the total stored energy ½C·vC² + ½L·iL².
func (p RLCParams) Energy(vC, iL float64) float64 {
	return 0.5*p.C*vC*vC + 0.5*p.L*iL*iL
}

const (
	// RLCWarnDivisor: dt above T0/20 draws a warning.
	RLCWarnDivisor = 20.0
	// RLCRecommendedDivisor: dt of T0/50 or less resolves the oscillation.
	RLCRecommendedDivisor = 50.0
)

// AdviseRLC checks dt against the natural period and the eigenvalue bound of
// the state matrix.
func AdviseRLC(p RLCParams, dt float64) Advice {
	adv := Advice{
		Dt:          dt,
		Recommended: p.T0 / RLCRecommendedDivisor,
	}
	ss := RLCStateSpace(p.R, p.L, p.C)
	adv.StabilityLimit = ss.MaxStableDt()
	adv.Stable = dt > 0 && dt < adv.StabilityLimit

	if !adv.Stable {
		adv.warn("dt=%g is outside the Euler stability region (limit %g)", dt, adv.StabilityLimit)
	}
	if dt > p.T0/RLCWarnDivisor {
		adv.warn("dt=%g exceeds T0/20 = %g; recommend dt <= T0/50 = %g", dt, p.T0/RLCWarnDivisor, adv.Recommended)
	}
	return adv
}
