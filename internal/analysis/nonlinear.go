package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/circuitsim/internal/components"
	"github.com/san-kum/circuitsim/internal/dynamo"
)

// NonlinearDtLimit estimates the Euler bound 2C/g_max for an RC driven through a
// device, where g_max is the largest incremental conductance over the voltage
// range [vmin, vmax] the device is expected to see. The bound is local: it holds
// while the device voltage stays inside the range. +Inf means g is zero there.
func NonlinearDtLimit(c float64, dev components.Linearizable, vmin, vmax float64, samples int) (float64, error) {
	if err := dynamo.RequirePositive("C", c); err != nil {
		return 0, err
	}
	if dev == nil {
		return 0, fmt.Errorf("%w: nil device", dynamo.ErrDomainMismatch)
	}
	if samples < 2 || !(vmax > vmin) {
		return 0, fmt.Errorf("%w: need vmax > vmin and at least 2 samples", dynamo.ErrInvalidParameter)
	}

	gmax := 0.0
	step := (vmax - vmin) / float64(samples-1)
	for i := 0; i < samples; i++ {
		gmax = math.Max(gmax, math.Abs(dev.Conductance(vmin+float64(i)*step)))
	}
	if gmax == 0 {
		return math.Inf(1), nil
	}
	return 2 * c / gmax, nil
}

// AdviseNonlinear wraps NonlinearDtLimit in an Advice. The recommendation is a
// fortieth of the limit, the same margin 0.05τ gives against 2τ in the linear case.
func AdviseNonlinear(c float64, dev components.Linearizable, vmin, vmax, dt float64) (Advice, error) {
	limit, err := NonlinearDtLimit(c, dev, vmin, vmax, 1001)
	if err != nil {
		return Advice{}, err
	}
	adv := Advice{Dt: dt, StabilityLimit: limit, Recommended: limit / 40}
	adv.Stable = dt > 0 && dt < limit
	if !adv.Stable {
		adv.warn("dt=%g exceeds 2C/g_max = %g over [%g, %g] V; the run may diverge", dt, limit, vmin, vmax)
	} else if dt > adv.Recommended {
		adv.warn("dt=%g is within a factor 40 of the stability limit %g", dt, limit)
	}
	return adv, nil
}
