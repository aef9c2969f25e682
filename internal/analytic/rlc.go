package analytic

import "math"

// RLCStep is the capacitor voltage of a series RLC driven by a step of height A
// from vC(0) = vC0, iL(0) = iL0. The regime follows ζ = R/(2√(L/C)) with the same
// exact three-way split the solver reports.
func RLCStep(amplitude, vC0, iL0, r, l, c float64) Func {
	w0 := 1 / math.Sqrt(l*c)
	zeta := r / (2 * math.Sqrt(l/c))
	alpha := zeta * w0

	// e(t) = vC(t) - A solves e'' + 2αe' + ω0²e = 0
	e0 := vC0 - amplitude
	d0 := iL0 / c

	switch {
	case zeta < 1:
		wd := w0 * math.Sqrt(1-zeta*zeta)
		b := (d0 + alpha*e0) / wd
		return func(t float64) float64 {
			return amplitude + math.Exp(-alpha*t)*(e0*math.Cos(wd*t)+b*math.Sin(wd*t))
		}
	case zeta == 1:
		b := d0 + alpha*e0
		return func(t float64) float64 {
			return amplitude + math.Exp(-alpha*t)*(e0+b*t)
		}
	default:
		root := w0 * math.Sqrt(zeta*zeta-1)
		s1, s2 := -alpha+root, -alpha-root
		c1 := (d0 - s2*e0) / (s1 - s2)
		c2 := e0 - c1
		return func(t float64) float64 {
			return amplitude + c1*math.Exp(s1*t) + c2*math.Exp(s2*t)
		}
	}
}
