// Package components models the circuit elements used by the solvers.
//
// Static devices map an instantaneous voltage to a current and implement
// [Device]: [Resistor], [XDiode] (piecewise three-region characteristic) and
// [Quadratic] (i = k·v²). Any func(float64) float64 can be used through
// [DeviceFunc].
//
// Energy-storage elements ([Capacitor], [Inductor]) are not devices; they expose
// the differential relation in both directions so solvers can convert between
// a state derivative and a branch current, plus stored energy and impedance
// for diagnostics.
//
// All values are SI. Every element is immutable after construction.
package components
