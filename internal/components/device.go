package components

// Device maps the voltage across an element to the current through it.
// Implementations are pure and defined for every real voltage.
type Device interface {
	Current(v float64) float64
}

// Linearizable devices report their incremental conductance di/dv.
type Linearizable interface {
	Conductance(v float64) float64
}

// Linear is implemented by R, L and C.
type Linear interface {
	// Impedance at angular frequency omega (rad/s).
	Impedance(omega float64) complex128
	// Parameter returns R, L or C in SI units.
	Parameter() float64
}

// DeviceFunc adapts an ordinary function to the Device interface.
type DeviceFunc func(v float64) float64

func (f DeviceFunc) Current(v float64) float64 {
	return f(v)
}
