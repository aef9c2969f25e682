package components

import (
	"fmt"

	"github.com/san-kum/circuitsim/internal/dynamo"
)

// Inductor relates v = L·di/dt. Its current is a state variable.
type Inductor struct {
	l float64
}

func NewInductor(l float64) (*Inductor, error) {
	if err := dynamo.RequirePositive("L", l); err != nil {
		return nil, err
	}
	return &Inductor{l: l}, nil
}

func (l *Inductor) VoltageFromRate(didt float64) float64 {
	return l.l * didt
}

// RateFromVoltage is the state equation di/dt = v/L.
func (l *Inductor) RateFromVoltage(v float64) float64 {
	return v / l.l
}

func (l *Inductor) FluxLinkage(i float64) float64 {
	return l.l * i
}

func (l *Inductor) Energy(i float64) float64 {
	return 0.5 * l.l * i * i
}

// Impedance is jωL; zero at DC.
func (l *Inductor) Impedance(omega float64) complex128 {
	return complex(0, omega*l.l)
}

func (l *Inductor) Parameter() float64 { return l.l }

func (l *Inductor) String() string {
	return fmt.Sprintf("Inductor(L=%.3e H)", l.l)
}
