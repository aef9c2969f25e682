package components

import (
	"fmt"
	"math/cmplx"

	"github.com/san-kum/circuitsim/internal/dynamo"
)

// Capacitor relates i = C·dv/dt. Its voltage is a state variable.
type Capacitor struct {
	c float64
}

func NewCapacitor(c float64) (*Capacitor, error) {
	if err := dynamo.RequirePositive("C", c); err != nil {
		return nil, err
	}
	return &Capacitor{c: c}, nil
}

func (c *Capacitor) CurrentFromRate(dvdt float64) float64 {
	return c.c * dvdt
}

// RateFromCurrent is the state equation dv/dt = i/C.
func (c *Capacitor) RateFromCurrent(i float64) float64 {
	return i / c.c
}

func (c *Capacitor) Charge(v float64) float64 {
	return c.c * v
}

func (c *Capacitor) Energy(v float64) float64 {
	return 0.5 * c.c * v * v
}

// Impedance is 1/(jωC). At DC it is infinite and cmplx.Inf() is returned.
func (c *Capacitor) Impedance(omega float64) complex128 {
	if omega == 0 {
		return cmplx.Inf()
	}
	return complex(0, -1/(omega*c.c))
}

func (c *Capacitor) Parameter() float64 { return c.c }

func (c *Capacitor) String() string {
	return fmt.Sprintf("Capacitor(C=%.3e F)", c.c)
}
