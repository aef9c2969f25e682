package components

import (
	"fmt"

	"github.com/san-kum/circuitsim/internal/dynamo"
)

type Resistor struct {
	r float64
}

func NewResistor(r float64) (*Resistor, error) {
	if err := dynamo.RequirePositive("R", r); err != nil {
		return nil, err
	}
	return &Resistor{r: r}, nil
}

// Current follows Ohm's law, i = v/R.
func (r *Resistor) Current(v float64) float64 {
	return v / r.r
}

func (r *Resistor) Voltage(i float64) float64 {
	return i * r.r
}

func (r *Resistor) Conductance(float64) float64 {
	return 1 / r.r
}

// Power dissipated at voltage v, v²/R.
func (r *Resistor) Power(v float64) float64 {
	return v * v / r.r
}

func (r *Resistor) Impedance(float64) complex128 {
	return complex(r.r, 0)
}

func (r *Resistor) Parameter() float64 { return r.r }

func (r *Resistor) String() string {
	return fmt.Sprintf("Resistor(R=%.3e Ω)", r.r)
}
