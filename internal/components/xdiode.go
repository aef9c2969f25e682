package components

import (
	"fmt"

	"github.com/san-kum/circuitsim/internal/dynamo"
)

// Breakpoints of the X-diode characteristic. Both belong to the middle region.
const (
	XDiodeKnee     = 0.0
	XDiodeBreakout = 3.0
)

// XDiode is the three-region piecewise device:
//
//	v < 0       i = 0.1·v
//	0 ≤ v ≤ 3   i = (2/3)·v
//	v > 3       i = (v-3)² + 2
//
// The characteristic is continuous at both breakpoints. Scale multiplies the
// result; the reference exam circuit reads the curve in milliamperes (Scale 1e-3).
type XDiode struct {
	scale float64
}

// NewXDiode returns the characteristic with unit scale.
func NewXDiode() *XDiode {
	return &XDiode{scale: 1}
}

func NewScaledXDiode(scale float64) (*XDiode, error) {
	if err := dynamo.RequirePositive("scale", scale); err != nil {
		return nil, err
	}
	return &XDiode{scale: scale}, nil
}

func (d *XDiode) Current(v float64) float64 {
	var i float64
	switch {
	case v < XDiodeKnee:
		i = 0.1 * v
	case v <= XDiodeBreakout:
		i = (2.0 / 3.0) * v
	default:
		i = (v-XDiodeBreakout)*(v-XDiodeBreakout) + 2
	}
	return i * d.scale
}

// Conductance is the one-sided derivative; at a breakpoint the middle region wins.
func (d *XDiode) Conductance(v float64) float64 {
	var g float64
	switch {
	case v < XDiodeKnee:
		g = 0.1
	case v <= XDiodeBreakout:
		g = 2.0 / 3.0
	default:
		g = 2 * (v - XDiodeBreakout)
	}
	return g * d.scale
}

func (d *XDiode) Scale() float64 { return d.scale }

// Breakpoints lists the region boundaries for I-V plots.
func (d *XDiode) Breakpoints() []float64 {
	return []float64{XDiodeKnee, XDiodeBreakout}
}

func (d *XDiode) String() string {
	return fmt.Sprintf("XDiode(scale=%g)", d.scale)
}
