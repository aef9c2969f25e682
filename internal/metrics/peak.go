package metrics

import (
	"math"

	"github.com/san-kum/circuitsim/internal/dynamo"
)

// Peak is the largest |x[i]| seen.
type Peak struct {
	name  string
	index int
	peak  float64
}

func NewPeak(name string, index int) *Peak {
	return &Peak{name: name, index: index}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(x dynamo.State, u float64, t float64) {
	if p.index < len(x) {
		p.peak = math.Max(p.peak, math.Abs(x[p.index]))
	}
}

func (p *Peak) Value() float64 { return p.peak }

func (p *Peak) Reset() { p.peak = 0 }

// Overshoot is (max - final) / |final - initial| for component i, the
// fractional overshoot of a step response. It is 0 for a monotone rise.
type Overshoot struct {
	index            int
	first, last, max float64
	samples          int
}

func NewOvershoot(index int) *Overshoot {
	return &Overshoot{index: index}
}

func (o *Overshoot) Name() string { return "overshoot" }

func (o *Overshoot) Observe(x dynamo.State, u float64, t float64) {
	if o.index >= len(x) {
		return
	}
	v := x[o.index]
	if o.samples == 0 {
		o.first, o.max = v, v
	}
	o.last = v
	o.max = math.Max(o.max, v)
	o.samples++
}

func (o *Overshoot) Value() float64 {
	span := math.Abs(o.last - o.first)
	if o.samples == 0 || span == 0 {
		return 0
	}
	return math.Max(o.max-o.last, 0) / span
}

func (o *Overshoot) Reset() {
	o.first, o.last, o.max = 0, 0, 0
	o.samples = 0
}
