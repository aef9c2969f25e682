package dynamo

import (
	"fmt"
	"math"
)

// gridSlack absorbs rounding in t_end/dt so that exact multiples keep their end point.
const gridSlack = 1e-9

// TimeGrid is the uniform sample grid t[i] = i*dt, i = 0..N-1, N = floor(t_end/dt) + 1.
type TimeGrid struct {
	dt float64
	n  int
}

func NewTimeGrid(tEnd, dt float64) (TimeGrid, error) {
	if err := RequirePositive("dt", dt); err != nil {
		return TimeGrid{}, err
	}
	if err := RequirePositive("t_end", tEnd); err != nil {
		return TimeGrid{}, err
	}
	steps := math.Floor(tEnd/dt + gridSlack)
	if steps > math.MaxInt32 {
		return TimeGrid{}, fmt.Errorf("%w: t_end/dt = %g samples is too many", ErrInvalidParameter, steps)
	}
	return TimeGrid{dt: dt, n: int(steps) + 1}, nil
}

func (g TimeGrid) Dt() float64 { return g.dt }
func (g TimeGrid) Len() int    { return g.n }

// At returns the i-th sample time. Times are computed by multiplication, never accumulated.
func (g TimeGrid) At(i int) float64 {
	return float64(i) * g.dt
}

func (g TimeGrid) End() float64 {
	return g.At(g.n - 1)
}

// Times materializes the grid.
func (g TimeGrid) Times() []float64 {
	t := make([]float64, g.n)
	for i := range t {
		t[i] = g.At(i)
	}
	return t
}
