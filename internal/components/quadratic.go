package components

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/circuitsim/internal/dynamo"
)

const DefaultQuadraticK = 0.01

// ErrInfiniteResistance is returned for the incremental resistance at v = 0.
var ErrInfiniteResistance = errors.New("components: incremental resistance is infinite at v=0")

// Quadratic is the device i = k·v². The current is never negative and is even in v.
type Quadratic struct {
	k float64
}

func NewQuadratic(k float64) (*Quadratic, error) {
	if err := dynamo.RequirePositive("k", k); err != nil {
		return nil, err
	}
	return &Quadratic{k: k}, nil
}

// NewDefaultQuadratic uses k = 0.01 A/V².
func NewDefaultQuadratic() *Quadratic {
	return &Quadratic{k: DefaultQuadraticK}
}

func (q *Quadratic) Current(v float64) float64 {
	return q.k * v * v
}

// Conductance is di/dv = 2kv.
func (q *Quadratic) Conductance(v float64) float64 {
	return 2 * q.k * v
}

// Resistance is dv/di = 1/(2kv).
func (q *Quadratic) Resistance(v float64) (float64, error) {
	if math.Abs(v) < 1e-12 {
		return 0, ErrInfiniteResistance
	}
	return 1 / (2 * q.k * v), nil
}

// Power is v·i = k·v³.
func (q *Quadratic) Power(v float64) float64 {
	return q.k * v * v * v
}

func (q *Quadratic) K() float64 { return q.k }

func (q *Quadratic) String() string {
	return fmt.Sprintf("Quadratic(k=%.3e A/V²)", q.k)
}
