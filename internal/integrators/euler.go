package integrators

import "github.com/san-kum/circuitsim/internal/dynamo"

// Euler is the explicit forward Euler rule x[k+1] = x[k] + dt*f(t[k], x[k], u[k]).
// Local truncation error is O(dt²), global error O(dt). For a linear mode with
// eigenvalue λ the update is stable only while |1 + dt·λ| < 1.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

// Step evaluates every derivative at x before touching any component, so a
// multi-dimensional state never mixes old and new values within one step.
func (e *Euler) Step(sys dynamo.System, x dynamo.State, u float64, t float64, dt float64) dynamo.State {
	return x.AddScaled(dt, sys.Derive(x, u, t))
}
