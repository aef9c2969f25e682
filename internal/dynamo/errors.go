package dynamo

import (
	"errors"
	"fmt"
	"math"
)

// Domain errors for circuit simulation.
var (
	// ErrInvalidParameter indicates a non-positive or non-finite physical constant or timestep.
	ErrInvalidParameter = errors.New("dynamo: invalid parameter")

	// ErrNumericalDivergence indicates the trajectory produced NaN or Inf values.
	ErrNumericalDivergence = errors.New("dynamo: numerical divergence (NaN or Inf detected)")

	// ErrDomainMismatch indicates a device, source or state that does not fit the solver.
	ErrDomainMismatch = errors.New("dynamo: domain mismatch")
)

// DivergenceError records where a trajectory first became non-finite.
type DivergenceError struct {
	Step      int
	Time      float64
	Component int
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g): state[%d] is not finite: %v", e.Step, e.Time, e.Component, ErrNumericalDivergence)
}

func (e *DivergenceError) Unwrap() error {
	return ErrNumericalDivergence
}

// RequirePositive fails with ErrInvalidParameter unless v is finite and strictly positive.
func RequirePositive(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidParameter, name, v)
	}
	return nil
}
