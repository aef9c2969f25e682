// Package solvers implements the four circuit topologies as state equations
// stepped with forward Euler on a uniform grid.
//
// A solver binds its physical constants and dt at construction and never
// mutates them afterwards, so one instance may serve concurrent Solve calls.
// Every call returns a freshly allocated trajectory.
package solvers

import (
	"fmt"

	"github.com/san-kum/circuitsim/internal/components"
	"github.com/san-kum/circuitsim/internal/dynamo"
	"github.com/san-kum/circuitsim/internal/integrators"
	"github.com/san-kum/circuitsim/internal/sources"
)

// DeviceCurrent names the derived series holding the nonlinear device current.
const DeviceCurrent = "i_device"

// StoredEnergy names the derived series holding ½Cv² (+ ½Li²).
const StoredEnergy = "energy"

func run(sys dynamo.System, src sources.Source, dt, tEnd float64, x0 dynamo.State) (*dynamo.Trajectory, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", dynamo.ErrDomainMismatch)
	}
	grid, err := dynamo.NewTimeGrid(tEnd, dt)
	if err != nil {
		return nil, err
	}
	input := sources.Sample(src, grid.Times())
	return dynamo.Integrate(sys, integrators.NewEuler(), grid, input, x0)
}

// capacitor is only called after c passed requireAll.
func capacitor(c float64) *components.Capacitor {
	cp, _ := components.NewCapacitor(c)
	return cp
}

func requireAll(params ...namedValue) error {
	for _, p := range params {
		if err := dynamo.RequirePositive(p.name, p.v); err != nil {
			return err
		}
	}
	return nil
}

type namedValue struct {
	name string
	v    float64
}

func energySeries(tr *dynamo.Trajectory, es dynamo.EnergyStorage) []float64 {
	out := make([]float64, tr.Len())
	for k, x := range tr.States {
		out[k] = es.Energy(x)
	}
	return out
}
