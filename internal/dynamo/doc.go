// Package dynamo provides the simulation primitives shared by every circuit solver.
//
// The package defines the data model of a fixed-step simulation run:
//
//   - [State]: vector of energy-storage variables (capacitor voltage, inductor current)
//   - [System]: state equation dX/dt = f(X, u, t) with a scalar input u
//   - [Integrator]: single-step numerical update rule
//   - [TimeGrid]: uniformly spaced sample times from 0 to t_end
//   - [Trajectory]: index-aligned time, input, state and derived series
//
// [Integrate] drives an Integrator over a TimeGrid and records every state
// into a fresh Trajectory. Non-finite states do not stop the run; they are
// reported through [Trajectory.Err] so the caller can shrink dt and retry.
//
// # Example
//
//	grid, _ := dynamo.NewTimeGrid(0.5, 2e-4)
//	input := sources.Sample(sources.NewStep(5), grid.Times())
//	traj, _ := dynamo.Integrate(sys, integrators.NewEuler(), grid, input, dynamo.State{0})
//
// # Thread Safety
//
// Systems are read-only during a run and every call allocates its own
// Trajectory, so the same System may be integrated from several goroutines.
package dynamo
