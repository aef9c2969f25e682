// Package analysis derives circuit parameters and timestep advice.
//
// The advisor never changes a run. It reports what a caller should check:
//
//   - [AdviseRC]: stability bound dt < 2τ and accuracy threshold 0.05τ
//   - [NewRLCParams]: ω0, f0, T0, ζ, damping regime and, when underdamped, ωd and overshoot
//   - [AdviseRLC]: warning above T0/20, recommendation T0/50
//   - [StateSpace]: eigenvalues of the linear state matrix and the resulting Euler bound
//   - [NonlinearDtLimit]: 2C/g_max from a device's incremental conductance
//
// It also carries diagnostics over finished runs: stored energy ([AnalyzeEnergy]),
// harmonic content ([PowerSpectrum], [Harmonics]), device I-V curves ([IVCurve])
// and phase portraits ([NewPhasePortrait]).
//
// # Choosing dt
//
//	adv := analysis.AdviseRC(analysis.TimeConstant(1000, 1e-4), 2e-4)
//	if !adv.Stable {
//	    // reduce dt and run again
//	}
package analysis
