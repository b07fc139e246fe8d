// Package analysis extracts diagnostics from recorded runs.
//
// The package works on [sim.Result] columns, which are labelled
// "<body>.<axis>" for positions and "<body>.v<axis>" for velocities:
//
//   - [Separation]: distance series between two bodies
//   - [Trajectories]: per-body screen-plane tracks
//   - [PowerSpectrum], [DominantPeriod]: orbital period estimation via FFT
//   - [PhasePortrait], [PoincareSection]: 2D phase plots of any two columns
//   - [LyapunovExponent]: divergence rate of two nearby runs
//
// # Orbital period
//
//	sep, _ := analysis.Separation(result, "planet1", "planet2")
//	period, _ := analysis.DominantPeriod(sep, dt)
package analysis
