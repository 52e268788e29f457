// Package analysis extracts physical numbers from simulated trajectories.
//
//   - [PowerSpectrum], [DominantFrequency], [RabiFrequencyEstimate]:
//     oscillation frequencies from population traces
//   - [Summarize]: descriptive statistics of a series
//   - [Scan]: sweep a system parameter and reduce each run to one value
//   - [BlochTrajectory]: project a pair of levels onto the Bloch sphere
//
// # Rabi frequency from a trace
//
// A resonant two-level population follows sin²(Ωt/2) = (1 - cos Ωt)/2, so
// the dominant spectral line of the excited population sits at Ω/2π:
//
//	pe := ev.Population(physics.Intermediate)
//	omega, err := analysis.RabiFrequencyEstimate(pe, dt)
package analysis
