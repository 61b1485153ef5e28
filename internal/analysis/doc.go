// Package analysis characterizes a recorded trajectory after the run.
//
//   - [PowerSpectrum] and [DominantFrequency]: spectrum of a sampled signal,
//     used to find the wobble of a heading controller
//   - [SettlingTime] and [Overshoot]: step-response figures for heading
//   - [CrossTrack]: largest sideways drift from the starting line
//
// [Analyze] collects all of them for one run:
//
//	resp := analysis.Analyze(traj, 0, 0.02)
//	if !resp.Settled {
//	    // heading never stayed inside the band
//	}
package analysis
