// Package sim drives a robot through fixed time steps.
//
// Each step reads the plant, differentiates heading and curvilinear distance,
// calls the control law and applies its commands. How steps are scheduled is
// injected as a [TickSource]: [Immediate] for batch runs, [Paced] for a
// wall-clock view. Both call the same [Simulator.Step], so the recorded
// trajectories are identical.
package sim
