// Package dynamo holds the types shared by every part of the simulator.
//
// The central data contract is the [Trajectory]: an ordered sequence of
// [Sample] values, one per simulated step, produced by the simulation driver
// and consumed by storage, reports and the live view.
//
//   - [Inputs]: the kinematic state handed to a control law each step
//   - [ControlLaw]: user-supplied function returning two motor commands
//   - [Metric], [Observer]: per-sample hooks run by the driver
//
// # Errors
//
// Construction failures wrap [ErrInvalidParameter]; a control law that
// returns NaN yields a [SimulationError] wrapping [ErrInvalidCommand].
package dynamo
