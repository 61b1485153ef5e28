// Package physics models the differential-drive robot.
//
// A [Robot] owns two first-order motor filters and four trapezoidal
// integrators. Each call to [Robot.Process] clamps the commands, updates the
// wheel speeds, converts them to mean and angular velocity, integrates
// heading and curvilinear distance, then integrates X/Y using the heading
// just computed:
//
//	r, _ := physics.NewRobot(physics.NominalParams(), nil)
//	r.Process(0.2, 0.2)
//	st := r.State()
//
// Motor parameters can be jittered within a tolerance band at construction;
// the random source is injected so runs are reproducible from a seed.
package physics
