// Package control provides control laws for the robot.
//
// Control laws implement [dynamo.ControlLaw] and turn the kinematic state
// into two motor commands:
//
//   - [Constant]: fixed commands, the default placeholder law
//   - [None]: zero commands
//   - [HeadingHold]: PID on heading around a base throttle
//   - [GoTo]: drive to a point and stop
//   - [Square]: drive a square using distance and heading
//   - [Manual]: commands set from outside (live view keys)
//
// # Usage
//
//	law := control.NewHeadingHold(2.0, 0.5, 0.1, 0, 0.3, dt)
//	s, _ := sim.New(robot, law)
//
// Laws implementing [dynamo.Configurable] support live tuning.
package control
