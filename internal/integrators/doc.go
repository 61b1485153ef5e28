// Package integrators provides the fixed-step scalar operators the plant is
// built from: a first-order lag, a trapezoidal integrator and a backward
// difference. Each consumes one sample per call and keeps only its own
// history; none of them is safe for concurrent use.
package integrators
