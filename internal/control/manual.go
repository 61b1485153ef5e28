package control

import "github.com/san-kum/diffsim/internal/dynamo"

// Manual passes externally set commands to the robot. Used by the live view
// to drive with the keyboard.
type Manual struct {
	Left, Right float64
}

func NewManual() *Manual {
	return &Manual{}
}

// Set replaces both commands, limited to [-1, 1].
func (m *Manual) Set(left, right float64) {
	m.Left = dynamo.Clamp(left, -1, 1)
	m.Right = dynamo.Clamp(right, -1, 1)
}

// Nudge adds to both commands, limited to [-1, 1].
func (m *Manual) Nudge(dLeft, dRight float64) {
	m.Set(m.Left+dLeft, m.Right+dRight)
}

func (m *Manual) Stop() { m.Left, m.Right = 0, 0 }

func (m *Manual) Compute(dynamo.Inputs) (float64, float64) {
	return m.Left, m.Right
}
