package metrics

import (
	"math"

	"github.com/san-kum/diffsim/internal/dynamo"
)

// ControlEffort averages |command| over both wheels and every observed
// step. Raw law outputs are used, so commands past the clamp count in full.
type ControlEffort struct {
	total float64
	steps int
}

func NewControlEffort() *ControlEffort { return &ControlEffort{} }

func (*ControlEffort) Name() string { return "control_effort" }

func (c *ControlEffort) Observe(s dynamo.Sample) {
	c.total += math.Abs(s.LeftCmd) + math.Abs(s.RightCmd)
	c.steps++
}

// Value is the mean per-wheel command magnitude, or 0 before any step.
func (c *ControlEffort) Value() float64 {
	if c.steps == 0 {
		return 0
	}
	return c.total / float64(2*c.steps)
}

func (c *ControlEffort) Reset() { *c = ControlEffort{} }
