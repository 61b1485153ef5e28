package control

import (
	"fmt"

	"github.com/san-kum/diffsim/internal/dynamo"
)

// DefaultCommand is 20% of full speed.
const DefaultCommand = 0.2

// Constant returns the same commands every step.
type Constant struct {
	Left  float64
	Right float64
}

func NewConstant(left, right float64) *Constant {
	return &Constant{Left: left, Right: right}
}

func (c *Constant) Compute(dynamo.Inputs) (float64, float64) {
	return c.Left, c.Right
}

func (c *Constant) GetParams() map[string]float64 {
	return map[string]float64{
		"left":  c.Left,
		"right": c.Right,
	}
}

func (c *Constant) SetParam(name string, value float64) error {
	switch name {
	case "left":
		c.Left = value
	case "right":
		c.Right = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
