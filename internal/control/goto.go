package control

import (
	"fmt"
	"math"

	"github.com/san-kum/diffsim/internal/dynamo"
)

// GoTo drives to a point and stops inside Radius. Throttle shrinks with
// distance and with heading error so the robot turns before it drives.
type GoTo struct {
	X, Y     float64
	Kp       float64
	Speed    float64
	Radius   float64
	SlowDown float64
}

func NewGoTo(x, y float64) *GoTo {
	return &GoTo{
		X:        x,
		Y:        y,
		Kp:       1.5,
		Speed:    0.3,
		Radius:   0.01,
		SlowDown: 0.1,
	}
}

func (g *GoTo) Compute(in dynamo.Inputs) (float64, float64) {
	dx, dy := g.X-in.X, g.Y-in.Y
	dist := math.Hypot(dx, dy)
	if dist < g.Radius {
		return 0, 0
	}

	err := dynamo.WrapAngle(math.Atan2(dy, dx) - in.Heading)
	throttle := g.Speed
	if g.SlowDown > 0 && dist < g.SlowDown {
		throttle *= dist / g.SlowDown
	}
	throttle *= math.Max(0, math.Cos(err))

	turn := dynamo.Clamp(g.Kp*err, -g.Speed, g.Speed)
	return throttle + turn, throttle - turn
}

// Reached reports whether in lies inside the stop radius.
func (g *GoTo) Reached(in dynamo.Inputs) bool {
	return math.Hypot(g.X-in.X, g.Y-in.Y) < g.Radius
}

func (g *GoTo) GetParams() map[string]float64 {
	return map[string]float64{
		"x":      g.X,
		"y":      g.Y,
		"kp":     g.Kp,
		"speed":  g.Speed,
		"radius": g.Radius,
	}
}

func (g *GoTo) SetParam(name string, value float64) error {
	switch name {
	case "x":
		g.X = value
	case "y":
		g.Y = value
	case "kp":
		g.Kp = value
	case "speed":
		g.Speed = value
	case "radius":
		g.Radius = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
