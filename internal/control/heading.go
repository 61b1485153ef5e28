package control

import (
	"fmt"

	"github.com/san-kum/diffsim/internal/dynamo"
)

const DefaultMaxIntegral = 0.5

// HeadingHold steers toward a target heading while driving at a base
// throttle. A positive correction speeds up the left wheel, which turns the
// robot counter-clockwise.
type HeadingHold struct {
	Kp          float64
	Ki          float64
	Kd          float64
	Target      float64
	Throttle    float64
	MaxIntegral float64

	period   float64
	integral float64
}

func NewHeadingHold(kp, ki, kd, target, throttle, period float64) *HeadingHold {
	return &HeadingHold{
		Kp:          kp,
		Ki:          ki,
		Kd:          kd,
		Target:      target,
		Throttle:    throttle,
		MaxIntegral: DefaultMaxIntegral,
		period:      period,
	}
}

func (h *HeadingHold) Compute(in dynamo.Inputs) (float64, float64) {
	err := dynamo.WrapAngle(h.Target - in.Heading)

	h.integral = dynamo.Clamp(h.integral+err*h.period, -h.MaxIntegral, h.MaxIntegral)
	// derivative on measurement: no kick when the target changes
	u := h.Kp*err + h.Ki*h.integral - h.Kd*in.HeadingRate

	return h.Throttle + u, h.Throttle - u
}

// Reset clears the integral term.
func (h *HeadingHold) Reset() {
	h.integral = 0
}

// GetParams returns tunable parameters for live adjustment
func (h *HeadingHold) GetParams() map[string]float64 {
	return map[string]float64{
		"kp":       h.Kp,
		"ki":       h.Ki,
		"kd":       h.Kd,
		"target":   h.Target,
		"throttle": h.Throttle,
	}
}

// SetParam adjusts a heading-hold parameter
func (h *HeadingHold) SetParam(name string, value float64) error {
	switch name {
	case "kp":
		h.Kp = value
	case "ki":
		h.Ki = value
	case "kd":
		h.Kd = value
	case "target":
		h.Target = value
	case "throttle":
		h.Throttle = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
