package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/diffsim/internal/dynamo"
)

// FirstOrder is a sampled first-order lag: the output settles exponentially
// toward gain*input with the configured time constant.
type FirstOrder struct {
	y     float64
	gain  float64
	decay float64
}

func NewFirstOrder(period, timeConstant, gain float64) (*FirstOrder, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	if !dynamo.IsFinite(timeConstant) || timeConstant <= 0 {
		return nil, fmt.Errorf("%w: time constant must be positive, got %g", dynamo.ErrInvalidParameter, timeConstant)
	}
	if !dynamo.IsFinite(gain) {
		return nil, fmt.Errorf("%w: gain must be finite, got %g", dynamo.ErrInvalidParameter, gain)
	}
	return &FirstOrder{
		gain:  gain,
		decay: math.Exp(-period / timeConstant),
	}, nil
}

// NewUnitFirstOrder is NewFirstOrder with a gain of 1.
func NewUnitFirstOrder(period, timeConstant float64) (*FirstOrder, error) {
	return NewFirstOrder(period, timeConstant, 1)
}

func (f *FirstOrder) Process(input float64) float64 {
	scaled := input * f.gain
	f.y = scaled + (f.y-scaled)*f.decay
	return f.y
}

func (f *FirstOrder) Output() float64 { return f.y }
func (f *FirstOrder) Gain() float64   { return f.gain }
func (f *FirstOrder) Decay() float64  { return f.decay }

func checkPeriod(period float64) error {
	if !dynamo.IsFinite(period) || period <= 0 {
		return fmt.Errorf("%w: period must be positive, got %g", dynamo.ErrInvalidParameter, period)
	}
	return nil
}
