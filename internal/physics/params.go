package physics

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/diffsim/internal/dynamo"
)

const (
	DefaultPeriod             = 0.01
	DefaultTicksPerMeter      = 278000
	DefaultDiffTicksPerRadian = 21772
)

// MotorParams describes one wheel motor. Gain is in ticks/s per unit
// command; tolerances are fractions of the nominal value.
type MotorParams struct {
	Gain                  float64 `json:"gain" yaml:"gain"`
	TimeConstant          float64 `json:"time_constant" yaml:"time_constant"`
	GainTolerance         float64 `json:"gain_tolerance" yaml:"gain_tolerance"`
	TimeConstantTolerance float64 `json:"time_constant_tolerance" yaml:"time_constant_tolerance"`
}

func (m MotorParams) validate(side string) error {
	if !dynamo.IsFinite(m.TimeConstant) || m.TimeConstant <= 0 {
		return fmt.Errorf("%w: %s time constant must be positive, got %g", dynamo.ErrInvalidParameter, side, m.TimeConstant)
	}
	if !dynamo.IsFinite(m.Gain) {
		return fmt.Errorf("%w: %s gain must be finite", dynamo.ErrInvalidParameter, side)
	}
	for name, tol := range map[string]float64{"gain": m.GainTolerance, "time constant": m.TimeConstantTolerance} {
		if !dynamo.IsFinite(tol) || tol < 0 || tol >= 1 {
			return fmt.Errorf("%w: %s %s tolerance must be in [0, 1), got %g", dynamo.ErrInvalidParameter, side, name, tol)
		}
	}
	return nil
}

func (m MotorParams) jittered() bool {
	return m.GainTolerance != 0 || m.TimeConstantTolerance != 0
}

type Params struct {
	Period             float64
	Left               MotorParams
	Right              MotorParams
	TicksPerMeter      float64
	DiffTicksPerRadian float64
}

// NominalParams is the well-matched robot: 100000 ticks/s gain and 150 ms
// time constant on both wheels.
func NominalParams() Params {
	m := MotorParams{Gain: 100000, TimeConstant: 0.150}
	return Params{
		Period:             DefaultPeriod,
		Left:               m,
		Right:              m,
		TicksPerMeter:      DefaultTicksPerMeter,
		DiffTicksPerRadian: DefaultDiffTicksPerRadian,
	}
}

func (p Params) Validate() error {
	if !dynamo.IsFinite(p.Period) || p.Period <= 0 {
		return fmt.Errorf("%w: period must be positive, got %g", dynamo.ErrInvalidParameter, p.Period)
	}
	if err := p.Left.validate("left"); err != nil {
		return err
	}
	if err := p.Right.validate("right"); err != nil {
		return err
	}
	if !dynamo.IsFinite(p.TicksPerMeter) || p.TicksPerMeter <= 0 {
		return fmt.Errorf("%w: ticks per meter must be positive, got %g", dynamo.ErrInvalidParameter, p.TicksPerMeter)
	}
	if !dynamo.IsFinite(p.DiffTicksPerRadian) || p.DiffTicksPerRadian <= 0 {
		return fmt.Errorf("%w: differential ticks per radian must be positive, got %g", dynamo.ErrInvalidParameter, p.DiffTicksPerRadian)
	}
	return nil
}

// Jitter draws a value uniformly within ±tolerance (as a fraction) of nominal.
func Jitter(nominal, tolerance float64, rng *rand.Rand) float64 {
	return nominal * (1 + (rng.Float64()-0.5)*2*tolerance)
}

// Motor is the as-built motor: nominal values after jitter.
type Motor struct {
	Gain         float64 `json:"gain"`
	TimeConstant float64 `json:"time_constant"`
}
