package physics

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/diffsim/internal/dynamo"
	"github.com/san-kum/diffsim/internal/integrators"
)

// RobotState is the plant state visible to the driver after a step.
type RobotState struct {
	X            float64
	Y            float64
	Heading      float64
	CurvDistance float64
	LeftSpeed    float64
	RightSpeed   float64
}

// Robot is a differential-drive plant: two first-order motors whose wheel
// speeds (ticks/s) are integrated into heading, curvilinear distance and
// X/Y position.
type Robot struct {
	period             float64
	ticksPerMeter      float64
	diffTicksPerRadian float64

	left, right *integrators.FirstOrder
	leftMotor   Motor
	rightMotor  Motor

	heading, curv, x, y *integrators.Trapezoid
}

// NewRobot builds the plant. Each motor's time constant and gain are drawn
// from rng within their tolerance bands, in the order left time constant,
// left gain, right time constant, right gain. rng may be nil only when every
// tolerance is zero.
func NewRobot(p Params, rng *rand.Rand) (*Robot, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if rng == nil && (p.Left.jittered() || p.Right.jittered()) {
		return nil, fmt.Errorf("%w: non-zero tolerance needs a random source", dynamo.ErrInvalidParameter)
	}

	r := &Robot{
		period:             p.Period,
		ticksPerMeter:      p.TicksPerMeter,
		diffTicksPerRadian: p.DiffTicksPerRadian,
		leftMotor:          buildMotor(p.Left, rng),
		rightMotor:         buildMotor(p.Right, rng),
	}

	var err error
	if r.left, err = integrators.NewFirstOrder(p.Period, r.leftMotor.TimeConstant, r.leftMotor.Gain); err != nil {
		return nil, fmt.Errorf("left motor: %w", err)
	}
	if r.right, err = integrators.NewFirstOrder(p.Period, r.rightMotor.TimeConstant, r.rightMotor.Gain); err != nil {
		return nil, fmt.Errorf("right motor: %w", err)
	}
	for _, in := range []**integrators.Trapezoid{&r.heading, &r.curv, &r.x, &r.y} {
		if *in, err = integrators.NewTrapezoid(p.Period); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func buildMotor(m MotorParams, rng *rand.Rand) Motor {
	if rng == nil {
		return Motor{Gain: m.Gain, TimeConstant: m.TimeConstant}
	}
	tau := Jitter(m.TimeConstant, m.TimeConstantTolerance, rng)
	gain := Jitter(m.Gain, m.GainTolerance, rng)
	return Motor{Gain: gain, TimeConstant: tau}
}

// Process advances the plant by one period. Commands are clamped to [-1, 1].
func (r *Robot) Process(leftCmd, rightCmd float64) {
	leftCmd = dynamo.Clamp(leftCmd, -1, 1)
	rightCmd = dynamo.Clamp(rightCmd, -1, 1)

	vl := r.left.Process(leftCmd)   // ticks/s
	vr := r.right.Process(rightCmd) // ticks/s

	mean := (vl + vr) / 2 / r.ticksPerMeter     // m/s
	angular := (vl - vr) / r.diffTicksPerRadian // rad/s

	r.curv.Process(mean)
	heading := r.heading.Process(angular)

	// position uses the heading integrated this step
	r.x.Process(mean * math.Cos(heading))
	r.y.Process(mean * math.Sin(heading))
}

func (r *Robot) State() RobotState {
	return RobotState{
		X:            r.x.Output(),
		Y:            r.y.Output(),
		Heading:      r.heading.Output(),
		CurvDistance: r.curv.Output(),
		LeftSpeed:    r.left.Output(),
		RightSpeed:   r.right.Output(),
	}
}

func (r *Robot) Period() float64 { return r.period }

// Motors reports the as-built left and right motors.
func (r *Robot) Motors() (left, right Motor) {
	return r.leftMotor, r.rightMotor
}

func (r *Robot) GetParams() map[string]float64 {
	return map[string]float64{
		"period":             r.period,
		"ticks_per_meter":    r.ticksPerMeter,
		"diff_ticks_per_rad": r.diffTicksPerRadian,
		"left_gain":          r.leftMotor.Gain,
		"left_tau":           r.leftMotor.TimeConstant,
		"right_gain":         r.rightMotor.Gain,
		"right_tau":          r.rightMotor.TimeConstant,
	}
}
