package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/diffsim/internal/dynamo"
	"github.com/san-kum/diffsim/internal/integrators"
	"github.com/san-kum/diffsim/internal/physics"
)

// Simulator owns one robot and advances it under a control law, recording a
// sample per step. It is not safe for concurrent use.
type Simulator struct {
	robot *physics.Robot
	law   dynamo.ControlLaw

	dHeading *integrators.Derivative
	dCurv    *integrators.Derivative

	period     float64
	step       int
	trajectory dynamo.Trajectory

	metrics   []dynamo.Metric
	observers []dynamo.Observer
	logger    *zap.Logger
}

type Option func(*Simulator)

func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithMetrics(ms ...dynamo.Metric) Option {
	return func(s *Simulator) { s.metrics = append(s.metrics, ms...) }
}

func WithObservers(obs ...dynamo.Observer) Option {
	return func(s *Simulator) { s.observers = append(s.observers, obs...) }
}

func New(robot *physics.Robot, law dynamo.ControlLaw, opts ...Option) (*Simulator, error) {
	if robot == nil {
		return nil, fmt.Errorf("%w: nil robot", dynamo.ErrInvalidParameter)
	}
	if law == nil {
		return nil, fmt.Errorf("%w: nil control law", dynamo.ErrInvalidParameter)
	}
	period := robot.Period()
	dHeading, err := integrators.NewDerivative(period)
	if err != nil {
		return nil, err
	}
	dCurv, err := integrators.NewDerivative(period)
	if err != nil {
		return nil, err
	}

	s := &Simulator{
		robot:    robot,
		law:      law,
		dHeading: dHeading,
		dCurv:    dCurv,
		period:   period,
		metrics:  make([]dynamo.Metric, 0),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Step reads the plant, derives the rates, asks the control law for
// commands, applies them and records the pre-step state with the commands.
func (s *Simulator) Step() (dynamo.Sample, error) {
	st := s.robot.State()
	headingRate := s.dHeading.Process(st.Heading)
	curvSpeed := s.dCurv.Process(st.CurvDistance)

	in := dynamo.Inputs{
		X:            st.X,
		Y:            st.Y,
		LeftSpeed:    st.LeftSpeed,
		RightSpeed:   st.RightSpeed,
		Heading:      st.Heading,
		CurvDistance: st.CurvDistance,
		HeadingRate:  headingRate,
		CurvSpeed:    curvSpeed,
	}
	left, right := s.law.Compute(in)

	t := float64(s.step) * s.period
	if math.IsNaN(left) || math.IsNaN(right) {
		return dynamo.Sample{}, &dynamo.SimulationError{
			Step:    s.step,
			Time:    t,
			Wrapped: fmt.Errorf("%w: left=%v right=%v", dynamo.ErrInvalidCommand, left, right),
		}
	}

	s.robot.Process(left, right)

	sample := dynamo.Sample{
		Time:         t,
		X:            st.X,
		Y:            st.Y,
		LeftSpeed:    st.LeftSpeed,
		RightSpeed:   st.RightSpeed,
		LeftCmd:      left,
		RightCmd:     right,
		Heading:      st.Heading,
		CurvDistance: st.CurvDistance,
		HeadingRate:  headingRate,
		CurvSpeed:    curvSpeed,
	}
	s.trajectory = append(s.trajectory, sample)
	s.step++

	for _, m := range s.metrics {
		m.Observe(sample)
	}
	for _, obs := range s.observers {
		obs.OnStep(sample)
	}
	return sample, nil
}

// Run advances the simulation by steps, scheduled by src. On cancellation
// the partial result is returned together with ErrContextCanceled.
func (s *Simulator) Run(ctx context.Context, src TickSource, steps int) (*Result, error) {
	if steps < 0 {
		return nil, fmt.Errorf("%w: negative step count %d", dynamo.ErrInvalidParameter, steps)
	}
	if src == nil {
		src = Immediate{}
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	start := s.step
	if cap(s.trajectory)-len(s.trajectory) < steps {
		grown := make(dynamo.Trajectory, len(s.trajectory), len(s.trajectory)+steps)
		copy(grown, s.trajectory)
		s.trajectory = grown
	}
	s.logger.Debug("simulation started", zap.Int("steps", steps), zap.Float64("period", s.period))

	err := src.Drive(ctx, steps, func() error {
		_, err := s.Step()
		return err
	})

	result := &Result{
		Trajectory: s.trajectory[start:],
		Metrics:    make(map[string]float64, len(s.metrics)),
		StepsTaken: s.step - start,
		Final:      s.finalSample(),
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.logger.Info("simulation canceled", zap.Int("steps_taken", result.StepsTaken))
		return result, fmt.Errorf("%w: %v", dynamo.ErrContextCanceled, err)
	default:
		s.logger.Warn("simulation stopped", zap.Int("steps_taken", result.StepsTaken), zap.Error(err))
		return result, err
	}

	s.logger.Debug("simulation finished", zap.Int("steps_taken", result.StepsTaken))
	return result, nil
}

func (s *Simulator) finalSample() dynamo.Sample {
	st := s.robot.State()
	return dynamo.Sample{
		Time:         s.Time(),
		X:            st.X,
		Y:            st.Y,
		LeftSpeed:    st.LeftSpeed,
		RightSpeed:   st.RightSpeed,
		Heading:      st.Heading,
		CurvDistance: st.CurvDistance,
	}
}

// Trajectory returns every sample recorded so far.
func (s *Simulator) Trajectory() dynamo.Trajectory { return s.trajectory }

func (s *Simulator) Robot() *physics.Robot { return s.robot }

func (s *Simulator) Law() dynamo.ControlLaw { return s.law }

// Time is the time of the next step.
func (s *Simulator) Time() float64 { return float64(s.step) * s.period }

func (s *Simulator) Steps() int { return s.step }
