package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/san-kum/diffsim/internal/config"
	"github.com/san-kum/diffsim/internal/dynamo"
	"github.com/san-kum/diffsim/internal/physics"
	"github.com/san-kum/diffsim/internal/sim"
)

// Experiment is one configured run: a robot drawn from the config's seed,
// the named control law and the default metrics.
type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	simulator *sim.Simulator
	logger    *zap.Logger
	observers []dynamo.Observer
}

type Option func(*Experiment)

func WithLogger(l *zap.Logger) Option {
	return func(e *Experiment) { e.logger = l }
}

func WithRegistry(r *Registry) Option {
	return func(e *Experiment) { e.registry = r }
}

func WithObservers(obs ...dynamo.Observer) Option {
	return func(e *Experiment) { e.observers = append(e.observers, obs...) }
}

func New(cfg *config.Config, opts ...Option) *Experiment {
	e := &Experiment{
		cfg:    cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = NewRegistry()
	}
	return e
}

func (e *Experiment) Setup() error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(e.cfg.Seed))
	robot, err := physics.NewRobot(e.cfg.RobotParams(), rng)
	if err != nil {
		return err
	}

	law, err := e.registry.GetController(e.cfg.Controller, e.cfg.ControllerParams, e.cfg.Dt)
	if err != nil {
		return err
	}

	e.simulator, err = sim.New(robot, law,
		sim.WithLogger(e.logger),
		sim.WithMetrics(e.registry.DefaultMetrics()...),
		sim.WithObservers(e.observers...),
	)
	if err != nil {
		return err
	}

	left, right := robot.Motors()
	e.logger.Debug("experiment ready",
		zap.String("controller", e.cfg.Controller),
		zap.Int64("seed", e.cfg.Seed),
		zap.Float64("left_gain", left.Gain),
		zap.Float64("left_tau", left.TimeConstant),
		zap.Float64("right_gain", right.Gain),
		zap.Float64("right_tau", right.TimeConstant),
	)
	return nil
}

func (e *Experiment) Run(ctx context.Context, src sim.TickSource) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, src, e.cfg.Steps())
}

func (e *Experiment) Simulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Config() *config.Config {
	return e.cfg
}
