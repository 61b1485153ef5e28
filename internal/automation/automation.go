package automation

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/diffsim/internal/config"
	"github.com/san-kum/diffsim/internal/dynamo"
	"github.com/san-kum/diffsim/internal/experiment"
	"github.com/san-kum/diffsim/internal/sim"
	"github.com/san-kum/diffsim/internal/storage"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Runs        []ScenarioRun `yaml:"runs"`
}

// ScenarioRun is a single run in a scenario. Zero fields keep the preset's
// values.
type ScenarioRun struct {
	Name       string             `yaml:"name"`
	Preset     string             `yaml:"preset"`
	Controller string             `yaml:"controller"`
	Params     map[string]float64 `yaml:"params"`
	Seed       int64              `yaml:"seed"`
	TotalTime  float64            `yaml:"total_time"`
	SaveAs     string             `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", dynamo.ErrInvalidConfig, path, err)
	}
	if len(scenario.Runs) == 0 {
		return nil, fmt.Errorf("%w: scenario %q has no runs", dynamo.ErrInvalidConfig, scenario.Name)
	}
	return &scenario, nil
}

// Config resolves the run against its preset ("normal" when unset).
func (r ScenarioRun) Config() (*config.Config, error) {
	preset := r.Preset
	if preset == "" {
		preset = "normal"
	}
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("%w: unknown preset %q", dynamo.ErrInvalidConfig, preset)
	}

	if r.Controller != "" && r.Controller != cfg.Controller {
		cfg.Controller = r.Controller
		cfg.ControllerParams = map[string]float64{}
	}
	for k, v := range r.Params {
		cfg.ControllerParams[k] = v
	}
	if r.Seed != 0 {
		cfg.Seed = r.Seed
	}
	if r.TotalTime > 0 {
		cfg.TotalTime = r.TotalTime
	}
	return cfg, cfg.Validate()
}

// Outcome is the result of one scenario run. RunID is set when the run
// was stored.
type Outcome struct {
	Name   string
	RunID  string
	Config *config.Config
	Result *sim.Result
}

type Runner struct {
	store    *storage.Store
	registry *experiment.Registry
	logger   *zap.Logger
}

type Option func(*Runner)

// WithStore saves every run that names save_as.
func WithStore(s *storage.Store) Option {
	return func(r *Runner) { r.store = s }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

func WithRegistry(reg *experiment.Registry) Option {
	return func(r *Runner) { r.registry = reg }
}

func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		registry: experiment.NewRegistry(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunScenario executes all runs in order and stops at the first failure.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(scenario.Runs))

	for i, run := range scenario.Runs {
		name := run.Name
		if name == "" {
			name = fmt.Sprintf("run%d", i+1)
		}
		log := r.logger.With(zap.String("scenario", scenario.Name), zap.String("run", name))

		cfg, err := run.Config()
		if err != nil {
			return outcomes, fmt.Errorf("run %d: %w", i+1, err)
		}

		exp := experiment.New(cfg, experiment.WithRegistry(r.registry), experiment.WithLogger(log))
		if err := exp.Setup(); err != nil {
			return outcomes, fmt.Errorf("run %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx, sim.Immediate{})
		if err != nil {
			return outcomes, fmt.Errorf("run %d: %w", i+1, err)
		}

		out := Outcome{Name: name, Config: cfg, Result: result}
		if run.SaveAs != "" && r.store != nil {
			left, right := exp.Simulator().Robot().Motors()
			out.RunID, err = r.store.Save(storage.RunMetadata{
				Name:       run.SaveAs,
				Controller: cfg.Controller,
				Params:     cfg.ControllerParams,
				Seed:       cfg.Seed,
				Dt:         cfg.Dt,
				TotalTime:  cfg.TotalTime,
				LeftMotor:  left,
				RightMotor: right,
				Metrics:    result.Metrics,
			}, result.Trajectory)
			if err != nil {
				return outcomes, fmt.Errorf("run %d save: %w", i+1, err)
			}
		}

		log.Info("run finished", zap.Int("steps", result.StepsTaken), zap.String("run_id", out.RunID))
		outcomes = append(outcomes, out)
	}

	return outcomes, nil
}
