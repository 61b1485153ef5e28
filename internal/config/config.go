package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/diffsim/internal/dynamo"
	"github.com/san-kum/diffsim/internal/physics"
	"github.com/san-kum/diffsim/internal/sim"
)

const (
	DefaultDt        = physics.DefaultPeriod
	DefaultTotalTime = 10.0
	DefaultCommand   = 0.2
)

type Config struct {
	Dt               float64            `yaml:"dt"`
	TotalTime        float64            `yaml:"total_time"`
	Seed             int64              `yaml:"seed"`
	Controller       string             `yaml:"controller"`
	ControllerParams map[string]float64 `yaml:"controller_params,omitempty"`
	Robot            RobotConfig        `yaml:"robot"`
	Plot             PlotConfig         `yaml:"plot"`
}

type RobotConfig struct {
	Left               physics.MotorParams `yaml:"left"`
	Right              physics.MotorParams `yaml:"right"`
	TicksPerMeter      float64             `yaml:"ticks_per_meter"`
	DiffTicksPerRadian float64             `yaml:"diff_ticks_per_rad"`
}

type PlotConfig struct {
	States     bool `yaml:"states"`
	OtherSpeed bool `yaml:"other_speed"`
}

// DefaultConfig is the "normal" robot: slightly mismatched motors driven by
// a constant 20% command on both wheels.
func DefaultConfig() *Config {
	return &Config{
		Dt:         DefaultDt,
		TotalTime:  DefaultTotalTime,
		Controller: "constant",
		ControllerParams: map[string]float64{
			"left":  DefaultCommand,
			"right": DefaultCommand,
		},
		Robot: RobotConfig{
			Left:               physics.MotorParams{Gain: 100000, TimeConstant: 0.155},
			Right:              physics.MotorParams{Gain: 105000, TimeConstant: 0.157},
			TicksPerMeter:      physics.DefaultTicksPerMeter,
			DiffTicksPerRadian: physics.DefaultDiffTicksPerRadian,
		},
		Plot: PlotConfig{OtherSpeed: true},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of a copy of base: keys missing from the file
// keep the base's values. Controller params from the file replace the
// base's, which are kept only when the file names no params and the same
// controller.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	// yaml.v3 merges into a non-nil map
	inherited := cfg.ControllerParams
	cfg.ControllerParams = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", dynamo.ErrInvalidConfig, path, err)
	}
	if cfg.ControllerParams == nil {
		if cfg.Controller == base.Controller {
			cfg.ControllerParams = inherited
		} else {
			cfg.ControllerParams = map[string]float64{}
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) RobotParams() physics.Params {
	return physics.Params{
		Period:             c.Dt,
		Left:               c.Robot.Left,
		Right:              c.Robot.Right,
		TicksPerMeter:      c.Robot.TicksPerMeter,
		DiffTicksPerRadian: c.Robot.DiffTicksPerRadian,
	}
}

// Steps is the number of samples a run of TotalTime produces.
func (c *Config) Steps() int {
	return sim.StepCount(c.TotalTime, c.Dt)
}

func (c *Config) Validate() error {
	if !dynamo.IsFinite(c.TotalTime) || c.TotalTime <= 0 {
		return fmt.Errorf("%w: total_time must be positive, got %g", dynamo.ErrInvalidConfig, c.TotalTime)
	}
	if c.Controller == "" {
		return fmt.Errorf("%w: controller is required", dynamo.ErrInvalidConfig)
	}
	if err := c.RobotParams().Validate(); err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrInvalidConfig, err)
	}
	return nil
}

// Clone returns a deep copy so presets can be modified by callers.
func (c *Config) Clone() *Config {
	out := *c
	out.ControllerParams = make(map[string]float64, len(c.ControllerParams))
	for k, v := range c.ControllerParams {
		out.ControllerParams[k] = v
	}
	return &out
}
