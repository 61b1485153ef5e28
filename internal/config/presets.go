package config

import (
	"sort"

	"github.com/san-kum/diffsim/internal/physics"
)

var Presets = map[string]*Config{
	"perfect": robotPreset(
		physics.MotorParams{Gain: 100000, TimeConstant: 0.15},
		physics.MotorParams{Gain: 100000, TimeConstant: 0.15},
	),
	"normal": DefaultConfig(),
	"broken": robotPreset(
		physics.MotorParams{Gain: 100000, TimeConstant: 0.2},
		physics.MotorParams{Gain: 200000, TimeConstant: 0.1},
	),
	"jittery": robotPreset(
		physics.MotorParams{Gain: 100000, TimeConstant: 0.155, GainTolerance: 0.05, TimeConstantTolerance: 0.1},
		physics.MotorParams{Gain: 105000, TimeConstant: 0.157, GainTolerance: 0.05, TimeConstantTolerance: 0.1},
	),
	"heading": withController(DefaultConfig(), "heading", map[string]float64{
		"kp": 2, "ki": 0.5, "kd": 0.05, "throttle": DefaultCommand,
	}),
	"square": withController(robotPreset(
		physics.MotorParams{Gain: 100000, TimeConstant: 0.15},
		physics.MotorParams{Gain: 100000, TimeConstant: 0.15},
	), "square", map[string]float64{"side": 0.3, "throttle": 0.3}, 20),
	"goto": withController(DefaultConfig(), "goto", map[string]float64{"x": 0.3, "y": 0.2}),
}

func robotPreset(left, right physics.MotorParams) *Config {
	cfg := DefaultConfig()
	cfg.Robot.Left = left
	cfg.Robot.Right = right
	return cfg
}

func withController(cfg *Config, name string, params map[string]float64, totalTime ...float64) *Config {
	cfg.Controller = name
	cfg.ControllerParams = params
	if len(totalTime) > 0 {
		cfg.TotalTime = totalTime[0]
	}
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
