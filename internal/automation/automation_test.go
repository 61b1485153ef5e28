package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/diffsim/internal/config"
	"github.com/san-kum/diffsim/internal/dynamo"
	"github.com/san-kum/diffsim/internal/experiment"
	"github.com/san-kum/diffsim/internal/sim"
	"github.com/san-kum/diffsim/internal/storage"
)

const scenarioDoc = `
name: calibration
description: open loop then heading hold
runs:
  - name: open
    preset: normal
    total_time: 0.5
  - name: hold
    preset: normal
    controller: heading
    params:
      kp: 3
    total_time: 0.5
    save_as: hold
`

func writeScenario(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioDoc))
	require.NoError(t, err)
	assert.Equal(t, "calibration", sc.Name)
	require.Len(t, sc.Runs, 2)
	assert.Equal(t, "heading", sc.Runs[1].Controller)
	assert.Equal(t, 3.0, sc.Runs[1].Params["kp"])

	_, err = LoadScenario(writeScenario(t, "name: empty\n"))
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)
}

func TestScenarioRunConfig(t *testing.T) {
	cfg, err := ScenarioRun{Controller: "heading", Params: map[string]float64{"kp": 4}, Seed: 9}.Config()
	require.NoError(t, err)
	assert.Equal(t, "heading", cfg.Controller)
	assert.Equal(t, map[string]float64{"kp": 4}, cfg.ControllerParams)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.Equal(t, config.DefaultTotalTime, cfg.TotalTime)

	_, err = ScenarioRun{Preset: "nope"}.Config()
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioDoc))
	require.NoError(t, err)

	st := storage.New(t.TempDir())
	outcomes, err := NewRunner(WithStore(st)).RunScenario(context.Background(), sc)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	assert.Equal(t, "open", outcomes[0].Name)
	assert.Empty(t, outcomes[0].RunID)
	assert.Len(t, outcomes[0].Result.Trajectory, 50)

	require.NotEmpty(t, outcomes[1].RunID)
	meta, err := st.Load(outcomes[1].RunID)
	require.NoError(t, err)
	assert.Equal(t, "heading", meta.Controller)
	assert.Equal(t, 50, meta.Steps)
	assert.Equal(t, 105000.0, meta.RightMotor.Gain)
}

func TestRunScenarioStopsOnError(t *testing.T) {
	sc := &Scenario{Runs: []ScenarioRun{
		{TotalTime: 0.1},
		{Controller: "warp"},
	}}
	outcomes, err := NewRunner().RunScenario(context.Background(), sc)
	assert.ErrorIs(t, err, dynamo.ErrUnknownController)
	assert.Len(t, outcomes, 1)
}

func TestRunMonteCarlo(t *testing.T) {
	base := config.GetPreset("jittery")
	base.TotalTime = 0.5

	results, err := RunMonteCarlo(context.Background(), MonteCarloConfig{Base: base, NumTrials: 6, SeedStart: 10, Parallel: 2}, nil)
	require.NoError(t, err)
	require.Len(t, results, 6)

	again, err := RunMonteCarlo(context.Background(), MonteCarloConfig{Base: base, NumTrials: 6, SeedStart: 10}, nil)
	require.NoError(t, err)
	for i := range results {
		assert.Equal(t, int64(10+i), results[i].Seed)
		assert.Equal(t, results[i].FinalHeading, again[i].FinalHeading)
	}

	headings := Summarize(results, func(r MonteCarloResult) float64 { return r.FinalHeading })
	assert.Greater(t, headings.StdDev, 0.0)
	assert.LessOrEqual(t, headings.Min, headings.Mean)
	assert.GreaterOrEqual(t, headings.Max, headings.Mean)
}

func TestRunMonteCarloFinalPoseMatchesSingleRun(t *testing.T) {
	base := config.GetPreset("jittery")
	base.TotalTime = 1

	results, err := RunMonteCarlo(context.Background(), MonteCarloConfig{Base: base, NumTrials: 3, SeedStart: 3}, nil)
	require.NoError(t, err)

	for _, r := range results {
		cfg := base.Clone()
		cfg.Seed = r.Seed
		exp := experiment.New(cfg)
		require.NoError(t, exp.Setup())
		_, err := exp.Run(context.Background(), sim.Immediate{})
		require.NoError(t, err)

		pose := exp.Simulator().Robot().State()
		assert.Equal(t, pose.X, r.FinalX, "seed %d", r.Seed)
		assert.Equal(t, pose.Y, r.FinalY, "seed %d", r.Seed)
		assert.Equal(t, pose.Heading, r.FinalHeading, "seed %d", r.Seed)
	}
}

func TestNegativeCounts(t *testing.T) {
	base := config.DefaultConfig()
	base.TotalTime = 0.1

	tests := []struct {
		name string
		run  func() error
	}{
		{"monte carlo", func() error {
			_, err := RunMonteCarlo(context.Background(), MonteCarloConfig{Base: base, NumTrials: -1}, nil)
			return err
		}},
		{"sweep", func() error {
			_, err := RunSweep(context.Background(), base, "left", 0, 1, -1)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), dynamo.ErrInvalidParameter)
		})
	}
}

func TestRunMonteCarloFactoryError(t *testing.T) {
	base := config.DefaultConfig()
	base.Controller = "warp"
	_, err := RunMonteCarlo(context.Background(), MonteCarloConfig{Base: base, NumTrials: 3}, nil)
	assert.True(t, errors.Is(err, dynamo.ErrUnknownController))
}

func TestSummarize(t *testing.T) {
	rs := []MonteCarloResult{{FinalX: 1}, {FinalX: 3}}
	s := Summarize(rs, func(r MonteCarloResult) float64 { return r.FinalX })
	assert.Equal(t, Stats{Mean: 2, StdDev: 1, Min: 1, Max: 3}, s)
	assert.Equal(t, Stats{}, Summarize(nil, func(MonteCarloResult) float64 { return 0 }))
}

func TestRunSweep(t *testing.T) {
	base := config.DefaultConfig()
	base.TotalTime = 0.2

	results, err := RunSweep(context.Background(), base, "left", 0.1, 0.5, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.InDelta(t, 0.3, results[1].ParamValue, 1e-12)
	assert.InDelta(t, (0.3+0.2)/2, results[1].Metrics["control_effort"], 1e-9)
}
