package automation

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/diffsim/internal/config"
	"github.com/san-kum/diffsim/internal/dynamo"
	"github.com/san-kum/diffsim/internal/experiment"
	"github.com/san-kum/diffsim/internal/sim"
)

// MonteCarloConfig runs one configuration over consecutive seeds, drawing
// a different as-built robot for each when the config has tolerances.
type MonteCarloConfig struct {
	Base      *config.Config
	NumTrials int
	SeedStart int64
	// Parallel caps concurrent trials. Zero means no cap.
	Parallel int
}

type MonteCarloResult struct {
	Seed         int64
	FinalX       float64
	FinalY       float64
	FinalHeading float64
	Metrics      map[string]float64
}

type Stats struct {
	Mean, StdDev, Min, Max float64
}

func RunMonteCarlo(ctx context.Context, cfg MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	if registry == nil {
		registry = experiment.NewRegistry()
	}

	factory := func(seed int64) (*sim.Simulator, error) {
		c := cfg.Base.Clone()
		c.Seed = seed
		exp := experiment.New(c, experiment.WithRegistry(registry))
		if err := exp.Setup(); err != nil {
			return nil, err
		}
		return exp.Simulator(), nil
	}

	ens := sim.NewEnsemble(factory, cfg.NumTrials, cfg.SeedStart)
	ens.SetLimit(cfg.Parallel)
	results, err := ens.Run(ctx, cfg.Base.Steps())
	if err != nil {
		return nil, err
	}

	out := make([]MonteCarloResult, len(results))
	for i, res := range results {
		out[i] = MonteCarloResult{
			Seed:         cfg.SeedStart + int64(i),
			FinalX:       res.Final.X,
			FinalY:       res.Final.Y,
			FinalHeading: res.Final.Heading,
			Metrics:      res.Metrics,
		}
	}
	return out, nil
}

// Summarize computes statistics of one field across trials.
func Summarize(results []MonteCarloResult, get func(MonteCarloResult) float64) Stats {
	if len(results) == 0 {
		return Stats{}
	}
	s := Stats{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, r := range results {
		v := get(r)
		s.Mean += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.Mean /= float64(len(results))
	for _, r := range results {
		d := get(r) - s.Mean
		s.StdDev += d * d
	}
	s.StdDev = math.Sqrt(s.StdDev / float64(len(results)))
	return s
}

// SweepResult holds one point of a parameter sweep.
type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
}

// RunSweep varies one controller parameter linearly from lo to hi.
func RunSweep(ctx context.Context, base *config.Config, param string, lo, hi float64, n int) ([]SweepResult, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative sweep count %d", dynamo.ErrInvalidParameter, n)
	}
	results := make([]SweepResult, 0, n)
	step := 0.0
	if n > 1 {
		step = (hi - lo) / float64(n-1)
	}

	for i := 0; i < n; i++ {
		cfg := base.Clone()
		v := lo + float64(i)*step
		cfg.ControllerParams[param] = v

		exp := experiment.New(cfg)
		if err := exp.Setup(); err != nil {
			return results, err
		}
		res, err := exp.Run(ctx, sim.Immediate{})
		if err != nil {
			return results, err
		}
		results = append(results, SweepResult{ParamValue: v, Metrics: res.Metrics})
	}
	return results, nil
}
