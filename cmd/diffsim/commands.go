package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/diffsim/internal/automation"
	"github.com/san-kum/diffsim/internal/config"
	"github.com/san-kum/diffsim/internal/control"
	"github.com/san-kum/diffsim/internal/experiment"
	"github.com/san-kum/diffsim/internal/optim"
	"github.com/san-kum/diffsim/internal/report"
	"github.com/san-kum/diffsim/internal/sim"
	"github.com/san-kum/diffsim/internal/storage"
	"github.com/san-kum/diffsim/internal/viz"
)

// resolveConfig layers the preset, the config file and the flags that were
// set explicitly, in that order. The file only overrides the keys it names.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.TotalTime = totalTime
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("controller") && controller != cfg.Controller {
		cfg.Controller = controller
		cfg.ControllerParams = map[string]float64{}
	}
	if cfg.ControllerParams == nil {
		cfg.ControllerParams = map[string]float64{}
	}
	for flag, name := range paramFlags {
		if flags.Changed(flag) {
			v, _ := flags.GetFloat64(flag)
			cfg.ControllerParams[name] = v
		}
	}
	for name, raw := range params {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("param %s: %w", name, err)
		}
		cfg.ControllerParams[name] = v
	}
	if flags.Changed("states") {
		cfg.Plot.States = states
	}
	if flags.Changed("other-speed") {
		cfg.Plot.OtherSpeed = otherSpeed
	}

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg, cfg.Validate()
}

func reportOptions(cfg *config.Config) report.Options {
	return report.Options{OtherSpeed: cfg.Plot.OtherSpeed, States: cfg.Plot.States}
}

func runName(cfg *config.Config) string {
	if preset != "" {
		return preset
	}
	return cfg.Controller
}

func metadata(cfg *config.Config, s *sim.Simulator, metrics map[string]float64) storage.RunMetadata {
	left, right := s.Robot().Motors()
	return storage.RunMetadata{
		Name:       runName(cfg),
		Controller: cfg.Controller,
		Params:     cfg.ControllerParams,
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		TotalTime:  cfg.TotalTime,
		LeftMotor:  left,
		RightMotor: right,
		Metrics:    metrics,
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger()
	defer logger.Sync()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg, experiment.WithLogger(logger))
	if err := exp.Setup(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s for %.2fs...\n", cfg.Controller, cfg.TotalTime)
	start := time.Now()

	result, err := exp.Run(ctx, sim.Immediate{})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(metadata(cfg, exp.Simulator(), result.Metrics), result.Trajectory)
	if err != nil {
		return err
	}

	pose := result.Final
	left, right := exp.Simulator().Robot().Motors()
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("seed: %d\n", cfg.Seed)
	fmt.Printf("motors: left K=%.0f T=%.4f, right K=%.0f T=%.4f\n", left.Gain, left.TimeConstant, right.Gain, right.TimeConstant)
	fmt.Printf("final pose: x=%.1fmm y=%.1fmm heading=%.2fdeg\n", pose.X*1000, pose.Y*1000, pose.Heading*180/math.Pi)
	printMetrics(result.Metrics)

	if showPlot {
		if err := report.Terminal(os.Stdout, result.Trajectory, reportOptions(cfg)); err != nil {
			return err
		}
	}
	if pngPath != "" {
		files, err := report.SavePNG(pngPath, result.Trajectory, reportOptions(cfg))
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Printf("wrote %s\n", f)
		}
	}
	return nil
}

func printMetrics(metrics map[string]float64) {
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(metrics) {
		fmt.Printf("  %s: %.6f\n", name, metrics[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, experiment.WithLogger(newLogger()))
	if err := exp.Setup(); err != nil {
		return err
	}
	s := exp.Simulator()

	opts := []viz.Option{viz.WithStepsPerFrame(stepsPerFrame)}
	if frameRate > 0 {
		opts = append(opts, viz.WithFrameInterval(time.Second/time.Duration(frameRate)))
	}
	if !endless {
		opts = append(opts, viz.WithMaxSteps(cfg.Steps()))
	}
	if m, ok := s.Law().(*control.Manual); ok {
		opts = append(opts, viz.WithManual(m))
	}

	m := viz.NewModel(s, runName(cfg), opts...)

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}

	if !saveRun || len(s.Trajectory()) == 0 {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(metadata(cfg, s, nil), s.Trajectory())
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCTRL\tTIME\tDURATION\tSTEPS\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%d\t%d\n",
			run.ID,
			run.Name,
			run.Controller,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.TotalTime,
			run.Steps,
			run.Seed,
		)
	}

	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tCTRL\tLEFT K/T\tRIGHT K/T\tTOLERANCE")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		l, r := cfg.Robot.Left, cfg.Robot.Right
		fmt.Fprintf(w, "%s\t%s\t%.0f/%.3f\t%.0f/%.3f\t%.0f%%/%.0f%%\n",
			name, cfg.Controller,
			l.Gain, l.TimeConstant,
			r.Gain, r.TimeConstant,
			l.GainTolerance*100, l.TimeConstantTolerance*100,
		)
	}
	return w.Flush()
}

func listControllers(cmd *cobra.Command, args []string) error {
	for _, name := range experiment.NewRegistry().ListControllers() {
		fmt.Printf("  %s\n", name)
	}
	return nil
}

// quantity is one row of the compare table, scaled for display.
type quantity struct {
	name  string
	scale float64
	get   func(automation.MonteCarloResult) float64
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func compareSeeds(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %d seeds from %d...\n", trials, cfg.Seed)
	start := time.Now()
	results, err := automation.RunMonteCarlo(ctx, automation.MonteCarloConfig{
		Base:      cfg,
		NumTrials: trials,
		SeedStart: cfg.Seed,
		Parallel:  parallel,
	}, nil)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	quantities := []quantity{
		{"final x (mm)", 1000, func(r automation.MonteCarloResult) float64 { return r.FinalX }},
		{"final y (mm)", 1000, func(r automation.MonteCarloResult) float64 { return r.FinalY }},
		{"final heading (deg)", 180 / math.Pi, func(r automation.MonteCarloResult) float64 { return r.FinalHeading }},
	}
	if len(results) > 0 {
		for _, name := range sortedKeys(results[0].Metrics) {
			name := name
			quantities = append(quantities, quantity{name, 1, func(r automation.MonteCarloResult) float64 { return r.Metrics[name] }})
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "QUANTITY\tMEAN\tSTDDEV\tMIN\tMAX")
	for _, q := range quantities {
		s := automation.Summarize(results, q.get)
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\n", q.name, s.Mean*q.scale, s.StdDev*q.scale, s.Min*q.scale, s.Max*q.scale)
	}
	return w.Flush()
}

func tuneHeading(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	kps, _ := cmd.Flags().GetFloat64Slice("kp-values")
	kis, _ := cmd.Flags().GetFloat64Slice("ki-values")
	kds, _ := cmd.Flags().GetFloat64Slice("kd-values")
	metric, _ := cmd.Flags().GetString("metric")

	cfg.Controller = "heading"
	if _, ok := cfg.ControllerParams["throttle"]; !ok {
		cfg.ControllerParams["throttle"] = throttle
	}

	build := func(p map[string]float64) (*experiment.Experiment, error) {
		c := cfg.Clone()
		for k, v := range p {
			c.ControllerParams[k] = v
		}
		return experiment.New(c), nil
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("searching %d combinations for lowest %s...\n", len(kps)*len(kis)*len(kds), metric)
	g := optim.NewGridSearch([]string{"kp", "ki", "kd"}, [][]float64{kps, kis, kds})
	best, val, err := g.Search(ctx, build, metric)
	if err != nil {
		return err
	}

	fmt.Printf("best: kp=%g ki=%g kd=%g\n", best["kp"], best["ki"], best["kd"])
	fmt.Printf("%s: %.6f\n", metric, val)
	return nil
}

func sweepParam(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	lo, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("from: %w", err)
	}
	hi, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("to: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, cfg, args[0], lo, hi, trials)
	if err != nil {
		return err
	}

	var names []string
	if len(results) > 0 {
		names = sortedKeys(results[0].Metrics)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, args[0])
	for _, name := range names {
		fmt.Fprintf(w, "\t%s", name)
	}
	fmt.Fprintln(w)
	for _, r := range results {
		fmt.Fprintf(w, "%.4g", r.ParamValue)
		for _, name := range names {
			fmt.Fprintf(w, "\t%.6f", r.Metrics[name])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	logger := newLogger()
	defer logger.Sync()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario %s: %d runs\n", sc.Name, len(sc.Runs))
	runner := automation.NewRunner(automation.WithStore(st), automation.WithLogger(logger))
	outcomes, err := runner.RunScenario(ctx, sc)
	for i, out := range outcomes {
		last := out.Result.Final
		fmt.Printf("  %d/%d %-12s steps=%d x=%.1fmm y=%.1fmm heading=%.2fdeg %s\n",
			i+1, len(sc.Runs), out.Name, out.Result.StepsTaken,
			last.X*1000, last.Y*1000, last.Heading*180/math.Pi, out.RunID)
	}
	if err != nil {
		logger.Error("scenario failed", zap.Error(err))
	}
	return err
}

func bench(cmd *cobra.Command, args []string) error {
	durations := []float64{1.0, 10.0, 100.0}
	periods := []float64{0.001, 0.01}

	fmt.Println("benchmarking heading-hold on the normal robot")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, period := range periods {
			cfg := config.GetPreset("heading")
			cfg.TotalTime = dur
			cfg.Dt = period
			cfg.Seed = 42

			exp := experiment.New(cfg)
			if err := exp.Setup(); err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(context.Background(), sim.Immediate{})
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			steps := result.StepsTaken
			stepsPerSec := float64(steps) / elapsed.Seconds()

			fmt.Fprintf(w, "%.1fs\t%.4fs\t%d\t%v\t%.0f\n",
				dur, period, steps, elapsed, stepsPerSec)
		}
	}

	return w.Flush()
}
