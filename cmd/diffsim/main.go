package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	dt         float64
	totalTime  float64
	seed       int64
	controller string
	params     map[string]string
	// Control law shortcuts, mapped onto controller params
	left     float64
	right    float64
	kp       float64
	ki       float64
	kd       float64
	target   float64
	throttle float64
	goalX    float64
	goalY    float64
	side     float64
	// Reports
	showPlot   bool
	pngPath    string
	states     bool
	otherSpeed bool
	// Live view
	frameRate     int
	stepsPerFrame int
	endless       bool
	saveRun       bool
	// Batch commands
	trials   int
	parallel int
	outPath  string
)

// paramFlags maps shortcut flags to controller parameter names.
var paramFlags = map[string]string{
	"left":     "left",
	"right":    "right",
	"kp":       "kp",
	"ki":       "ki",
	"kd":       "kd",
	"target":   "target",
	"throttle": "throttle",
	"goal-x":   "x",
	"goal-y":   "y",
	"side":     "side",
}

// main registers the diffsim commands and exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "diffsim",
		Short:        "differential-drive robot simulator",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".diffsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log diagnostics to stderr")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation and store the trajectory",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "print the charts after the run")
	runCmd.Flags().StringVar(&pngPath, "png", "", "write the charts to a png file")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	liveCmd.Flags().IntVar(&stepsPerFrame, "steps", 3, "simulation steps per frame")
	liveCmd.Flags().BoolVar(&endless, "endless", false, "keep running past the configured total time")
	liveCmd.Flags().BoolVar(&saveRun, "save", false, "store the run on exit")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	addPlotFlags(plotCmd)

	pngCmd := &cobra.Command{
		Use:   "png [run_id]",
		Short: "plot run results to a png file",
		Args:  cobra.ExactArgs(1),
		RunE:  plotPNG,
	}
	addPlotFlags(pngCmd)
	pngCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>.png)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trajectory to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and trajectory to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the XY path to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().Bool("braille", false, "render the braille canvas instead of a polyline")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "heading response and drift of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Float64("target", 0, "target heading (rad, default from the run's params)")
	analyzeCmd.Flags().Float64("band", 0.02, "settling band (rad)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	controllersCmd := &cobra.Command{
		Use:   "controllers",
		Short: "list available control laws",
		Args:  cobra.NoArgs,
		RunE:  listControllers,
	}

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "run one configuration over many seeds and compare the robots",
		Args:  cobra.NoArgs,
		RunE:  compareSeeds,
	}
	addConfigFlags(compareCmd)
	compareCmd.Flags().IntVar(&trials, "trials", 20, "number of seeds")
	compareCmd.Flags().IntVar(&parallel, "parallel", 0, "concurrent runs (0 = unlimited)")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search heading-hold gains",
		Args:  cobra.NoArgs,
		RunE:  tuneHeading,
	}
	addConfigFlags(tuneCmd)
	tuneCmd.Flags().Float64Slice("kp-values", []float64{0.5, 1, 2, 4}, "kp candidates")
	tuneCmd.Flags().Float64Slice("ki-values", []float64{0, 0.5, 1}, "ki candidates")
	tuneCmd.Flags().Float64Slice("kd-values", []float64{0, 0.05, 0.1}, "kd candidates")
	tuneCmd.Flags().String("metric", "max_heading", "metric to minimise")

	sweepCmd := &cobra.Command{
		Use:   "sweep [param] [from] [to]",
		Short: "sweep one controller parameter",
		Args:  cobra.ExactArgs(3),
		RunE:  sweepParam,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&trials, "n", 5, "number of values")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the simulator",
		Args:  cobra.NoArgs,
		RunE:  bench,
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, pngCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd,
		analyzeCmd, presetsCmd, controllersCmd, compareCmd, tuneCmd, sweepCmd, scenarioCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Float64Var(&dt, "dt", 0.01, "timestep (s)")
	f.Float64Var(&totalTime, "time", 10.0, "total simulated time (s)")
	f.Int64Var(&seed, "seed", 0, "random seed for motor tolerances (0 picks one)")
	f.StringVar(&controller, "controller", "constant", "control law")
	f.StringToStringVar(&params, "param", nil, "controller parameter name=value")
	f.Float64Var(&left, "left", 0.2, "left command (constant)")
	f.Float64Var(&right, "right", 0.2, "right command (constant)")
	f.Float64Var(&kp, "kp", 2, "heading kp")
	f.Float64Var(&ki, "ki", 0.5, "heading ki")
	f.Float64Var(&kd, "kd", 0.05, "heading kd")
	f.Float64Var(&target, "target", 0, "heading target (rad)")
	f.Float64Var(&throttle, "throttle", 0.2, "base command (heading, square)")
	f.Float64Var(&goalX, "goal-x", 0.3, "goal x (m)")
	f.Float64Var(&goalY, "goal-y", 0, "goal y (m)")
	f.Float64Var(&side, "side", 0.3, "square side (m)")
	f.BoolVar(&states, "states", false, "add the state-relation charts")
	f.BoolVar(&otherSpeed, "other-speed", true, "overlay the other wheel on wheel speed charts")
}

func addPlotFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&states, "states", false, "add the state-relation charts")
	cmd.Flags().BoolVar(&otherSpeed, "other-speed", true, "overlay the other wheel on wheel speed charts")
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return zap.NewNop()
	}
	return logger
}
