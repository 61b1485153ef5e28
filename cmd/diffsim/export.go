package main

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/diffsim/internal/analysis"
	"github.com/san-kum/diffsim/internal/dynamo"
	"github.com/san-kum/diffsim/internal/export"
	"github.com/san-kum/diffsim/internal/report"
	"github.com/san-kum/diffsim/internal/storage"
	"github.com/san-kum/diffsim/internal/viz"
)

func loadRun(runID string) (*storage.RunMetadata, dynamo.Trajectory, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, traj, nil
}

// output opens path, or stdout when path is empty.
func output(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func plotRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(traj) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("controller: %s\n", meta.Controller)
	fmt.Printf("samples: %d\n", len(traj))

	return report.Terminal(os.Stdout, traj, report.Options{OtherSpeed: otherSpeed, States: states})
}

func plotPNG(cmd *cobra.Command, args []string) error {
	_, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	path := outPath
	if path == "" {
		path = args[0] + ".png"
	}

	files, err := report.SavePNG(path, traj, report.Options{OtherSpeed: otherSpeed, States: states})
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Printf("wrote %s\n", f)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w, err := output(outPath)
	if err != nil {
		return err
	}
	defer w.Close()

	return storage.WriteCSV(w, traj)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w, err := output(outPath)
	if err != nil {
		return err
	}
	defer w.Close()

	return storage.ExportJSON(w, *meta, traj)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	path := outPath
	if path == "" {
		path = args[0] + ".svg"
	}

	var svg string
	if braille, _ := cmd.Flags().GetBool("braille"); braille {
		xs := traj.Column(func(s dynamo.Sample) float64 { return s.X })
		ys := traj.Column(func(s dynamo.Sample) float64 { return s.Y })
		canvas := viz.NewCanvas(80, 40)
		canvas.Plot(xs, ys, viz.FitBounds(xs, ys, 0.01))
		svg = export.CanvasToSVG(canvas, 4)
	} else {
		svg = export.TrajectorySVG(traj, 600, "#00ffff")
	}
	if svg == "" {
		return fmt.Errorf("not enough samples to export")
	}

	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	want := meta.Params["target"]
	if cmd.Flags().Changed("target") {
		want, _ = cmd.Flags().GetFloat64("target")
	}
	band, _ := cmd.Flags().GetFloat64("band")

	r := analysis.Analyze(traj, want, band)

	fmt.Printf("run: %s (%s)\n", meta.ID, meta.Controller)
	fmt.Printf("target heading: %.2fdeg, band %.2fdeg\n", deg(r.Target), deg(r.Band))
	if r.Settled {
		fmt.Printf("settling time: %.3fs\n", r.SettlingTime)
	} else {
		fmt.Println("settling time: not settled")
	}
	fmt.Printf("overshoot: %.3fdeg\n", deg(r.Overshoot))
	fmt.Printf("final heading error: %.3fdeg\n", deg(r.FinalHeadErr))
	fmt.Printf("cross track: %.2fmm\n", r.CrossTrack*1000)
	fmt.Printf("wobble: %.2fHz, %.3fdeg/s\n", r.WobbleHz, deg(r.WobbleAmp))
	return nil
}

func deg(rad float64) float64 { return rad * 180 / math.Pi }
