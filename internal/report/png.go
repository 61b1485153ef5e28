package report

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/diffsim/internal/dynamo"
)

const pngDPI = 96

// WritePNG draws the overview panels as a 4x2 figure.
func WritePNG(w io.Writer, traj dynamo.Trajectory, opts Options) error {
	if len(traj) == 0 {
		return ErrEmptyTrajectory
	}
	return writeFigure(w, Panels(traj, opts), 4, 2, 10, 12)
}

// WriteStatesPNG draws the state-relation panels as a 3x2 figure.
func WriteStatesPNG(w io.Writer, traj dynamo.Trajectory) error {
	if len(traj) == 0 {
		return ErrEmptyTrajectory
	}
	return writeFigure(w, StatePanels(traj), 3, 2, 10, 9)
}

// SavePNG writes the overview figure to path and, with opts.States, the
// state figure next to it as <name>_states.png. It returns the files
// written.
func SavePNG(path string, traj dynamo.Trajectory, opts Options) ([]string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create directory: %w", err)
	}
	if err := saveFile(path, func(w io.Writer) error { return WritePNG(w, traj, opts) }); err != nil {
		return nil, err
	}
	written := []string{path}
	if !opts.States {
		return written, nil
	}

	statesPath := strings.TrimSuffix(path, filepath.Ext(path)) + "_states.png"
	if err := saveFile(statesPath, func(w io.Writer) error { return WriteStatesPNG(w, traj) }); err != nil {
		return written, err
	}
	return append(written, statesPath), nil
}

func saveFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}

func writeFigure(w io.Writer, panels []Panel, rows, cols int, widthIn, heightIn float64) error {
	plots := make([][]*plot.Plot, rows)
	for r := range plots {
		plots[r] = make([]*plot.Plot, cols)
		for c := range plots[r] {
			i := r*cols + c
			if i >= len(panels) {
				continue
			}
			p, err := newPlot(panels[i])
			if err != nil {
				return fmt.Errorf("%s: %w", panels[i].Title, err)
			}
			plots[r][c] = p
		}
	}

	img := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(pngDPI),
	)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      rows,
		Cols:      cols,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}

	canvases := plot.Align(plots, tiles, dc)
	for r := range plots {
		for c := range plots[r] {
			if plots[r][c] != nil {
				plots[r][c].Draw(canvases[r][c])
			}
		}
	}

	pngc := vgimg.PngCanvas{Canvas: img}
	_, err := pngc.WriteTo(w)
	return err
}

func newPlot(panel Panel) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = panel.Title
	if !panel.Parametric {
		p.X.Label.Text = "time (s)"
	}
	p.Add(plotter.NewGrid())

	for i, s := range panel.Series {
		pts := make(plotter.XYs, len(s.X))
		for j := range s.X {
			pts[j].X = s.X[j]
			pts[j].Y = s.Y[j]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotutil.Color(i)
		p.Add(line)
		if len(panel.Series) > 1 {
			p.Legend.Add(s.Label, line)
		}
	}

	if panel.MinHalfWidth > 0 {
		half := panel.MinHalfWidth
		for _, v := range []float64{p.X.Min, p.X.Max, p.Y.Min, p.Y.Max} {
			half = math.Max(half, math.Abs(v))
		}
		p.X.Min, p.X.Max = -half, half
		p.Y.Min, p.Y.Max = -half, half
	}
	return p, nil
}
