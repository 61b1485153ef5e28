package report

import (
	"fmt"
	"io"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/diffsim/internal/dynamo"
	"github.com/san-kum/diffsim/internal/viz"
)

const (
	defaultWidth  = 70
	defaultHeight = 10
)

var seriesColors = []asciigraph.AnsiColor{asciigraph.Default, asciigraph.Red, asciigraph.Green}

// Terminal renders the overview panels, and the state panels when
// requested, as text charts.
func Terminal(w io.Writer, traj dynamo.Trajectory, opts Options) error {
	if len(traj) == 0 {
		return ErrEmptyTrajectory
	}
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}

	panels := Panels(traj, opts)
	if opts.States {
		panels = append(panels, StatePanels(traj)...)
	}
	for _, p := range panels {
		if _, err := fmt.Fprintln(w, RenderPanel(p, opts.Width, opts.Height)); err != nil {
			return err
		}
	}
	return nil
}

// RenderPanel draws one panel: an asciigraph chart for time series or a
// braille canvas for parametric panels.
func RenderPanel(p Panel, width, height int) string {
	if p.Parametric {
		return renderParametric(p, width, height)
	}

	data := make([][]float64, len(p.Series))
	for i, s := range p.Series {
		data[i] = s.Y
	}
	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption(p)),
	}
	if len(data) > 1 {
		opts = append(opts, asciigraph.SeriesColors(seriesColors[1:]...))
	}
	return "\n" + asciigraph.PlotMany(data, opts...)
}

func caption(p Panel) string {
	if len(p.Series) < 2 {
		return p.Title
	}
	c := p.Title + " ["
	for i, s := range p.Series {
		if i > 0 {
			c += ", "
		}
		c += s.Label
	}
	return c + "]"
}

func renderParametric(p Panel, width, height int) string {
	var xs, ys []float64
	for _, s := range p.Series {
		xs = append(xs, s.X...)
		ys = append(ys, s.Y...)
	}

	b := viz.FitBounds(xs, ys, 0)
	if p.MinHalfWidth > 0 {
		half := math.Max(p.MinHalfWidth, math.Max(
			math.Max(math.Abs(b.MinX), math.Abs(b.MaxX)),
			math.Max(math.Abs(b.MinY), math.Abs(b.MaxY)),
		))
		b = viz.Bounds{MinX: -half, MaxX: half, MinY: -half, MaxY: half}
	} else {
		b = pad(b, 0.05)
	}

	// braille dots are square when cells are twice as tall as wide
	cols := width / 2
	canvas := viz.NewCanvas(cols, max(height, cols/2))
	for _, s := range p.Series {
		canvas.Plot(s.X, s.Y, b)
	}

	return fmt.Sprintf("\n %s\n%s x: [%.4g, %.4g]  y: [%.4g, %.4g]",
		p.Title, canvas.String(), b.MinX, b.MaxX, b.MinY, b.MaxY)
}

func pad(b viz.Bounds, frac float64) viz.Bounds {
	dx := (b.MaxX - b.MinX) * frac
	dy := (b.MaxY - b.MinY) * frac
	return viz.Bounds{MinX: b.MinX - dx, MaxX: b.MaxX + dx, MinY: b.MinY - dy, MaxY: b.MaxY + dy}
}
