package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/diffsim/internal/dynamo"
	"github.com/san-kum/diffsim/internal/viz"
)

// CanvasToSVG converts a braille canvas to SVG dots.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height))

	dotRadius := scale * 0.4
	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectorySVG draws the XY path of a run as a polyline on a square
// canvas of size pixels, with the start and end marked.
func TrajectorySVG(traj dynamo.Trajectory, size int, strokeColor string) string {
	if len(traj) < 2 {
		return ""
	}

	xs := traj.Column(func(s dynamo.Sample) float64 { return s.X })
	ys := traj.Column(func(s dynamo.Sample) float64 { return s.Y })
	b := viz.FitBounds(xs, ys, 0)
	margin := (b.MaxX - b.MinX) * 0.1
	b = viz.Bounds{MinX: b.MinX - margin, MaxX: b.MaxX + margin, MinY: b.MinY - margin, MaxY: b.MaxY + margin}

	px := func(i int) (float64, float64) {
		x := (xs[i] - b.MinX) / (b.MaxX - b.MinX) * float64(size)
		y := float64(size) - (ys[i]-b.MinY)/(b.MaxY-b.MinY)*float64(size)
		return x, y
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		size, size, size, size, strokeColor))

	for i := range xs {
		x, y := px(i)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString(`"/>
`)

	sx, sy := px(0)
	ex, ey := px(len(xs) - 1)
	sb.WriteString(fmt.Sprintf(`<circle class="start" cx="%.1f" cy="%.1f" r="4" fill="#00ff88"/>
<circle class="end" cx="%.1f" cy="%.1f" r="4" fill="#ff4444"/>
</svg>`, sx, sy, ex, ey))
	return sb.String()
}
