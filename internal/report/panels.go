package report

import (
	"errors"
	"math"

	"github.com/san-kum/diffsim/internal/dynamo"
)

var ErrEmptyTrajectory = errors.New("empty trajectory")

// XYHalfWidth is the minimum half-width of the XY panel, in mm.
const XYHalfWidth = 250.0

type Options struct {
	// OtherSpeed overlays the opposite wheel on each wheel speed panel.
	OtherSpeed bool
	// States adds the six state-relation panels.
	States bool
	// Width and Height size each terminal chart. Zero picks defaults.
	Width, Height int
}

type Series struct {
	Label string
	X, Y  []float64
}

// Panel is one chart. Time panels plot against time; parametric panels
// (XY, state relations) plot one state against another.
type Panel struct {
	Title      string
	Series     []Series
	Parametric bool
	// MinHalfWidth, when positive, keeps the axes at least ±MinHalfWidth
	// around the origin.
	MinHalfWidth float64
}

func col(traj dynamo.Trajectory, scale float64, get func(dynamo.Sample) float64) []float64 {
	return traj.Column(func(s dynamo.Sample) float64 { return get(s) * scale })
}

const (
	mm  = 1000.0
	pct = 100.0
	deg = 180 / math.Pi
)

func posX(s dynamo.Sample) float64        { return s.X }
func posY(s dynamo.Sample) float64        { return s.Y }
func leftSpeed(s dynamo.Sample) float64   { return s.LeftSpeed }
func rightSpeed(s dynamo.Sample) float64  { return s.RightSpeed }
func leftCmd(s dynamo.Sample) float64     { return s.LeftCmd }
func rightCmd(s dynamo.Sample) float64    { return s.RightCmd }
func heading(s dynamo.Sample) float64     { return s.Heading }
func curv(s dynamo.Sample) float64        { return s.CurvDistance }
func headingRate(s dynamo.Sample) float64 { return s.HeadingRate }
func curvSpeed(s dynamo.Sample) float64   { return s.CurvSpeed }

// Panels returns the eight overview panels in display order, two per row.
func Panels(traj dynamo.Trajectory, opts Options) []Panel {
	t := traj.Times()
	left := Series{Label: "left", X: t, Y: col(traj, 1, leftSpeed)}
	right := Series{Label: "right", X: t, Y: col(traj, 1, rightSpeed)}

	leftPanel := Panel{Title: "Left wheel speed (ticks/s)", Series: []Series{left}}
	rightPanel := Panel{Title: "Right wheel speed (ticks/s)", Series: []Series{right}}
	if opts.OtherSpeed {
		leftPanel.Series = append(leftPanel.Series, right)
		rightPanel.Series = append(rightPanel.Series, left)
	}

	return []Panel{
		leftPanel,
		rightPanel,
		{
			Title:        "XY (mm)",
			Series:       []Series{{Label: "path", X: col(traj, mm, posX), Y: col(traj, mm, posY)}},
			Parametric:   true,
			MinHalfWidth: XYHalfWidth,
		},
		{
			Title: "Commands (%)",
			Series: []Series{
				{Label: "left", X: t, Y: col(traj, pct, leftCmd)},
				{Label: "right", X: t, Y: col(traj, pct, rightCmd)},
			},
		},
		{Title: "Angle (deg)", Series: []Series{{X: t, Y: col(traj, deg, heading)}}},
		{Title: "Curvilinear distance (mm)", Series: []Series{{X: t, Y: col(traj, mm, curv)}}},
		{Title: "X (mm)", Series: []Series{{X: t, Y: col(traj, mm, posX)}}},
		{Title: "Y (mm)", Series: []Series{{X: t, Y: col(traj, mm, posY)}}},
	}
}

// StatePanels returns the six state-relation panels. Distances are in
// meters and angles in degrees.
func StatePanels(traj dynamo.Trajectory) []Panel {
	c := col(traj, 1, curv)
	dc := col(traj, 1, curvSpeed)
	th := col(traj, deg, heading)
	dth := col(traj, deg, headingRate)

	rel := func(title string, xs, ys []float64) Panel {
		return Panel{Title: title, Series: []Series{{X: xs, Y: ys}}, Parametric: true}
	}
	return []Panel{
		rel("curv / dcurv", c, dc),
		rel("theta / dtheta", th, dth),
		rel("curv / theta", c, th),
		rel("dcurv / dtheta", dc, dth),
		rel("theta / dcurv", th, dc),
		rel("curv / dtheta", c, dth),
	}
}
