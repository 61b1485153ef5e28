package dynamo

import (
	"fmt"
	"math"
)

// Sample is one recorded simulation step: the plant state read before the
// step plus the commands applied during it.
type Sample struct {
	Time         float64 `json:"time"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	LeftSpeed    float64 `json:"left_speed"`
	RightSpeed   float64 `json:"right_speed"`
	LeftCmd      float64 `json:"left_cmd"`
	RightCmd     float64 `json:"right_cmd"`
	Heading      float64 `json:"heading"`
	CurvDistance float64 `json:"curv_distance"`
	HeadingRate  float64 `json:"heading_rate"`
	CurvSpeed    float64 `json:"curv_speed"`
}

// Columns names the fields of a Sample in the order returned by Values.
var Columns = []string{
	"time", "x", "y", "left_speed", "right_speed", "left_cmd", "right_cmd",
	"heading", "curv_distance", "heading_rate", "curv_speed",
}

func (s Sample) Values() []float64 {
	return []float64{
		s.Time, s.X, s.Y, s.LeftSpeed, s.RightSpeed, s.LeftCmd, s.RightCmd,
		s.Heading, s.CurvDistance, s.HeadingRate, s.CurvSpeed,
	}
}

// SampleFromValues is the inverse of Sample.Values.
func SampleFromValues(v []float64) (Sample, error) {
	if len(v) != len(Columns) {
		return Sample{}, fmt.Errorf("%w: sample has %d values, want %d", ErrDimensionMismatch, len(v), len(Columns))
	}
	return Sample{
		Time: v[0], X: v[1], Y: v[2], LeftSpeed: v[3], RightSpeed: v[4],
		LeftCmd: v[5], RightCmd: v[6], Heading: v[7], CurvDistance: v[8],
		HeadingRate: v[9], CurvSpeed: v[10],
	}, nil
}

// Trajectory is the ordered, time-indexed sequence of samples of one run.
type Trajectory []Sample

// Column extracts one field across the trajectory.
func (tr Trajectory) Column(get func(Sample) float64) []float64 {
	out := make([]float64, len(tr))
	for i, s := range tr {
		out[i] = get(s)
	}
	return out
}

func (tr Trajectory) Times() []float64 {
	return tr.Column(func(s Sample) float64 { return s.Time })
}

func (tr Trajectory) Last() (Sample, bool) {
	if len(tr) == 0 {
		return Sample{}, false
	}
	return tr[len(tr)-1], true
}

// Inputs is what a control law sees each step.
type Inputs struct {
	X            float64
	Y            float64
	LeftSpeed    float64
	RightSpeed   float64
	Heading      float64
	CurvDistance float64
	HeadingRate  float64
	CurvSpeed    float64
}

// ControlLaw computes the left and right motor commands for one step.
// Commands are expected in [-1, 1]; the plant clamps them regardless.
type ControlLaw interface {
	Compute(in Inputs) (left, right float64)
}

type ControlFunc func(in Inputs) (left, right float64)

func (f ControlFunc) Compute(in Inputs) (float64, float64) { return f(in) }

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Result struct {
	Trajectory Trajectory
	Metrics    map[string]float64
	StepsTaken int
	// Final is the plant after the last step: pose, distance and wheel
	// speeds at the next step's time. Commands and rates are zero.
	Final Sample
}

// Clamp limits v to [lo, hi]. NaN is returned unchanged.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WrapAngle maps an angle to (-pi, pi].
func WrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

func IsFinite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
