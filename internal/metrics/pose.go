package metrics

import (
	"math"

	"github.com/san-kum/diffsim/internal/dynamo"
)

// MaxHeading tracks the largest absolute heading seen.
type MaxHeading struct {
	max float64
}

func NewMaxHeading() *MaxHeading { return &MaxHeading{} }

func (m *MaxHeading) Name() string { return "max_heading" }

func (m *MaxHeading) Observe(s dynamo.Sample) {
	m.max = math.Max(m.max, math.Abs(s.Heading))
}

func (m *MaxHeading) Value() float64 { return m.max }
func (m *MaxHeading) Reset()         { m.max = 0 }

// PathLength is the last curvilinear distance observed.
type PathLength struct {
	last float64
}

func NewPathLength() *PathLength { return &PathLength{} }

func (p *PathLength) Name() string            { return "path_length" }
func (p *PathLength) Observe(s dynamo.Sample) { p.last = s.CurvDistance }
func (p *PathLength) Value() float64          { return p.last }
func (p *PathLength) Reset()                  { p.last = 0 }

// WheelMismatch is the mean absolute difference between wheel speeds in
// ticks/s.
type WheelMismatch struct {
	sum     float64
	samples int
}

func NewWheelMismatch() *WheelMismatch { return &WheelMismatch{} }

func (w *WheelMismatch) Name() string { return "wheel_mismatch" }

func (w *WheelMismatch) Observe(s dynamo.Sample) {
	w.sum += math.Abs(s.LeftSpeed - s.RightSpeed)
	w.samples++
}

func (w *WheelMismatch) Value() float64 {
	if w.samples == 0 {
		return 0
	}
	return w.sum / float64(w.samples)
}

func (w *WheelMismatch) Reset() {
	w.sum = 0
	w.samples = 0
}

// Defaults is the metric set attached to every run.
func Defaults() []dynamo.Metric {
	return []dynamo.Metric{
		NewControlEffort(),
		NewSaturation(),
		NewMaxHeading(),
		NewPathLength(),
		NewWheelMismatch(),
	}
}
