package metrics

import (
	"math"

	"github.com/san-kum/diffsim/internal/dynamo"
)

// Saturation is the fraction of steps where the control law asked for more
// than the actuators can give.
type Saturation struct {
	name       string
	limit      float64
	violations int
	samples    int
}

func NewSaturation() *Saturation {
	return &Saturation{
		name:  "saturation",
		limit: 1.0,
	}
}

func (s *Saturation) Name() string {
	return s.name
}

func (s *Saturation) Observe(smp dynamo.Sample) {
	s.samples++
	if math.Abs(smp.LeftCmd) > s.limit || math.Abs(smp.RightCmd) > s.limit {
		s.violations++
	}
}

func (s *Saturation) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.violations) / float64(s.samples)
}

func (s *Saturation) Reset() {
	s.violations = 0
	s.samples = 0
}
