package control

import (
	"math"

	"github.com/san-kum/diffsim/internal/dynamo"
)

// Square drives four straight legs of length Side, turning left 90° in
// place between them, then holds the final heading in place.
type Square struct {
	Side     float64
	Throttle float64
	Kp       float64
	TurnRate float64
	Tol      float64

	leg      int
	turning  bool
	legStart float64
}

func NewSquare(side, throttle float64) *Square {
	return &Square{
		Side:     side,
		Throttle: throttle,
		Kp:       2.0,
		TurnRate: 0.2,
		Tol:      0.005,
	}
}

func (s *Square) Compute(in dynamo.Inputs) (float64, float64) {
	if s.leg >= 4 {
		u := dynamo.Clamp(s.Kp*(2*math.Pi-in.Heading), -s.TurnRate, s.TurnRate)
		return u, -u
	}

	if !s.turning {
		if in.CurvDistance-s.legStart < s.Side {
			u := s.Kp * (float64(s.leg)*math.Pi/2 - in.Heading)
			return s.Throttle + u, s.Throttle - u
		}
		s.turning = true
	}

	err := float64(s.leg+1)*math.Pi/2 - in.Heading
	if err <= s.Tol {
		s.leg++
		s.turning = false
		s.legStart = in.CurvDistance
		if s.leg >= 4 {
			return 0, 0
		}
		return s.Throttle, s.Throttle
	}
	u := dynamo.Clamp(s.Kp*err, -s.TurnRate, s.TurnRate)
	return u, -u
}

// Leg is the index of the current side, 4 once finished.
func (s *Square) Leg() int { return s.leg }

func (s *Square) Done() bool { return s.leg >= 4 }
