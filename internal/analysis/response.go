package analysis

import (
	"math"

	"github.com/san-kum/diffsim/internal/dynamo"
)

// Response summarizes how a run tracked a target heading.
type Response struct {
	Target       float64
	Band         float64
	SettlingTime float64
	Settled      bool
	Overshoot    float64
	CrossTrack   float64
	WobbleHz     float64
	WobbleAmp    float64
	FinalHeadErr float64
}

func Analyze(traj dynamo.Trajectory, target, band float64) Response {
	r := Response{Target: target, Band: band}
	if len(traj) == 0 {
		return r
	}

	r.SettlingTime, r.Settled = SettlingTime(traj, target, band)
	r.Overshoot = Overshoot(traj, target)
	r.CrossTrack = CrossTrack(traj)
	if len(traj) > 1 {
		period := traj[1].Time - traj[0].Time
		r.WobbleHz, r.WobbleAmp = DominantFrequency(traj.Column(func(s dynamo.Sample) float64 { return s.HeadingRate }), period)
	}
	last, _ := traj.Last()
	r.FinalHeadErr = dynamo.WrapAngle(target - last.Heading)
	return r
}

// SettlingTime is the time of the first sample after which the heading
// error stays within band until the end of the run.
func SettlingTime(traj dynamo.Trajectory, target, band float64) (float64, bool) {
	idx := -1
	for i := len(traj) - 1; i >= 0; i-- {
		if math.Abs(dynamo.WrapAngle(target-traj[i].Heading)) > band {
			break
		}
		idx = i
	}
	if idx < 0 {
		return 0, false
	}
	return traj[idx].Time, true
}

// Overshoot is the largest heading error past the target, on the side
// opposite to the first non-zero error.
func Overshoot(traj dynamo.Trajectory, target float64) float64 {
	sign := 0.0
	worst := 0.0
	for _, s := range traj {
		e := dynamo.WrapAngle(target - s.Heading)
		if sign == 0 {
			if e != 0 {
				sign = math.Copysign(1, e)
			}
			continue
		}
		if past := -e * sign; past > worst {
			worst = past
		}
	}
	return worst
}

// CrossTrack is the largest distance from the line through the first
// sample along its heading.
func CrossTrack(traj dynamo.Trajectory) float64 {
	if len(traj) == 0 {
		return 0
	}
	x0, y0, h0 := traj[0].X, traj[0].Y, traj[0].Heading
	sin, cos := math.Sincos(h0)

	worst := 0.0
	for _, s := range traj {
		d := math.Abs(-(s.X-x0)*sin + (s.Y-y0)*cos)
		worst = math.Max(worst, d)
	}
	return worst
}
