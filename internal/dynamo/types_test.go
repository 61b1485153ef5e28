package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{1, 1},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{4*math.Pi + 0.5, 0.5},
	}

	for _, tt := range tests {
		got := WrapAngle(tt.in)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("WrapAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(1.5, -1, 1); got != 1 {
		t.Errorf("Clamp(1.5) = %v", got)
	}
	if got := Clamp(-2, -1, 1); got != -1 {
		t.Errorf("Clamp(-2) = %v", got)
	}
	if got := Clamp(0.3, -1, 1); got != 0.3 {
		t.Errorf("Clamp(0.3) = %v", got)
	}
	if got := Clamp(math.NaN(), -1, 1); !math.IsNaN(got) {
		t.Errorf("Clamp(NaN) = %v, want NaN", got)
	}
}

func TestSampleValuesRoundTrip(t *testing.T) {
	s := Sample{
		Time: 0.5, X: 0.1, Y: -0.2, LeftSpeed: 0.3, RightSpeed: 0.31,
		LeftCmd: 0.2, RightCmd: 0.25, Heading: 0.05, CurvDistance: 0.15,
		HeadingRate: -0.01, CurvSpeed: 0.305,
	}

	v := s.Values()
	if len(v) != len(Columns) {
		t.Fatalf("len(Values) = %d, want %d", len(v), len(Columns))
	}

	got, err := SampleFromValues(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != s {
		t.Errorf("got %+v, want %+v", got, s)
	}

	if _, err := SampleFromValues(v[:3]); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("short row error = %v, want ErrDimensionMismatch", err)
	}
}

func TestTrajectoryColumnAndLast(t *testing.T) {
	var empty Trajectory
	if _, ok := empty.Last(); ok {
		t.Error("empty trajectory has a last sample")
	}

	tr := Trajectory{{Time: 0, X: 1}, {Time: 0.01, X: 2}}
	xs := tr.Column(func(s Sample) float64 { return s.X })
	if len(xs) != 2 || xs[0] != 1 || xs[1] != 2 {
		t.Errorf("Column = %v", xs)
	}
	if last, ok := tr.Last(); !ok || last.Time != 0.01 {
		t.Errorf("Last = %+v, %v", last, ok)
	}
}

func TestSimulationErrorUnwraps(t *testing.T) {
	err := &SimulationError{Step: 3, Time: 0.03, Wrapped: ErrInvalidCommand}
	if !errors.Is(err, ErrInvalidCommand) {
		t.Error("SimulationError should unwrap to its cause")
	}
	if err.Error() != "step 3 (t=0.0300): dynamo: control law returned invalid command" {
		t.Errorf("Error() = %q", err.Error())
	}
}
