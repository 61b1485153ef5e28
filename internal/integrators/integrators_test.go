package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/diffsim/internal/dynamo"
)

func TestFirstOrderStepResponse(t *testing.T) {
	tests := []struct {
		name   string
		period float64
		tau    float64
		gain   float64
		input  float64
	}{
		{"motor", 0.01, 0.15, 100000, 0.2},
		{"unit gain", 0.01, 0.5, 1, 1},
		{"negative command", 0.02, 0.1, 2, -0.7},
		{"fast lag", 0.1, 0.01, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFirstOrder(tt.period, tt.tau, tt.gain)
			if err != nil {
				t.Fatalf("construct: %v", err)
			}
			decay := math.Exp(-tt.period / tt.tau)
			target := tt.gain * tt.input
			for n := 1; n <= 200; n++ {
				got := f.Process(tt.input)
				want := target * (1 - math.Pow(decay, float64(n)))
				if math.Abs(got-want) > 1e-9*math.Abs(target) {
					t.Fatalf("step %d: got %.12g, want %.12g", n, got, want)
				}
			}
		})
	}
}

func TestFirstOrderDecayBounds(t *testing.T) {
	f, err := NewUnitFirstOrder(0.01, 0.155)
	if err != nil {
		t.Fatal(err)
	}
	if f.Decay() <= 0 || f.Decay() >= 1 {
		t.Errorf("decay should be in (0, 1), got %f", f.Decay())
	}
	if f.Gain() != 1 {
		t.Errorf("expected unit gain, got %f", f.Gain())
	}
	if f.Output() != 0 {
		t.Errorf("expected zero initial output, got %f", f.Output())
	}
}

func TestFirstOrderNonZeroStart(t *testing.T) {
	f, _ := NewFirstOrder(0.01, 0.1, 2)
	for i := 0; i < 10; i++ {
		f.Process(1)
	}
	y0 := f.Output()
	c := -0.5
	target := 2 * c
	for n := 1; n <= 50; n++ {
		got := f.Process(c)
		want := target + (y0-target)*math.Pow(f.Decay(), float64(n))
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("step %d: got %.12g, want %.12g", n, got, want)
		}
	}
}

func TestInvalidParameters(t *testing.T) {
	tests := []struct {
		name  string
		build func() error
	}{
		{"zero time constant", func() error { _, err := NewFirstOrder(0.01, 0, 1); return err }},
		{"negative time constant", func() error { _, err := NewFirstOrder(0.01, -0.1, 1); return err }},
		{"nan gain", func() error { _, err := NewFirstOrder(0.01, 0.1, math.NaN()); return err }},
		{"zero period lag", func() error { _, err := NewFirstOrder(0, 0.1, 1); return err }},
		{"negative period integrator", func() error { _, err := NewTrapezoid(-0.01); return err }},
		{"zero period integrator", func() error { _, err := NewTrapezoid(0); return err }},
		{"zero period derivative", func() error { _, err := NewDerivative(0); return err }},
		{"inf period derivative", func() error { _, err := NewDerivative(math.Inf(1)); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build()
			if !errors.Is(err, dynamo.ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestTrapezoidLinearInput(t *testing.T) {
	tests := []struct {
		name    string
		a, b    float64
		period  float64
		samples int
	}{
		{"constant", 2, 0, 0.01, 100},
		{"ramp", 0, 3, 0.01, 250},
		{"offset ramp", -1.5, 0.4, 0.05, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := NewTrapezoid(tt.period)
			if err != nil {
				t.Fatal(err)
			}
			var got float64
			for k := 0; k < tt.samples; k++ {
				got = in.Process(tt.a + tt.b*float64(k)*tt.period)
			}
			// zero history before the first sample contributes a*period/2
			T := float64(tt.samples-1) * tt.period
			want := tt.a*tt.period/2 + tt.a*T + tt.b*T*T/2
			if math.Abs(got-want) > 1e-9*math.Max(1, math.Abs(want)) {
				t.Errorf("got %.12g, want %.12g", got, want)
			}
			if in.Output() != got {
				t.Errorf("Output() = %g, last Process = %g", in.Output(), got)
			}
		})
	}
}

func TestTrapezoidFirstStep(t *testing.T) {
	in, _ := NewTrapezoid(0.1)
	if got := in.Process(4); got != 0.2 {
		t.Errorf("first step should use zero history: got %g, want 0.2", got)
	}
	if got := in.Process(4); math.Abs(got-0.6) > 1e-15 {
		t.Errorf("second step: got %g, want 0.6", got)
	}
}

func TestDerivativeFirstStep(t *testing.T) {
	d, _ := NewDerivative(0.01)
	if got := d.Process(0.5); math.Abs(got-50) > 1e-12 {
		t.Errorf("first call should difference against zero: got %g", got)
	}
	if got := d.Process(0.5); got != 0 {
		t.Errorf("constant input should give zero rate, got %g", got)
	}
	if d.Output() != 0 {
		t.Errorf("Output() = %g", d.Output())
	}
}

func TestDerivativeInvertsTrapezoid(t *testing.T) {
	const period = 0.01
	in, _ := NewTrapezoid(period)
	d, _ := NewDerivative(period)

	u := func(k int) float64 { return 0.3 + 2*float64(k)*period + math.Sin(float64(k)*0.05) }

	for k := 0; k < 300; k++ {
		got := d.Process(in.Process(u(k)))
		var want float64
		if k == 0 {
			want = u(0) / 2
		} else {
			want = (u(k-1) + u(k)) / 2
		}
		if math.Abs(got-want) > 1e-8 {
			t.Fatalf("step %d: got %.12g, want %.12g", k, got, want)
		}
	}
}

func TestDerivativeRecoversConstant(t *testing.T) {
	const period = 0.02
	in, _ := NewTrapezoid(period)
	d, _ := NewDerivative(period)
	for k := 0; k < 100; k++ {
		got := d.Process(in.Process(1.25))
		if k == 0 {
			continue
		}
		if math.Abs(got-1.25) > 1e-9 {
			t.Fatalf("step %d: got %g, want 1.25", k, got)
		}
	}
}
