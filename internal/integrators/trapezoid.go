package integrators

// Trapezoid integrates its input with the trapezoidal rule. The sample
// before the first call is taken as zero.
type Trapezoid struct {
	prev     float64
	y        float64
	halfStep float64
}

func NewTrapezoid(period float64) (*Trapezoid, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	return &Trapezoid{halfStep: period / 2}, nil
}

func (t *Trapezoid) Process(derivative float64) float64 {
	t.y += (t.prev + derivative) * t.halfStep
	t.prev = derivative
	return t.y
}

func (t *Trapezoid) Output() float64 { return t.y }
