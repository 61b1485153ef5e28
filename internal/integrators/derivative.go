package integrators

// Derivative is a backward difference. The sample before the first call is
// taken as zero, so the first output is input/period.
type Derivative struct {
	prev   float64
	y      float64
	period float64
}

func NewDerivative(period float64) (*Derivative, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	return &Derivative{period: period}, nil
}

func (d *Derivative) Process(input float64) float64 {
	d.y = (input - d.prev) / d.period
	d.prev = input
	return d.y
}

func (d *Derivative) Output() float64 { return d.y }
