package sim

import (
	"context"
	"time"

	"github.com/san-kum/diffsim/internal/dynamo"
)

type Result = dynamo.Result

// TickSource decides when steps happen. It must call step exactly steps
// times unless step fails or ctx is done; it never alters what a step does.
type TickSource interface {
	Drive(ctx context.Context, steps int, step func() error) error
}

// Immediate runs every step back to back.
type Immediate struct{}

func (Immediate) Drive(ctx context.Context, steps int, step func() error) error {
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// Paced runs one step per timer tick, for wall-clock views.
type Paced struct {
	Interval time.Duration
}

func (p Paced) Drive(ctx context.Context, steps int, step func() error) error {
	if steps <= 0 {
		return nil
	}
	interval := p.Interval
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// StepCount is the number of whole periods in totalTime.
func StepCount(totalTime, period float64) int {
	if period <= 0 || totalTime <= 0 {
		return 0
	}
	return int(totalTime / period)
}
