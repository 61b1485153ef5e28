package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/diffsim/internal/dynamo"
)

// Factory builds an independent simulator for one ensemble member.
type Factory func(seed int64) (*Simulator, error)

// Ensemble runs several simulations, one per seed, each owning its own
// robot. Members never share state, so they run concurrently.
type Ensemble struct {
	factory   Factory
	numRuns   int
	seedStart int64
	limit     int
}

func NewEnsemble(factory Factory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, seedStart: seedStart}
}

// SetLimit caps the number of members running at once. Zero means no cap.
func (e *Ensemble) SetLimit(n int) { e.limit = n }

func (e *Ensemble) Run(ctx context.Context, steps int) ([]*Result, error) {
	if e.numRuns < 0 {
		return nil, fmt.Errorf("%w: negative run count %d", dynamo.ErrInvalidParameter, e.numRuns)
	}
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}
	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			s, err := e.factory(e.seedStart + int64(idx))
			if err != nil {
				return err
			}
			res, err := s.Run(ctx, Immediate{}, steps)
			if err != nil {
				return err
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
