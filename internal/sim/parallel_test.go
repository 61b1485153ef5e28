package sim

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/san-kum/diffsim/internal/dynamo"
	"github.com/san-kum/diffsim/internal/physics"
)

func jitteredFactory(seed int64) (*Simulator, error) {
	p := physics.NominalParams()
	p.Left.GainTolerance = 0.1
	p.Right.GainTolerance = 0.1
	robot, err := physics.NewRobot(p, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}
	return New(robot, constant(0.2, 0.2))
}

func TestEnsembleMatchesSequentialRuns(t *testing.T) {
	ens := NewEnsemble(jitteredFactory, 4, 10)
	ens.SetLimit(2)

	results, err := ens.Run(context.Background(), 100)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	for i, res := range results {
		s, _ := jitteredFactory(10 + int64(i))
		want, _ := s.Run(context.Background(), Immediate{}, 100)
		last, _ := res.Trajectory.Last()
		wantLast, _ := want.Trajectory.Last()
		if last != wantLast {
			t.Errorf("member %d differs from a sequential run with the same seed", i)
		}
	}

	a, _ := results[0].Trajectory.Last()
	b, _ := results[1].Trajectory.Last()
	if a.Heading == b.Heading {
		t.Error("different seeds should give different headings")
	}
}

func TestEnsembleFactoryError(t *testing.T) {
	boom := errors.New("boom")
	ens := NewEnsemble(func(seed int64) (*Simulator, error) {
		if seed == 2 {
			return nil, boom
		}
		return jitteredFactory(seed)
	}, 3, 0)

	if _, err := ens.Run(context.Background(), 10); !errors.Is(err, boom) {
		t.Errorf("expected factory error, got %v", err)
	}
}

func TestEnsembleRunCount(t *testing.T) {
	tests := []struct {
		name    string
		numRuns int
		wantErr bool
	}{
		{"negative", -1, true},
		{"very negative", -100, true},
		{"empty", 0, false},
		{"two", 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := NewEnsemble(jitteredFactory, tt.numRuns, 0).Run(context.Background(), 5)
			if tt.wantErr {
				if !errors.Is(err, dynamo.ErrInvalidParameter) {
					t.Errorf("expected ErrInvalidParameter, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(results) != tt.numRuns {
				t.Errorf("expected %d results, got %d", tt.numRuns, len(results))
			}
		})
	}
}
