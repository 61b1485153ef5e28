package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidParameter indicates a construction parameter outside its valid range
	// (non-positive period or time constant, bad tolerance, ...).
	ErrInvalidParameter = errors.New("dynamo: invalid parameter")

	// ErrInvalidConfig indicates a configuration document that cannot drive a run.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrInvalidCommand indicates a control law returned a command that is not a number.
	ErrInvalidCommand = errors.New("dynamo: control law returned invalid command")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")

	// ErrUnknownController indicates a control law name missing from the registry.
	ErrUnknownController = errors.New("dynamo: unknown controller")

	// ErrDimensionMismatch indicates a recorded row with the wrong number of fields.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
