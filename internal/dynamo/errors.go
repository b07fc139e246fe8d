package dynamo

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a body whose position or velocity became NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidBody indicates a body with non-positive mass or negative radius.
	ErrInvalidBody = errors.New("dynamo: invalid body")

	// ErrCoincidentBodies indicates two bodies at exactly the same position,
	// where the inverse-square force is undefined.
	ErrCoincidentBodies = errors.New("dynamo: coincident bodies (zero separation)")

	// ErrDimensionMismatch indicates a vector whose length does not match the model.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between vector and model")

	// ErrInvalidConfig indicates a run constant outside its valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	ErrUnknownModel      = errors.New("dynamo: unknown model")
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")
	ErrUnknownCollision  = errors.New("dynamo: unknown collision mode")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Bodies  []string
	Wrapped error
}

func (e *SimulationError) Error() string {
	if len(e.Bodies) == 0 {
		return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
	}
	return fmt.Sprintf("step %d (t=%.4f) [%s]: %v", e.Step, e.Time, strings.Join(e.Bodies, ", "), e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
