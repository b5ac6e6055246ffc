package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates a configuration rejected before any work starts.
	ErrInvalidConfig = errors.New("sim: invalid configuration")

	// ErrNonFinite indicates a mass state became NaN or Inf. With a valid
	// configuration this means the integrator went unstable.
	ErrNonFinite = errors.New("sim: non-finite mass state")

	// ErrDimensionMismatch indicates a buffer whose size does not match the field.
	ErrDimensionMismatch = errors.New("sim: dimension mismatch between field and buffer")

	// ErrSinkFailed indicates the frame sink could not persist a frame.
	ErrSinkFailed = errors.New("sim: frame sink failed")
)

// SimulationError wraps an error with the frame and mass it occurred at.
// Index is -1 when the error is not tied to a single mass.
type SimulationError struct {
	Frame   int
	Index   int
	Clock   float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("frame %d (t=%.4f): %v", e.Frame, e.Clock, e.Wrapped)
	}
	return fmt.Sprintf("frame %d (t=%.4f), mass %d: %v", e.Frame, e.Clock, e.Index, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
