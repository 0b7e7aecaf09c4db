package types

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState marks a physically inadmissible cell or interface state.
	ErrInvalidState = errors.New("invalid state")
	// ErrConfiguration marks a setup problem detected before stepping begins.
	ErrConfiguration = errors.New("configuration error")
	// ErrNumericalStagnation is returned when the adapted step falls below the minimum step size.
	ErrNumericalStagnation = errors.New("numerical stagnation")
	// ErrFinalized is returned when a finished time stepper is asked to continue.
	ErrFinalized = errors.New("time stepper finalized")
)

// StateError locates an invalid state within the domain.
type StateError struct {
	Field string
	Cell  int // -1 when the state is not attached to a cell
	Err   error
}

func (e *StateError) Error() string {
	if e.Cell < 0 {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s at cell %d: %v", e.Field, e.Cell, e.Err)
}

func (e *StateError) Unwrap() error { return e.Err }

// StepError wraps a failure raised while advancing a solver one time step.
type StepError struct {
	Solver string
	Step   int
	Time   float64
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("solver %q step %d (t=%g): %v", e.Solver, e.Step, e.Time, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

func NewConfigurationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

func NewInvalidStateError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

func NewStagnationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNumericalStagnation, fmt.Sprintf(format, args...))
}
