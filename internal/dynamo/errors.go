package dynamo

import "errors"

// Domain errors for simulation operations.
var (
	// ErrInvalidInput indicates a non-finite action or a negative time step.
	ErrInvalidInput = errors.New("dynamo: invalid input (NaN, Inf or negative dt)")

	// ErrInvalidState indicates a vehicle or marker holding NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")
)
