package physics

import "errors"

// Domain errors for force registration and evaluation.
var (
	// ErrInvalidForce indicates a force that cannot be registered (missing
	// evaluator or name). This is a programming error, not a runtime
	// condition, so it fails at the point of registration.
	ErrInvalidForce = errors.New("physics: invalid force")

	// ErrNotFinite indicates a force evaluation produced NaN or Inf.
	ErrNotFinite = errors.New("physics: force produced a non-finite vector")
)
