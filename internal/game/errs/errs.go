// Package errs holds the error categories shared by the game engines.
//
// Concrete errors wrap one of these sentinels so callers can branch with
// errors.Is regardless of which engine produced the failure.
package errs

import "errors"

var (
	// ErrState indicates an operation that is illegal in the current phase.
	ErrState = errors.New("illegal operation for current game state")

	// ErrFeasibility indicates STRICT lineup generation could not fill a slot.
	ErrFeasibility = errors.New("lineup generation infeasible")

	// ErrEmptyInput indicates a required input was empty or missing.
	ErrEmptyInput = errors.New("empty input")

	// ErrValidation indicates a roster failed an explicit validation pass.
	ErrValidation = errors.New("roster validation failed")
)
