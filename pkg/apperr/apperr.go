// Package apperr defines the error kinds shared by every bounded context.
// Services wrap these with fmt.Errorf("%w: ...") so transport layers can
// classify failures with errors.Is without importing service packages.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a referenced entity that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden marks an authenticated caller lacking the right to act.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict marks a request that is well-formed but violates current state.
	ErrConflict = errors.New("conflict")

	// ErrDependency marks a failing or timed-out external dependency (store, cache, bus).
	ErrDependency = errors.New("dependency unavailable")

	// ErrInvariant marks an internal consistency breach. Never retried.
	ErrInvariant = errors.New("invariant violation")
)

// Validation returns an ErrValidation carrying a human-readable message.
func Validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// Dependency wraps err as an ErrDependency, keeping the original error in the chain.
// A nil err yields nil.
func Dependency(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrDependency, op, err)
}

// Kind reports which base error err wraps, or nil if it wraps none.
func Kind(err error) error {
	for _, k := range []error{ErrValidation, ErrNotFound, ErrForbidden, ErrConflict, ErrDependency, ErrInvariant} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
