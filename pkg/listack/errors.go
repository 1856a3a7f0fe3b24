package listack

import "errors"

// Every failure in the pipeline is fatal - there is no partial-result
// contract, no retry, no batch-level recovery. Callers get one of
// these sentinels wrapped with some context.
var(
	// ErrInvalidConfig - an unsupported method or mode name, or an
	// injector given neither a sigma nor explicit shifts.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDimensionMismatch - reference shape differs from a candidate
	// frame's shape, or a requested count exceeds what's available.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrDegenerateInput - a sequence with nothing to align against.
	ErrDegenerateInput = errors.New("degenerate input")

	// ErrNumericDegeneracy - zero total intensity in a centroid, or a
	// zero-maximum correlation surface. Caught before they become NaNs.
	ErrNumericDegeneracy = errors.New("numeric degeneracy")
)
