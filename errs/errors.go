// Package errs defines the sentinel error values shared by every
// package in this module, following the wrapped-sentinel style used
// throughout this domain's reference packages: a small set of
// errors.New sentinels identify the *kind* of failure, and a wrapping
// struct attaches the specific context (which field, which reason).
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports a malformed call: a window whose
	// start does not precede its end, a window that extends
	// downstream of the anchor, or a negative maximum distance.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfMemory reports that an allocation failed during suffix
	// array construction or search. Go's runtime normally terminates
	// the process on allocation failure rather than returning an
	// error; this sentinel exists so a recovered out-of-memory panic
	// has somewhere well-defined to go instead of crashing a caller
	// that may be able to degrade gracefully (e.g. retry with a
	// smaller batch).
	ErrOutOfMemory = errors.New("allocation failed")

	// ErrInternalInvariant reports that a suffix array failed a
	// defensive postcondition check (not a permutation, or not
	// sorted), wrapped by InvariantError. No function in this module
	// performs such a check or returns this error.
	ErrInternalInvariant = errors.New("internal invariant violated")
)

// InvalidArgumentError names the offending field and the reason its
// value was rejected.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Field, e.Reason)
}

func (e *InvalidArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// InvariantError names the specific postcondition that failed.
type InvariantError struct {
	Check string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("internal invariant violated: %s", e.Check)
}

func (e *InvariantError) Unwrap() error {
	return ErrInternalInvariant
}
