package reorder

import (
	"errors"
	"fmt"
)

// ErrLengthMismatch indicates the stack did not hold the expected number of
// entries before an unwind or after a rebuild.
var ErrLengthMismatch = errors.New("stack length mismatch")

// ErrHookPanicked indicates a host Bind or Unbind hook panicked.
var ErrHookPanicked = errors.New("hook panicked")

// InvariantError reports a reorder transaction that failed part way through.
// By the time it is returned the engine has restored the last known-good
// order as far as the host's bind hooks allowed.
type InvariantError struct {
	Op  string // Operation that failed (e.g., "resurface", "bury")
	Tag string // Target tag, empty for removals
	Err error  // Underlying error
}

func (e *InvariantError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("reorder: %s %q: %v", e.Op, e.Tag, e.Err)
	}
	return fmt.Sprintf("reorder: %s: %v", e.Op, e.Err)
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}
