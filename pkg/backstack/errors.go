package backstack

import (
	"errors"

	"github.com/BrandonKowalski/backstack/pkg/backstack/key"
	"github.com/BrandonKowalski/backstack/pkg/backstack/queue"
	"github.com/BrandonKowalski/backstack/pkg/backstack/reorder"
)

// Sentinel errors for common conditions.
var (
	// ErrNotRegistered indicates Show was called for a title with no registered binding.
	ErrNotRegistered = errors.New("layer title not registered")

	// ErrUnknownMatchMode indicates a configuration named a match mode that does not exist.
	ErrUnknownMatchMode = errors.New("unknown match mode")

	// ErrInvalidKey indicates a key with an empty title.
	ErrInvalidKey = key.ErrInvalidKey

	// ErrMalformedKey indicates a serialized key that does not decode.
	ErrMalformedKey = key.ErrMalformedKey

	// ErrClosed indicates a mutation submitted after Close.
	ErrClosed = queue.ErrClosed
)

// InvariantError is returned when a reorder transaction failed part way
// and the stack was restored from its snapshot.
type InvariantError = reorder.InvariantError

// IsInvariantError checks if an error reports a failed reorder transaction.
func IsInvariantError(err error) bool {
	var invErr *reorder.InvariantError
	return errors.As(err, &invErr)
}

// IsKeyError checks if an error came from encoding or decoding a key.
func IsKeyError(err error) bool {
	var keyErr *key.Error
	return errors.As(err, &keyErr)
}
