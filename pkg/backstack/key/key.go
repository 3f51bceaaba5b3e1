// Package key encodes and decodes the composite layer key.
//
// A key is the triple (title, surface id, record id) joined with the
// reserved delimiter, for example "detail|7|42". The serialized form is
// the only externally observable encoding in backstack and is kept
// byte-for-byte stable.
package key

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/BrandonKowalski/backstack/pkg/backstack/constants"
)

var (
	// ErrInvalidKey indicates a key could not be built, typically an empty title.
	ErrInvalidKey = errors.New("invalid key")

	// ErrMalformedKey indicates a serialized key could not be decoded.
	ErrMalformedKey = errors.New("malformed key")
)

// Error describes a failed encode or decode.
type Error struct {
	Op    string // "encode" or "decode"
	Input string // the title or serialized key that was rejected
	Err   error  // ErrInvalidKey or ErrMalformedKey, possibly wrapping a parse error
}

func (e *Error) Error() string {
	return fmt.Sprintf("key: %s %q: %v", e.Op, e.Input, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Key identifies a single layer in the stack.
type Key struct {
	Title     string
	SurfaceID int
	RecordID  int64
}

// New builds a Key, rejecting an empty title.
func New(title string, surfaceID int, recordID int64) (Key, error) {
	if title == "" {
		return Key{}, &Error{Op: "encode", Input: title, Err: ErrInvalidKey}
	}
	return Key{Title: title, SurfaceID: surfaceID, RecordID: recordID}, nil
}

// String returns the serialized form without validating the title.
func (k Key) String() string {
	return strings.Join([]string{
		k.Title,
		strconv.Itoa(k.SurfaceID),
		strconv.FormatInt(k.RecordID, 10),
	}, constants.Delimiter)
}

// Encode joins the three fields into a serialized key.
// A title containing the delimiter produces a key that will not decode.
func Encode(title string, surfaceID int, recordID int64) (string, error) {
	k, err := New(title, surfaceID, recordID)
	if err != nil {
		return "", err
	}
	return k.String(), nil
}

// MustEncode is like Encode but panics on an empty title.
func MustEncode(title string, surfaceID int, recordID int64) string {
	s, err := Encode(title, surfaceID, recordID)
	if err != nil {
		panic(err)
	}
	return s
}

// Decode splits a serialized key into its fields. Numbers must be in
// canonical base-10 form: no sign prefix, leading zeros or "-0".
func Decode(serialized string) (Key, error) {
	fields := strings.Split(serialized, constants.Delimiter)
	if len(fields) != constants.KeyFieldCount {
		return Key{}, malformed(serialized, fmt.Errorf("want %d fields, got %d", constants.KeyFieldCount, len(fields)))
	}
	for i, f := range fields {
		if f == "" {
			return Key{}, malformed(serialized, fmt.Errorf("field %d is empty", i))
		}
	}

	surfaceID, err := strconv.Atoi(fields[1])
	if err != nil {
		return Key{}, malformed(serialized, err)
	}
	recordID, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return Key{}, malformed(serialized, err)
	}

	// Only the form Encode produces is accepted, so "a|01|2" and "a|1|2"
	// cannot both name the same layer.
	k := Key{Title: fields[0], SurfaceID: surfaceID, RecordID: recordID}
	if k.String() != serialized {
		return Key{}, malformed(serialized, errors.New("non-canonical number"))
	}
	return k, nil
}

func malformed(input string, cause error) error {
	return &Error{Op: "decode", Input: input, Err: fmt.Errorf("%w: %w", ErrMalformedKey, cause)}
}
