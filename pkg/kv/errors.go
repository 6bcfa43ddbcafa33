package kv

import (
	"errors"
	"fmt"
)

// Kind classifies a store error.
type Kind string

const (
	// KindNotFound indicates the requested key is absent
	KindNotFound Kind = "NOT_FOUND"
	// KindIO indicates the store file could not be read or written
	KindIO Kind = "IO"
	// KindInvalidArgument indicates malformed input
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
	// KindAlreadyExists indicates an add over an existing key
	KindAlreadyExists Kind = "ALREADY_EXISTS"
)

var (
	errEmptyKey   = errors.New("key must not be empty")
	errKeyChars   = errors.New(`key must not contain ':' or line breaks`)
	errValueChars = errors.New("value must not contain line breaks")
)

// Error carries the kind of failure together with the operation and key
// that caused it.
type Error struct {
	Kind Kind
	Op   string
	Key  string
	Err  error
}

// NewError builds an *Error. err may be nil.
func NewError(kind Kind, op, key string, err error) *Error {
	return &Error{Kind: kind, Op: op, Key: key, Err: err}
}

// Error implements the error interface
func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("Key %q not found.", e.Key)
	case KindAlreadyExists:
		return fmt.Sprintf("Key %q already present.", e.Key)
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	if e.Key != "" {
		return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain, or "" if
// there is none.
func KindOf(err error) Kind {
	var kvErr *Error
	if errors.As(err, &kvErr) {
		return kvErr.Kind
	}
	return ""
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsIO checks if the error is a file access error
func IsIO(err error) bool {
	return KindOf(err) == KindIO
}

// IsInvalidArgument checks if the error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return KindOf(err) == KindInvalidArgument
}

// IsAlreadyExists checks if the error is an already exists error
func IsAlreadyExists(err error) bool {
	return KindOf(err) == KindAlreadyExists
}
