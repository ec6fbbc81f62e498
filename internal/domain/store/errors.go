// internal/domain/store/errors.go
package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by stores when a keyed lookup matches nothing
	ErrNotFound = errors.New("record not found")
	// ErrUnavailable marks a store that cannot be reached
	ErrUnavailable = errors.New("store unavailable")
)

// Error describes a failed store operation. Op names the operation and Key
// the entity it addressed, so callers can decide how to report it.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap annotates err with the operation and key. A nil err stays nil.
func Wrap(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Key: key, Err: err}
}

// IsNotFound reports whether err is, or wraps, ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Unavailable marks err as ErrUnavailable and keeps it as the cause
func Unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// IsUnavailable reports whether err is, or wraps, ErrUnavailable
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// Op extracts the failed operation name, if err carries one
func Op(err error) string {
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return storeErr.Op
	}
	return ""
}
