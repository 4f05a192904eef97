package profile

import (
	"errors"
	"fmt"
)

// Failure kinds returned by Loader.Resolve, matched with errors.Is.
var (
	// ErrInvalidDescriptor is returned when the semester or year input is invalid.
	ErrInvalidDescriptor = errors.New("invalid semester descriptor")

	// ErrProfileMissing is returned when no definition exists for the key.
	ErrProfileMissing = errors.New("extraction profile missing")

	// ErrInvalidProfile is returned when a definition is malformed or incomplete.
	ErrInvalidProfile = errors.New("invalid extraction profile")
)

// LoadError describes why a profile could not be resolved.
type LoadError struct {
	// Kind is one of ErrInvalidDescriptor, ErrProfileMissing or ErrInvalidProfile.
	Kind error

	// Key is the storage key, empty when the descriptor itself was invalid.
	Key string

	// Detail explains the failure in human terms.
	Detail string

	// Err is the underlying cause, if any.
	Err error
}

func (e *LoadError) Error() string {
	msg := e.Kind.Error()
	if e.Key != "" {
		msg += " " + e.Key
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the failure kind and the underlying cause.
func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
