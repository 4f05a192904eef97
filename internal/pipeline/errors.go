package pipeline

import (
	"errors"
	"fmt"

	"github.com/nao1215/hitksoup/internal/browser"
)

// Failure kinds, matched with errors.Is.
var (
	// ErrUnreachablePortal is returned when the portal could not be loaded
	// or stopped responding during a run.
	ErrUnreachablePortal = errors.New("result portal unreachable")

	// ErrInvalidProfile is returned when an element named by the profile is
	// missing from the live page. The profile and the portal have diverged,
	// so no further roll can succeed.
	ErrInvalidProfile = errors.New("profile does not match the result page")
)

// Failure is a fatal pipeline error for one roll.
type Failure struct {
	// Kind is ErrUnreachablePortal or ErrInvalidProfile.
	Kind error

	// Roll is the roll number being fetched.
	Roll string

	// State is the last state reached before the failure.
	State State

	// Err is the session error that caused the failure.
	Err error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%v: roll %s after %s: %v", f.Kind, f.Roll, f.State, f.Err)
}

// Unwrap exposes both the kind and the session error.
func (f *Failure) Unwrap() []error {
	return []error{f.Kind, f.Err}
}

// classify maps a session error to its failure kind. Anything other than
// a missing element means the portal itself is the problem.
func classify(err error) error {
	if errors.Is(err, browser.ErrElementNotFound) {
		return ErrInvalidProfile
	}
	return ErrUnreachablePortal
}
