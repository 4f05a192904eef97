package browser

import (
	"context"
	"errors"
	"fmt"
)

// Session failure kinds, matched with errors.Is.
var (
	// ErrUnreachable is returned when the page could not be loaded.
	ErrUnreachable = errors.New("page unreachable")

	// ErrElementNotFound is returned when a control or element is absent.
	ErrElementNotFound = errors.New("element not found")
)

// Session is one browser tab bound to one run.
type Session interface {
	// Open navigates to url and waits for the page to load.
	Open(ctx context.Context, url string) error

	// FillText types value into the text control named name.
	FillText(ctx context.Context, name, value string) error

	// SelectOption selects the option with the visible text in the
	// dropdown named name.
	SelectOption(ctx context.Context, name, visibleText string) error

	// Click clicks the control named name and waits for the resulting page.
	Click(ctx context.Context, name string) error

	// ReadText returns the text content of the element with the given id.
	ReadText(ctx context.Context, id string) (string, error)

	// PageContains reports whether the current page source contains substr.
	PageContains(ctx context.Context, substr string) (bool, error)

	// Close releases the session. It is safe to call more than once.
	Close() error
}

// SessionError records which primitive failed and on what.
type SessionError struct {
	// Op is the primitive that failed, e.g. "open" or "click".
	Op string

	// Target is the URL, control name or element id involved.
	Target string

	// Err is ErrUnreachable or ErrElementNotFound, possibly wrapping the
	// backend's own error.
	Err error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Target, e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

func unreachable(op, target string, cause error) error {
	if cause == nil {
		return &SessionError{Op: op, Target: target, Err: ErrUnreachable}
	}
	return &SessionError{Op: op, Target: target, Err: fmt.Errorf("%w: %w", ErrUnreachable, cause)}
}

func notFound(op, target string) error {
	return &SessionError{Op: op, Target: target, Err: ErrElementNotFound}
}

// nameSelector matches form controls by their name attribute.
func nameSelector(name string) string {
	return fmt.Sprintf("[name=%q]", name)
}

// idSelector matches elements by id without CSS escaping concerns.
func idSelector(id string) string {
	return fmt.Sprintf("[id=%q]", id)
}
