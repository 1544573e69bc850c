package window

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTag is returned when a page uses a tag outside the closed
	// vocabulary, or a head tag in the body and vice versa.
	ErrUnknownTag = errors.New("window: unknown tag")
	// ErrUnknownInputType is returned for <input> types other than text and
	// submit.
	ErrUnknownInputType = errors.New("window: unknown input type")
	// ErrPageNotFound is returned when a link names a page that does not exist.
	ErrPageNotFound = errors.New("window: page not found")
	// ErrActionNotFound is returned when an action button names no registered
	// callback.
	ErrActionNotFound = errors.New("window: action not found")
	// ErrAlreadyPosted is returned when Post or Initialize runs twice.
	ErrAlreadyPosted = errors.New("window: already posted")
	// ErrNoParent is returned when the root window is asked to go back.
	ErrNoParent = errors.New("window: root window has no parent")
)

// ActionError wraps a failure raised by an action callback.
type ActionError struct {
	Action string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("window: action %q: %v", e.Action, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}
