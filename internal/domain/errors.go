package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict means the actor already has an open (active or paused) session.
	ErrConflict = errors.New("officer already has an open duty session")

	// ErrInvalidState means the requested action is not available from the
	// session's current status.
	ErrInvalidState = errors.New("action not available for session state")

	// ErrInvariantViolation marks stored data that breaks a lifecycle invariant.
	ErrInvariantViolation = errors.New("duty session invariant violated")

	// ErrNotFound means the referenced session does not exist.
	ErrNotFound = errors.New("duty session not found")

	// ErrInvalidArgument means a required identifier was missing.
	ErrInvalidArgument = errors.New("invalid argument")
)

// TransitionError reports an action rejected by the transition table.
type TransitionError struct {
	SessionID string
	From      SessionStatus
	Action    Action
}

func (e *TransitionError) Error() string {
	if e.SessionID == "" {
		return fmt.Sprintf("cannot %s a %s session", e.Action, e.From)
	}
	return fmt.Sprintf("cannot %s session %s: status is %s", e.Action, e.SessionID, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidState }

// UnknownStatusError is returned when a stored status is outside the enumeration.
type UnknownStatusError struct {
	Value string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown session status %q", e.Value)
}

func (e *UnknownStatusError) Unwrap() error { return ErrInvariantViolation }
