package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrChatNotFound is returned when a chat id is not in the collection.
	ErrChatNotFound = errors.New("chat not found")
	// ErrSignedOut is returned by operations that need a current user.
	ErrSignedOut = errors.New("not signed in")
)

// ValidationError reports bad user input. The operation made no change.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// FormatError reports a malformed backup document. Nothing was replaced.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid backup: %s: %v", e.Reason, e.Err)
	}
	return "invalid backup: " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }
