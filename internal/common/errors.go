// Package common defines the error taxonomy and shared constants used across
// the fashion finder client. Callers should use errors.Is to match these
// values.
package common

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned by actions that require a signed-in user.
	ErrNotAuthenticated = errors.New("user not logged in")

	// ErrValidation marks missing or malformed input detected before any
	// remote call is made.
	ErrValidation = errors.New("validation error")

	// ErrNotFound is a remote lookup miss.
	ErrNotFound = errors.New("not found")

	// ErrRemoteFailure is any failure reported by the backend or the compute
	// service (non-2xx status, transport error, driver error).
	ErrRemoteFailure = errors.New("remote failure")

	// ErrInvalidToken is returned when an access token cannot be parsed.
	ErrInvalidToken = errors.New("invalid token")
)

// NotFoundCode is the code carried by RemoteError for lookup misses.
const NotFoundCode = "PGRST116"

// RemoteError describes a failed call to a remote tier. Message is passed
// through verbatim from the remote side when one is available.
type RemoteError struct {
	StatusCode int
	Code       string
	Message    string
}

// Error never returns an empty string: without a message it falls back to
// the code, then to ErrRemoteFailure's text.
func (e *RemoteError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code
	}
	if e.StatusCode != 0 {
		if msg == "" {
			return fmt.Sprintf("request failed with status %d", e.StatusCode)
		}
		return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, msg)
	}
	if msg == "" {
		return ErrRemoteFailure.Error()
	}
	return msg
}

// Is reports whether target is ErrRemoteFailure, or ErrNotFound when the
// error carries the not-found code.
func (e *RemoteError) Is(target error) bool {
	switch target {
	case ErrRemoteFailure:
		return true
	case ErrNotFound:
		return e.Code == NotFoundCode
	}
	return false
}

// NewValidationError wraps ErrValidation with a human-readable message.
func NewValidationError(msg string) error {
	return &validationError{msg: msg}
}

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Unwrap() error { return ErrValidation }
