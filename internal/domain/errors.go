package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures crossing the gateway boundary.
type ErrorKind string

const (
	// KindAuth covers bad credentials and missing or rejected tokens.
	KindAuth ErrorKind = "auth"
	// KindNetwork covers transient transport failures; retrying the same
	// step is safe.
	KindNetwork ErrorKind = "network"
	// KindService covers well-formed requests the remote service rejected;
	// the remote message is surfaced verbatim and not retried automatically.
	KindService ErrorKind = "service"
	// KindValidation covers malformed local input rejected before any
	// network call.
	KindValidation ErrorKind = "validation"
)

// Error is a classified orchestration error.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NewAuthError reports an authentication or authorization failure.
func NewAuthError(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

// NewNetworkError reports a transient transport failure.
func NewNetworkError(message string, err error) *Error {
	return &Error{Kind: KindNetwork, Message: message, Err: err}
}

// NewServiceError reports a remote rejection of a well-formed request.
func NewServiceError(message string) *Error {
	return &Error{Kind: KindService, Message: message}
}

// NewValidationError reports malformed local input.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// KindOf returns the classification of err, or "" for unclassified errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err carries the given classification.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
