package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrPoolNotFound       = errors.New("pool not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrParticipantMissing = errors.New("participant not in pool")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrNoSession          = errors.New("no active session")
	ErrLocalStore         = errors.New("local store failure")
)

// RemoteErrorKind classifies a failure reported by a remote store binding.
type RemoteErrorKind string

const (
	KindUnavailable  RemoteErrorKind = "unavailable"
	KindNotFound     RemoteErrorKind = "not_found"
	KindRejected     RemoteErrorKind = "rejected"
	KindUnauthorized RemoteErrorKind = "unauthorized"
	KindUnsupported  RemoteErrorKind = "unsupported"
	KindDecode       RemoteErrorKind = "decode"
)

// RemoteError is the single failure shape every remote binding normalizes into,
// whether the backend raised an error or returned a {data, error} envelope.
type RemoteError struct {
	Backend    string
	Collection string
	Op         string
	Kind       RemoteErrorKind
	Err        error
}

func (e *RemoteError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s.%s: %s", e.Backend, e.Collection, e.Op, e.Kind)
	}
	return fmt.Sprintf("%s %s.%s: %s: %v", e.Backend, e.Collection, e.Op, e.Kind, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNotFound) match not_found remote failures.
func (e *RemoteError) Is(target error) bool {
	return target == ErrNotFound && e.Kind == KindNotFound
}

// RemoteKind returns the kind of a wrapped *RemoteError, or "" when err is not one.
func RemoteKind(err error) RemoteErrorKind {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

// ValidationError is a user-facing rejection that blocks a form step or a write.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NewValidationError builds a *ValidationError.
func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
