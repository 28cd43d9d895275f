package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an application error so the delivery layer can pick a status code.
type Kind string

const (
	KindAuth               Kind = "auth"
	KindProfileResolution  Kind = "profile_resolution"
	KindIncompleteSchedule Kind = "incomplete_schedule"
	KindValidation         Kind = "validation"
	KindStorage            Kind = "storage"
	KindNotFound           Kind = "not_found"
	KindForbidden          Kind = "forbidden"
	KindInvalidTransition  Kind = "invalid_transition"
	KindInternal           Kind = "internal"
)

// Error is the application error type returned by use cases.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

// MessageOf returns the user facing message of err, falling back to fallback
// for errors that are not application errors.
func MessageOf(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return fallback
}

func Auth(message string) *Error {
	return New(KindAuth, message)
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func NotFound(resource string) *Error {
	return New(KindNotFound, resource+" not found")
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

func Storage(message string, err error) *Error {
	return Wrap(KindStorage, message, err)
}

func ProfileResolution(err error) *Error {
	return Wrap(KindProfileResolution, "failed to resolve user profile", err)
}

func IncompleteSchedule() *Error {
	return New(KindIncompleteSchedule, "date and time are required")
}
