// Package apperr defines the closed set of application error kinds and the
// single translation step that maps any error onto the API's uniform
// error envelope.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind tags an Error with one of the five application error categories.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindBadRequest
	KindNotFound
	KindDuplicate
	KindServer
)

// String returns the wire-level type name of the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindBadRequest:
		return "BadRequestError"
	case KindNotFound:
		return "NotFoundError"
	case KindDuplicate:
		return "DuplicateError"
	default:
		return "ServerError"
	}
}

// HTTPStatus returns the response status code for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicate:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is the application error type. Details is only populated for
// validation failures (one entry per field violation) and for server errors
// (the raw message of the unclassified cause).
type Error struct {
	Kind    Kind
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Details, "; "))
	}
	return e.Message
}

// Unwrap returns the wrapped cause, if any, to support errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Validation builds a 400 error carrying the ordered list of field violations.
func Validation(details []string) *Error {
	return &Error{Kind: KindValidation, Message: "Validation failed", Details: details}
}

// BadRequest builds a 400 error with a single message, used for bad
// references and invalid enum values.
func BadRequest(format string, args ...any) *Error {
	return &Error{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a 404 error for a missing entity.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Duplicate builds a 409 error for a unique-constraint collision.
func Duplicate(format string, args ...any) *Error {
	return &Error{Kind: KindDuplicate, Message: fmt.Sprintf(format, args...)}
}

// Server wraps an unclassified error as a 500. The original message is kept
// as a detail; nothing else from the cause is exposed.
func Server(err error) *Error {
	return &Error{
		Kind:    KindServer,
		Message: "Internal server error",
		Details: []string{err.Error()},
		Err:     err,
	}
}

// Normalize maps any error onto exactly one *Error. Typed application errors
// pass through unchanged; everything else becomes a server error. The mapping
// is total: Normalize never returns nil for a non-nil input.
func Normalize(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Server(err)
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
