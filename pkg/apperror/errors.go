/**
 * @description
 * This package defines the error kinds shared by all services. Every guard
 * and repository reports failures through one of these kinds so that the API
 * layer can map them to HTTP status codes without inspecting message text.
 */
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	// KindUnknown is anything not explicitly classified; rendered as a 500.
	KindUnknown Kind = iota
	// KindValidation is a missing/blank field or an unrecognized enum value.
	KindValidation
	// KindNotFound is a confirmed absence: a local lookup miss or an explicit
	// negative from a peer's existence check.
	KindNotFound
	// KindConflict is a duplicate identifier, an exhausted card slot, or a
	// delete blocked by dependents.
	KindConflict
	// KindUnavailable is a peer call that failed in transport. It is kept
	// distinct from KindNotFound because absence was never confirmed.
	KindUnavailable
)

// Error carries a kind alongside the message surfaced to the caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error
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

// Validation builds a KindValidation error.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds a KindConflict error.
func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a KindNotFound error for a resource looked up by a field.
func NotFound(resource, field, value string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found with %s: %s", resource, field, value),
	}
}

// Unavailable builds a KindUnavailable error wrapping the transport failure.
func Unavailable(message string, err error) *Error {
	return &Error{Kind: KindUnavailable, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain. Unclassified errors return
// KindUnknown.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// HTTPStatus maps an error chain to the HTTP status code it should surface as.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
