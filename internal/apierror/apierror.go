// Package apierror defines the error taxonomy shared by services and handlers.
// Every error returned to clients goes through this package to ensure a
// consistent envelope and to prevent leaking internal details (stack traces,
// SQL errors, etc.).
package apierror

import (
	"errors"
	"net/http"
)

// Error carries an HTTP status, a client-safe message and, optionally, the
// wrapped cause. The cause is logged server-side but never serialized.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NewValidation(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

func NewAuthentication(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: msg}
}

func NewAuthorization(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Message: msg}
}

func NewNotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

func NewConflict(msg string) *Error {
	return &Error{Status: http.StatusConflict, Message: msg}
}

// NewDatabase wraps a storage-layer failure. The cause is preserved for
// logging; clients only see the generic message.
func NewDatabase(msg string, cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: msg, Err: cause}
}

// From extracts the typed error from err, or returns a generic 500 wrapper.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &Error{Status: http.StatusInternalServerError, Message: "Error interno del servidor", Err: err}
}
