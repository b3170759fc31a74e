// Package apierr defines errors that carry an HTTP status and a message
// safe to show to API clients.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a client-facing failure. Status is the HTTP status code and
// Message is returned verbatim in the response envelope. Err, when set,
// is logged but never shown.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error with the given status.
func New(status int, msg string) *Error {
	return &Error{Status: status, Message: msg}
}

// Wrap attaches an underlying cause.
func Wrap(status int, msg string, err error) *Error {
	return &Error{Status: status, Message: msg, Err: err}
}

func BadRequest(msg string) *Error   { return New(http.StatusBadRequest, msg) }
func Unauthorized(msg string) *Error { return New(http.StatusUnauthorized, msg) }
func Forbidden(msg string) *Error    { return New(http.StatusForbidden, msg) }
func NotFound(msg string) *Error     { return New(http.StatusNotFound, msg) }
func Conflict(msg string) *Error     { return New(http.StatusConflict, msg) }

// TooManyRequests is returned by rate-limited endpoints.
func TooManyRequests(msg string) *Error { return New(http.StatusTooManyRequests, msg) }

// As reports whether err is (or wraps) an *Error and returns it.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// StatusOf returns the status carried by err, or 500.
func StatusOf(err error) int {
	if ae, ok := As(err); ok {
		return ae.Status
	}
	return http.StatusInternalServerError
}
