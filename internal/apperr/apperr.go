// Package apperr defines the error taxonomy shared by the API layer.
//
// Each class maps to a fixed HTTP status. Handlers construct these for
// expected failures; anything else escapes to the dispatcher's catch-all
// and becomes an Internal error.
package apperr

import (
	"errors"
	"net/http"
)

// Error is a classified application error.
type Error struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports missing or invalid request fields.
func Validation(message string) *Error {
	return &Error{Code: "validation", Message: message, HTTPStatus: http.StatusBadRequest}
}

// NotFound reports an unknown ID or address.
func NotFound(message string) *Error {
	return &Error{Code: "not_found", Message: message, HTTPStatus: http.StatusNotFound}
}

// Conflict reports a duplicate registration or association.
func Conflict(message string) *Error {
	return &Error{Code: "conflict", Message: message, HTTPStatus: http.StatusConflict}
}

// Unauthorized reports a missing, invalid or expired credential.
func Unauthorized(message string) *Error {
	return &Error{Code: "unauthorized", Message: message, HTTPStatus: http.StatusUnauthorized}
}

// Forbidden reports insufficient privilege (not verified, not admin).
func Forbidden(message string) *Error {
	return &Error{Code: "forbidden", Message: message, HTTPStatus: http.StatusForbidden}
}

// RateLimited reports that the client exceeded the request budget.
func RateLimited(message string) *Error {
	return &Error{Code: "rate_limited", Message: message, HTTPStatus: http.StatusTooManyRequests}
}

// Internal wraps an unexpected failure.
func Internal(message string, err error) *Error {
	return &Error{Code: "internal", Message: message, HTTPStatus: http.StatusInternalServerError, Err: err}
}

// Status returns the HTTP status for err, defaulting to 500 for
// unclassified errors.
func Status(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.HTTPStatus
	}
	return http.StatusInternalServerError
}
