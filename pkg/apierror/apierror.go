package apierror

import (
	"errors"
	"fmt"
)

// Kind classifies every failure a caller of the backend can observe.
type Kind string

const (
	// KindUnauthenticated means no local session exists; nothing was sent.
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	// KindAuthRejected means the backend refused the bearer token (HTTP 401).
	KindAuthRejected Kind = "AUTH_REJECTED"
	// KindValidationFailed carries the flattened field errors of a 4xx response.
	KindValidationFailed Kind = "VALIDATION_FAILED"
	KindNotFound         Kind = "NOT_FOUND"
	// KindServerUnavailable covers transport failures, 5xx and unreadable bodies.
	KindServerUnavailable Kind = "SERVER_UNAVAILABLE"
)

type APIError struct {
	Kind       Kind   `json:"kind"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func New(kind Kind, message string, details string, status int) *APIError {
	return &APIError{Kind: kind, Message: message, Details: details, HTTPStatus: status}
}

// Wrap is New with an underlying cause kept for errors.Is/As.
func Wrap(kind Kind, message string, status int, cause error) *APIError {
	e := New(kind, message, "", status)
	e.Err = cause
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// KindOf extracts the Kind of err, if err is or wraps an *APIError.
func KindOf(err error) (Kind, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return "", false
}

func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// Message returns the user-facing text of err: the APIError message when there
// is one, the plain error text otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
