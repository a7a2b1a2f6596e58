// Package apperror holds the closed set of failures the weather service reports
// to its callers. The HTTP layer maps each Kind to a status code.
package apperror

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindUnexpected is the zero value so an unclassified error is never mistaken for a client error.
	KindUnexpected Kind = iota
	KindNotFound
	KindAuth
	KindUpstream
	KindTimeout
	KindValidation
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAuth:
		return "auth"
	case KindUpstream:
		return "upstream"
	case KindTimeout:
		return "timeout"
	case KindValidation:
		return "validation"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "unexpected"
	}
}

// Error is a classified failure. Status is only set for KindUpstream.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil && e.Kind != KindUnexpected {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NotFound(city string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("City '%s' not found. Please check the city name.", city)}
}

func Auth() *Error {
	return &Error{Kind: KindAuth, Message: "Invalid API key. Please check your OpenWeatherMap API key."}
}

// Upstream reports a non-2xx provider answer. what names the failed operation,
// e.g. "fetch weather data".
func Upstream(what string, status int) *Error {
	return &Error{Kind: KindUpstream, Status: status, Message: fmt.Sprintf("Failed to %s: %d", what, status)}
}

func Timeout(cause error) *Error {
	return &Error{Kind: KindTimeout, Message: "Request timeout. Please try again later.", Cause: cause}
}

func Unexpected(cause error) *Error {
	return &Error{Kind: KindUnexpected, Message: fmt.Sprintf("An unexpected error occurred: %v", cause), Cause: cause}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func RateLimited(message string) *Error {
	return &Error{Kind: KindRateLimited, Message: message}
}

// KindOf returns the Kind carried by err, or KindUnexpected when err is not classified.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnexpected
}

// Message returns the human readable message of a classified error, or err.Error() otherwise.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
