// Package errors tags application failures with the HTTP-facing category
// the error boundary uses to build a response envelope.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for the response boundary.
type Kind int

const (
	// KindInternal is the default for untagged failures.
	KindInternal Kind = iota
	// KindValidation marks malformed input, unknown references and bad query parameters.
	KindValidation
	// KindNotFound marks missing or logically deleted records.
	KindNotFound
)

// String returns a lowercase label suitable for logs and metric attributes.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Status maps the kind to the HTTP status code sent to clients.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a tagged failure. Message is exposed verbatim in the response body.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *Error) Unwrap() error { return e.Err }

// Validation builds a KindValidation error with a formatted message.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a KindNotFound error with a formatted message.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Wrap tags cause with kind, keeping it reachable through errors.Is.
// The message defaults to the cause's text.
func Wrap(kind Kind, cause error, message string) *Error {
	if message == "" && cause != nil {
		message = cause.Error()
	}
	return &Error{Kind: kind, Message: message, Err: cause}
}

// KindOf reports the kind of the first tagged error in err's chain.
func KindOf(err error) Kind {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Kind
	}
	return KindInternal
}

// IsValidation reports whether err is tagged as a validation failure.
func IsValidation(err error) bool { return err != nil && KindOf(err) == KindValidation }

// IsNotFound reports whether err is tagged as a not-found failure.
func IsNotFound(err error) bool { return err != nil && KindOf(err) == KindNotFound }
