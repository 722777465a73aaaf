// Package apperr classifies failures so transports can map them to status codes.
package apperr

import (
	"errors"
	"fmt"
)

const (
	CodeValidation         = "validation_error"
	CodeDuplicateEmail     = "duplicate_email"
	CodeInvalidCredentials = "invalid_credentials"
	CodeUnauthorized       = "unauthorized"
	CodeForbidden          = "forbidden"
	CodeServiceUnavailable = "service_unavailable"
	CodeServiceError       = "service_error"
)

// Error carries a classification code, a message safe to show callers and
// the underlying cause.
type Error struct {
	Code    string
	Message string
	Inner   error
}

func (e Error) Error() string {
	if e.Inner != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Inner)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e Error) Unwrap() error { return e.Inner }

func New(code, message string, inner error) Error {
	return Error{Code: code, Message: message, Inner: inner}
}

func Validation(message string) Error {
	return New(CodeValidation, message, nil)
}

func DuplicateEmail(message string, inner error) Error {
	return New(CodeDuplicateEmail, message, inner)
}

func InvalidCredentials(message string, inner error) Error {
	return New(CodeInvalidCredentials, message, inner)
}

func Unauthorized(message string, inner error) Error {
	return New(CodeUnauthorized, message, inner)
}

func Forbidden(message string) Error {
	return New(CodeForbidden, message, nil)
}

func ServiceUnavailable(message string) Error {
	return New(CodeServiceUnavailable, message, nil)
}

func Service(message string, inner error) Error {
	return New(CodeServiceError, message, inner)
}

// As extracts the outermost classified error from err's chain.
func As(err error) (Error, bool) {
	var e Error
	if errors.As(err, &e) {
		return e, true
	}
	return Error{}, false
}

// CodeOf returns the classification of err, or CodeServiceError when it has none.
func CodeOf(err error) string {
	if e, ok := As(err); ok {
		return e.Code
	}
	return CodeServiceError
}

func IsValidation(err error) bool         { return hasCode(err, CodeValidation) }
func IsDuplicateEmail(err error) bool     { return hasCode(err, CodeDuplicateEmail) }
func IsInvalidCredentials(err error) bool { return hasCode(err, CodeInvalidCredentials) }
func IsUnauthorized(err error) bool       { return hasCode(err, CodeUnauthorized) }
func IsForbidden(err error) bool          { return hasCode(err, CodeForbidden) }
func IsServiceUnavailable(err error) bool { return hasCode(err, CodeServiceUnavailable) }
func IsService(err error) bool            { return hasCode(err, CodeServiceError) }

func hasCode(err error, code string) bool {
	e, ok := As(err)
	return ok && e.Code == code
}
