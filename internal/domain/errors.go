package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies a lifecycle failure.
type ErrorCode string

const (
	CodeNotFound           ErrorCode = "not_found"
	CodePreconditionFailed ErrorCode = "precondition_failed"
	CodeValidationFailed   ErrorCode = "validation_failed"
	CodeForbidden          ErrorCode = "forbidden"
)

// Error is a typed lifecycle error carrying an HTTP-style classification.
// Guards return it before any write, so a failed operation never leaves a
// partially mutated contract behind.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HTTPStatus maps the error code to its transport status.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func PreconditionFailed(format string, args ...any) *Error {
	return &Error{Code: CodePreconditionFailed, Message: fmt.Sprintf(format, args...)}
}

func ValidationFailed(format string, args ...any) *Error {
	return &Error{Code: CodeValidationFailed, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Code: CodeForbidden, Message: fmt.Sprintf(format, args...)}
}

// IsCode reports whether err is a domain error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
