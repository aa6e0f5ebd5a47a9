package application

import (
	"fmt"
	"net/http"
)

// Error is a handler failure carrying the HTTP status the interface
// layer should respond with. Every handler signals failure this way,
// including not-found cases.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string { return e.Message }

func NewError(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

func BadRequest(message string) *Error {
	return &Error{Code: http.StatusBadRequest, Message: message}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Code: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(message string) *Error {
	return &Error{Code: http.StatusForbidden, Message: message}
}

// ValidationError aborts a request before its handler runs. Fields maps
// each violated field to a message; all violations are collected, not
// just the first.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// Unit is the empty success payload for commands with no result.
type Unit struct{}
