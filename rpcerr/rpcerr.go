// Package rpcerr implements the closed RPC error taxonomy: argument and
// capability errors are surfaced to the client verbatim, executor errors
// pass through as-is, IAM errors are mapped, and serialization failures
// become Thrown. Nothing here is retried; retries, if any, belong to the
// transport.
package rpcerr

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Code is one member of the closed RPC error taxonomy.
type Code string

const (
	MethodNotFound  Code = "MethodNotFound"
	MethodNotAllowed Code = "MethodNotAllowed"
	InvalidParams   Code = "InvalidParams"
	InvalidRequest  Code = "InvalidRequest"
	ParseError      Code = "ParseError"
	InvalidAuth     Code = "InvalidAuth"
	BadLQConfig     Code = "BadLQConfig"
	BadGQLConfig    Code = "BadGQLConfig"
	Thrown          Code = "Thrown"
	InternalError   Code = "InternalError"
)

// Error is a structured RPC error: a taxonomy code plus a human message.
// It wraps github.com/cockroachdb/errors so %+v formatting and
// errors.Is/As chains keep working through the handler call stack.
type Error struct {
	code  Code
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.msg == "" {
		return string(e.code)
	}
	return fmt.Sprintf("%s: %s", e.code, e.msg)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/As.
func (e *Error) Unwrap() error { return e.cause }

// Code returns the taxonomy code for e.
func (e *Error) Code() Code { return e.code }

func newErr(code Code, format string, args ...any) *Error {
	return &Error{code: code, msg: fmt.Sprintf(format, args...)}
}

func New(code Code, format string, args ...any) *Error { return newErr(code, format, args...) }

func MethodNotFoundErr(method string) *Error {
	return newErr(MethodNotFound, "method not found: %s", method)
}

func MethodNotAllowedErr(method string) *Error {
	return newErr(MethodNotAllowed, "method not allowed: %s", method)
}

func InvalidParamsErr(format string, args ...any) *Error {
	return newErr(InvalidParams, format, args...)
}

func InvalidRequestErr(format string, args ...any) *Error {
	return newErr(InvalidRequest, format, args...)
}

func ParseErrorErr(format string, args ...any) *Error {
	return newErr(ParseError, format, args...)
}

// InvalidAuthErr wraps an IAM-originated rejection, preserving the
// underlying cause for logging while presenting a taxonomy-stable code to
// the client.
func InvalidAuthErr(cause error) *Error {
	e := newErr(InvalidAuth, "%s", cause)
	e.cause = errors.WithStack(cause)
	return e
}

func BadLQConfigErr() *Error {
	return newErr(BadLQConfig, "live queries are not supported on this connection")
}

func BadGQLConfigErr() *Error {
	return newErr(BadGQLConfig, "graphql is not enabled")
}

// ThrownErr wraps an executor- or serialization-originated message,
// passed through to the client as-is.
func ThrownErr(msg string) *Error {
	return newErr(Thrown, "%s", msg)
}

// Internal wraps an unreachable/invariant-violation condition. Callers
// should log it at error level before returning it.
func Internal(format string, args ...any) *Error {
	return newErr(InternalError, format, args...)
}

// As reports whether err is (or wraps) an *Error. It is a thin helper so
// callers can branch on taxonomy code without importing cockroachdb/errors
// directly at every call site.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
