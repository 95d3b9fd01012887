// Package errs defines the closed error taxonomy of nit (spec §7) and the
// helpers that wrap lower-layer failures into it. Modeled on the sentinel
// error plus wrap-with-context idiom of internal/storage/sqlite/errors.go:
// one stable Kind per failure class, each with its own JSON-mode code
// string, rather than bare fmt.Errorf strings threaded through every layer.
package errs

import (
	"errors"
	"fmt"
)

// Kind is the closed set of error classes nit can surface (§7).
type Kind int

const (
	NotFound Kind = iota
	InvalidValue
	CycleDetected
	NoDatabase
	DbError
	ParseError
	IoError
)

// Code returns the stable machine-readable string used in JSON-mode
// diagnostics (§7).
func (k Kind) Code() string {
	switch k {
	case NotFound:
		return "NOT_FOUND"
	case InvalidValue:
		return "INVALID_VALUE"
	case CycleDetected:
		return "CYCLE_DETECTED"
	case NoDatabase:
		return "NO_DATABASE"
	case DbError:
		return "DB_ERROR"
	case ParseError:
		return "PARSE_ERROR"
	case IoError:
		return "IO_ERROR"
	default:
		return "DB_ERROR"
	}
}

// ExitCode returns the process exit code for errors of this kind. Every
// kind maps to 1; the empty-set case (exit 2) is not an error and is never
// represented by a Kind.
func (k Kind) ExitCode() int {
	return 1
}

// Error is the wrapped form of any failure that crosses a component
// boundary inside nit.
type Error struct {
	Kind    Kind
	Message string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Wrapped)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// New constructs an *Error with no wrapped cause.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an *Error carrying a wrapped lower-level cause. The
// result's Kind is always kind, even when err is itself an *Error.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Wrapped: err}
}

// As extracts the *Error from err, if any is present in its chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, else DbError
// as the conservative default for an unclassified failure.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return DbError
}

func NotFoundf(format string, args ...interface{}) *Error {
	return New(NotFound, format, args...)
}

func InvalidValuef(format string, args ...interface{}) *Error {
	return New(InvalidValue, format, args...)
}

func CycleDetectedf(format string, args ...interface{}) *Error {
	return New(CycleDetected, format, args...)
}

func NoDatabasef(format string, args ...interface{}) *Error {
	return New(NoDatabase, format, args...)
}

func DbErrorf(err error, op string) *Error {
	return Wrap(DbError, err, "%s", op)
}

func ParseErrorf(err error, op string) *Error {
	return Wrap(ParseError, err, "%s", op)
}

func IoErrorf(err error, op string) *Error {
	return Wrap(IoError, err, "%s", op)
}
