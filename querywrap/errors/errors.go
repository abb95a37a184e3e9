package errors

import (
	stderrors "errors"
	"fmt"
)

type ErrorKind string

const (
	ErrIO           ErrorKind = "io"
	ErrSQL          ErrorKind = "sql"
	ErrSchema       ErrorKind = "schema"
	ErrDecode       ErrorKind = "decode"
	ErrUnknownField ErrorKind = "unknown_field"
	ErrTypeMismatch ErrorKind = "type_mismatch"
	ErrInvalidParam ErrorKind = "invalid_param"
	ErrNotFound     ErrorKind = "not_found"
	ErrConfig       ErrorKind = "config"
	ErrBackend      ErrorKind = "backend"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Field   string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	base := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Field != "" {
		base = fmt.Sprintf("%s (field=%s)", base, e.Field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrorKind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

func Wrap(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

func SchemaError(msg string) *Error {
	return &Error{Kind: ErrSchema, Message: msg}
}

func UnknownFieldError(field string) *Error {
	return &Error{Kind: ErrUnknownField, Message: "unknown field", Field: field}
}

func TypeMismatch(field, msg string) *Error {
	return &Error{Kind: ErrTypeMismatch, Field: field, Message: msg}
}

func InvalidParam(field, msg string) *Error {
	return &Error{Kind: ErrInvalidParam, Field: field, Message: msg}
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
