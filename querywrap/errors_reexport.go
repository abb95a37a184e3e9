package querywrap

import qerrors "github.com/nonibytes/querywrap/querywrap/errors"

// Re-export error types so callers need a single import
type Error = qerrors.Error
type ErrorKind = qerrors.ErrorKind

const (
	ErrIO           = qerrors.ErrIO
	ErrSQL          = qerrors.ErrSQL
	ErrSchema       = qerrors.ErrSchema
	ErrDecode       = qerrors.ErrDecode
	ErrUnknownField = qerrors.ErrUnknownField
	ErrTypeMismatch = qerrors.ErrTypeMismatch
	ErrInvalidParam = qerrors.ErrInvalidParam
	ErrNotFound     = qerrors.ErrNotFound
	ErrConfig       = qerrors.ErrConfig
	ErrBackend      = qerrors.ErrBackend
)

func New(kind ErrorKind, msg string) *Error               { return qerrors.New(kind, msg) }
func Wrap(kind ErrorKind, msg string, cause error) *Error { return qerrors.Wrap(kind, msg, cause) }
func IsKind(err error, kind ErrorKind) bool               { return qerrors.IsKind(err, kind) }
