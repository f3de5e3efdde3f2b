package ragError

import (
	"errors"
	"fmt"
)

// Kind tags a failure so callers can branch on it instead of
// string matching. The transports map kinds to status codes.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindExtraction    Kind = "extraction"
	KindEmbedding     Kind = "embedding"
	KindIndex         Kind = "index"
	KindConfiguration Kind = "configuration"
	KindUnknown       Kind = "unknown"
)

type Error struct {
	Kind Kind
	Op   string //the operation that failed, e.g. "qdrantDB.Query"
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error from a plain message.
func New(kind Kind, op string, msg string) error {
	return &Error{Kind: kind, Op: op, Err: errors.New(msg)}
}

// Newf is New with formatting.
func Newf(kind Kind, op string, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Wrap tags an underlying error with a kind and operation.
// Wrapping nil returns nil so call sites can wrap unconditionally.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf walks the error chain and returns the first tagged kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
