package schema

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so adapters can map it to an exit code or an
// HTTP status without parsing messages.
type Kind string

const (
	KindInputNotFound      Kind = "input_not_found"
	KindInvalidInput       Kind = "invalid_input"
	KindSchemaShape        Kind = "schema_shape"
	KindUnsupportedDialect Kind = "unsupported_dialect"
	KindRender             Kind = "render"
)

// Error is the single failure value returned by the loader, the dialect
// registry and the renderer.
type Error struct {
	Kind Kind
	Op   string // e.g. "metadata.load", "dialect.lookup"
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	if e.Op == "" {
		return fmt.Sprintf("%s: %s", e.Kind, msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds an *Error with a formatted message.
func Errorf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches kind and op to err. It returns nil when err is nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if there
// is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
