package object

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every runtime failure produced by the object model, the
// builtins and both engines unwraps to exactly one of these, so callers
// distinguish causes with errors.Is.
var (
	ErrArity              = NewKind("arity", "wrong number of arguments")
	ErrType               = NewKind("type", "wrong argument type")
	ErrOperator           = NewKind("operator", "unsupported operator")
	ErrUnsupported        = NewKind("unsupported", "unsupported construct")
	ErrIdentifierNotFound = NewKind("identifier", "identifier not found")
	ErrNotCallable        = NewKind("not-callable", "not a function")
	ErrUnhashable         = NewKind("unhashable", "unhashable type")
	ErrDivisionByZero     = NewKind("division-by-zero", "division by zero")
)

// ErrorKind is a sentinel error carrying a short stable name for KindName.
// Packages outside object declare their own kinds with NewKind.
type ErrorKind struct {
	name string
	text string
}

// NewKind creates an error kind. name is lower case with hyphens, e.g.
// "stack-overflow"; text is the Error() string.
func NewKind(name, text string) *ErrorKind {
	return &ErrorKind{name: name, text: text}
}

func (k *ErrorKind) Error() string { return k.text }

// Name returns the short name of the kind.
func (k *ErrorKind) Name() string { return k.name }

// Error is the single failure value surfaced by a run. Message is the
// human-readable text shown to the user; Kind is one of the sentinel errors.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

// Unwrap returns the error kind.
func (e *Error) Unwrap() error { return e.Kind }

// Errorf builds an *Error of the given kind.
func Errorf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindName returns a short stable name for the kind of err, or "" when err
// is not a runtime error. Used on the wire by the evaluation server. Kinds
// not made with NewKind are named after their text.
func KindName(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Kind == nil {
		return ""
	}
	var k *ErrorKind
	if errors.As(e.Kind, &k) {
		return k.Name()
	}
	return strings.ReplaceAll(e.Kind.Error(), " ", "-")
}
