// Package fault defines the typed error used across the bridge.
//
// Handlers return a *fault.Error; the RPC layer forwards only the display
// message to the UI. The Kind never crosses the wire in the current
// contract.
package fault

import "fmt"

// Kind classifies a bridge failure.
type Kind int

const (
	// NotFound: a path is missing or cannot be canonicalized.
	NotFound Kind = iota
	// Decode: envelope alphabet violation or declared/actual size mismatch.
	Decode
	// IO: read, write or copy failure.
	IO
	// UnknownMethod: no dispatch table entry for the requested method.
	UnknownMethod
	// Argument: missing or malformed request parameter.
	Argument
	// External: dialog, updater or link-opener failure.
	External
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case Decode:
		return "decode"
	case IO:
		return "io"
	case UnknownMethod:
		return "unknown_method"
	case Argument:
		return "argument"
	case External:
		return "external"
	}
	return "unknown"
}

// Error is a bridge failure with a classification and a display message.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an error with the given kind and message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error with the given kind and message wrapping a cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf returns the Kind of err if it is a *Error, or External otherwise.
func KindOf(err error) Kind {
	if fe, ok := err.(*Error); ok {
		return fe.Kind
	}
	return External
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	fe, ok := err.(*Error)
	return ok && fe.Kind == kind
}
