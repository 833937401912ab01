// internal/ikoserr/errors.go
// Package ikoserr provides the finite error taxonomy used across the
// analyzer core (spec §7): transfer functions never unwind across the
// fixpoint iterator boundary, they set the current state to bottom or
// log a warning; only configuration/IO errors reach main.
package ikoserr

import (
	"errors"
	"fmt"
)

// Kind is the finite set of error categories the core distinguishes.
type Kind string

const (
	InvalidInput      Kind = "InvalidInput"
	Overflow          Kind = "Overflow"
	DivisionByZero    Kind = "DivisionByZero"
	UnexpectedIR      Kind = "UnexpectedIr"
	InternalInvariant Kind = "InternalInvariant"
)

// Location pinpoints where an error occurred in terms the analyzer deals
// in: a function name and a statement id, not a source file/line (the AR
// is the only coordinate system the core has).
type Location struct {
	Function    string
	StatementID int
}

func (l Location) String() string {
	if l.Function == "" {
		return ""
	}
	if l.StatementID == 0 {
		return l.Function
	}
	return fmt.Sprintf("%s#%d", l.Function, l.StatementID)
}

// Error is the concrete error type returned by core APIs. It carries a Kind
// so callers can branch with errors.Is/errors.As, plus enough context to
// explain itself without a source file attached.
type Error struct {
	Kind     Kind
	Message  string
	Location Location
	Wrapped  error
}

func (e *Error) Error() string {
	loc := e.Location.String()
	if loc == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s (at %s)", e.Kind, e.Message, loc)
}

func (e *Error) Unwrap() error { return e.Wrapped }

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, ikoserr.New(ikoserr.Overflow, "")).
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

// New builds a bare error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf builds a bare error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// At attaches a Location to a copy of the error.
func (e *Error) At(function string, statementID int) *Error {
	cp := *e
	cp.Location = Location{Function: function, StatementID: statementID}
	return &cp
}

// Wrap attaches an underlying cause, preserved by Unwrap.
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.Wrapped = cause
	return &cp
}

// IsKind reports whether err carries the given Kind, anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
