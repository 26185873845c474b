// Package routeerr defines a typed error carrying a Kind a caller can
// branch on with errors.As rather than string-matching a message. The
// routectl commands return it for unknown edges and unreachable routes;
// the library packages return plain wrapped errors.
package routeerr

import (
	"errors"
	"fmt"
)

// Kind classifies what went wrong. QueryNotReachable is the one kind the
// query engine treats as a normal unsuccessful result rather than a
// fatal failure; every other kind aborts the calling phase or request.
type Kind int

const (
	IoError Kind = iota
	SchemaError
	ConfigError
	GraphError
	OutOfMemory
	QueryNotReachable
	UnknownDataset
	UnknownEdge
)

func (k Kind) String() string {
	switch k {
	case IoError:
		return "IoError"
	case SchemaError:
		return "SchemaError"
	case ConfigError:
		return "ConfigError"
	case GraphError:
		return "GraphError"
	case OutOfMemory:
		return "OutOfMemory"
	case QueryNotReachable:
		return "QueryNotReachable"
	case UnknownDataset:
		return "UnknownDataset"
	case UnknownEdge:
		return "UnknownEdge"
	default:
		return "UnknownKind"
	}
}

// Error is the module's single error type: a Kind plus an optional
// wrapped cause and message. Callers branch on Kind via errors.As, and
// Unwrap exposes the cause to errors.Is/errors.As chains beneath it.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error around an existing cause, preserving it for
// errors.Is/errors.As.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Is reports whether err is a *Error of kind k.
func Is(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}
