package config

import (
	"errors"
	"fmt"
)

// Kind classifies a configuration build failure.
type Kind int

const (
	// KindMissingRequired indicates a mandatory value is absent.
	KindMissingRequired Kind = iota + 1

	// KindInvalidFormat indicates a malformed value: a bad number, domain,
	// PEM file, or a disallowed enum string.
	KindInvalidFormat

	// KindCrossFieldConflict indicates two or more values that are
	// individually valid but mutually inconsistent.
	KindCrossFieldConflict

	// KindPersistenceFailure indicates the data directory or secret file
	// could not be created or written.
	KindPersistenceFailure
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindMissingRequired:
		return "missing required value"
	case KindInvalidFormat:
		return "invalid format"
	case KindCrossFieldConflict:
		return "cross-field conflict"
	case KindPersistenceFailure:
		return "persistence failure"
	default:
		return "unknown"
	}
}

// Error is a configuration build failure. It names the offending variable
// (when one exists) and carries an actionable message. Errors are never
// retried; the startup bootstrapper treats any Error as fatal.
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// Var is the environment variable at fault, empty for conflicts that
	// span several variables.
	Var string

	// Message is a human-readable description including remediation.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Var != "" && e.Err != nil:
		return fmt.Sprintf("config: %s: %s: %v", e.Var, e.Message, e.Err)
	case e.Var != "":
		return fmt.Sprintf("config: %s: %s", e.Var, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("config: %s: %v", e.Message, e.Err)
	default:
		return fmt.Sprintf("config: %s", e.Message)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind, so callers can
// match on taxonomy with errors.Is(err, &Error{Kind: KindInvalidFormat}).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Var == "" || t.Var == e.Var)
}

func missingf(name, format string, args ...any) error {
	return &Error{Kind: KindMissingRequired, Var: name, Message: fmt.Sprintf(format, args...)}
}

func invalidf(name, format string, args ...any) error {
	return &Error{Kind: KindInvalidFormat, Var: name, Message: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...any) error {
	return &Error{Kind: KindCrossFieldConflict, Message: fmt.Sprintf(format, args...)}
}

func persistf(err error, format string, args ...any) error {
	return &Error{Kind: KindPersistenceFailure, Message: fmt.Sprintf(format, args...), Err: err}
}
