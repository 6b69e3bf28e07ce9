package service

import (
	"errors"
	"fmt"
)

// Kind classifies expected operation failures.
type Kind int

const (
	// KindInvalidInput marks malformed or out-of-range arguments.
	// Caller error; never retried automatically.
	KindInvalidInput Kind = iota + 1

	// KindNotFound marks an unresolvable account or rule reference.
	KindNotFound

	// KindUpstream marks a record store failure, possibly transient.
	// Retrying is the caller's concern.
	KindUpstream
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream_failure"
	}
	return "unknown"
}

// Error is a classified operation failure. Services return *Error for every
// expected failure mode; anything else escaping a service is a genuine bug
// the transport layer maps to an internal error.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalidInputf(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func upstream(message string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

// KindOf returns the failure kind of err, or 0 for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
