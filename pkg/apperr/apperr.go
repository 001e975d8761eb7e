// Package apperr defines the closed set of error kinds the API can surface.
//
// Every failure that crosses a service boundary is wrapped in an *Error
// carrying one of the kinds below. Handlers match by kind, never by the
// concrete type of the underlying cause:
//
//	if apperr.IsKind(err, apperr.NotFound) { ... }
package apperr

import (
	"errors"
	"fmt"
)

// Kind enumerates the failure categories.
type Kind int

const (
	// Validation — missing or invalid input (HTTP 400).
	Validation Kind = iota
	// Unauthenticated — no credential presented (HTTP 401).
	Unauthenticated
	// InvalidToken — credential present but bad or expired (HTTP 403).
	InvalidToken
	// NotFound — missing resource, or a resource owned by someone else (HTTP 404).
	NotFound
	// Conflict — uniqueness violation such as duplicate email (HTTP 409).
	Conflict
	// Upstream — a database or asset-store call failed (HTTP 500).
	Upstream
	// AssetCleanup — best-effort rollback of stored assets failed. Logged
	// for operators; does not fail the primary operation once committed.
	AssetCleanup
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Unauthenticated:
		return "unauthenticated"
	case InvalidToken:
		return "invalid_token"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case Upstream:
		return "upstream"
	case AssetCleanup:
		return "asset_cleanup"
	default:
		return "unknown"
	}
}

// Error is a kinded error with an operator-facing message and an optional
// wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an *Error with no underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an *Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying cause.
// Returns nil when err is nil.
func Wrap(kind Kind, message string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or (Upstream, false) when err carries no
// kind. Unclassified failures are treated as upstream faults.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return Upstream, false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
