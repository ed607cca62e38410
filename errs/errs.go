// Package errs defines the closed error taxonomy shared by the storage
// layer, the coordination engine and the HTTP handlers. Every mutation
// failure maps onto exactly one kind so the UI can react appropriately:
// a ShiftRequired rejection tells the cashier to open a drawer, an
// InvariantViolation tells the client to refresh, and so on.
package errs

import (
	"errors"
	"fmt"
)

// Kind sentinels. Match with errors.Is.
var (
	ErrPermissionDenied   = errors.New("permission denied")
	ErrShiftRequired      = errors.New("open shift required")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrValidation         = errors.New("validation failure")
	ErrTransport          = errors.New("transport failure")
	ErrNotFound           = errors.New("not found")
)

// Error carries the kind, the failing operation and an underlying cause.
type Error struct {
	Kind error  // one of the sentinels above
	Op   string // e.g. "engine.Pay"
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind.Error(), e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind.Error())
}

func (e *Error) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is lets errors.Is(err, ErrShiftRequired) succeed regardless of whether
// the cause chain or the kind matched.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// PermissionDenied builds a permission rejection for op.
func PermissionDenied(op string, err error) *Error {
	return &Error{Kind: ErrPermissionDenied, Op: op, Err: err}
}

// ShiftRequired builds a shift-gate rejection for op. Deliberately a
// distinct kind from PermissionDenied: the fix is opening a shift, not
// acquiring rights.
func ShiftRequired(op string) *Error {
	return &Error{Kind: ErrShiftRequired, Op: op}
}

// Invariant builds a cross-entity invariant rejection for op. Never
// auto-retried; the client must refresh its view first.
func Invariant(op string, err error) *Error {
	return &Error{Kind: ErrInvariantViolation, Op: op, Err: err}
}

// Validation builds a malformed-input rejection for op.
func Validation(op string, err error) *Error {
	return &Error{Kind: ErrValidation, Op: op, Err: err}
}

// Transport wraps a storage or subscription failure for op.
func Transport(op string, err error) *Error {
	return &Error{Kind: ErrTransport, Op: op, Err: err}
}

// NotFound wraps a missing-row lookup for op.
func NotFound(op string, err error) *Error {
	return &Error{Kind: ErrNotFound, Op: op, Err: err}
}
