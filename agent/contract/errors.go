package contract

import (
	"context"
	"errors"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrExternalFailure = errors.New("external collaborator failed")
	ErrInternalFault   = errors.New("internal fault")
)

// FailureKind classifies a failed operation.
type FailureKind string

const (
	KindInvalidInput    FailureKind = "invalid_input"
	KindNotFound        FailureKind = "not_found"
	KindExternalFailure FailureKind = "external_failure"
	KindInternalFault   FailureKind = "internal_fault"
)

// KindOf maps an error chain onto a FailureKind. Unclassified errors are
// internal faults.
func KindOf(err error) FailureKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrExternalFailure),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return KindExternalFailure
	default:
		return KindInternalFault
	}
}
