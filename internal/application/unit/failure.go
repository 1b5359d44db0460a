package unit

import (
	"context"
	"errors"
	"fmt"
)

// FailureKind classifies why an execution failed.
type FailureKind int

const (
	// FailureTransformation indicates the wrapped core logic returned an
	// error or panicked.
	FailureTransformation FailureKind = iota
	// FailureTimeout indicates the configured execution timeout expired.
	FailureTimeout
	// FailureCancelled indicates the cancellation signal was raised
	// before the transformation started.
	FailureCancelled
	// FailureComposition indicates a failure surfaced unchanged from an
	// inner unit inside a combinator.
	FailureComposition
)

// String returns a human-readable kind name.
func (k FailureKind) String() string {
	switch k {
	case FailureTransformation:
		return "transformation_failure"
	case FailureTimeout:
		return "timeout"
	case FailureCancelled:
		return "cancelled"
	case FailureComposition:
		return "composition_failure"
	default:
		return "unknown"
	}
}

// defaultErrorMessage replaces a missing message on a failed result so
// callers never see a blank error.
const defaultErrorMessage = "Operation failed"

// Failure is the tagged error the runtime uses internally. Combinators
// operate on it directly and never rely on catching panics from inner
// units.
type Failure struct {
	Kind    FailureKind
	Message string
}

// NewFailure creates a failure, normalizing an empty message.
func NewFailure(kind FailureKind, message string) *Failure {
	if message == "" {
		message = defaultErrorMessage
	}
	return &Failure{Kind: kind, Message: message}
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Forwarded returns the failure as a combinator surfaces it: the message
// stays verbatim, Cancelled and Timeout keep their kind, everything else
// becomes a composition failure.
func (f *Failure) Forwarded() *Failure {
	switch f.Kind {
	case FailureCancelled, FailureTimeout:
		return f
	default:
		return &Failure{Kind: FailureComposition, Message: f.Message}
	}
}

// classify converts an arbitrary error returned by a transform into a
// Failure at the execution boundary.
func classify(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	if errors.Is(err, context.Canceled) {
		return NewFailure(FailureCancelled, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewFailure(FailureTimeout, err.Error())
	}
	return NewFailure(FailureTransformation, err.Error())
}
