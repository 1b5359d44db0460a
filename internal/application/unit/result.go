package unit

import "time"

// Result is the immutable outcome of one execution. It is always fully
// populated: callers must check Success before reading Output, and
// ErrorMessage is set exactly when Success is false.
type Result[Out any] struct {
	Output        Out
	Success       bool
	ErrorMessage  string
	Kind          FailureKind
	Metrics       Metrics
	ExecutionTime time.Duration
	Metadata      map[string]interface{}
}

// NewSuccess builds a successful result.
func NewSuccess[Out any](output Out, metrics Metrics, elapsed time.Duration, metadata map[string]interface{}) Result[Out] {
	return Result[Out]{
		Output:        output,
		Success:       true,
		Metrics:       metrics,
		ExecutionTime: elapsed,
		Metadata:      metadata,
	}
}

// NewFailureResult builds a failed result from a classified failure.
func NewFailureResult[Out any](f *Failure, metrics Metrics, elapsed time.Duration, metadata map[string]interface{}) Result[Out] {
	msg := f.Message
	if msg == "" {
		msg = defaultErrorMessage
	}
	return Result[Out]{
		Success:       false,
		ErrorMessage:  msg,
		Kind:          f.Kind,
		Metrics:       metrics,
		ExecutionTime: elapsed,
		Metadata:      metadata,
	}
}

// Failure returns the result's failure, or nil on success.
func (r Result[Out]) Failure() *Failure {
	if r.Success {
		return nil
	}
	return &Failure{Kind: r.Kind, Message: r.ErrorMessage}
}

// Unwrap projects the result into the generic two-case shape preferred
// by callers that work with (value, error) pairs.
func (r Result[Out]) Unwrap() (Out, error) {
	if r.Success {
		return r.Output, nil
	}
	var zero Out
	return zero, r.Failure()
}
