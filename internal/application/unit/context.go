package unit

import (
	"context"

	"github.com/google/uuid"
)

// ExecutionContext is the immutable per-invocation carrier of a
// correlation id, a metadata map and a cooperative cancellation signal.
// It is created once per top-level call and threaded unchanged through
// every composed step, so all executions of one pipeline call share the
// same operation id.
//
// The zero value is valid: Execute normalizes it into a fresh context.
type ExecutionContext struct {
	operationID string
	metadata    map[string]interface{}
	ctx         context.Context
}

// NewContext creates an execution context with a fresh operation id.
// The supplied context.Context provides the cancellation signal.
func NewContext(ctx context.Context) ExecutionContext {
	if ctx == nil {
		ctx = context.Background()
	}
	return ExecutionContext{
		operationID: uuid.New().String(),
		ctx:         ctx,
	}
}

// Background returns an execution context that is never cancelled.
func Background() ExecutionContext {
	return NewContext(context.Background())
}

// OperationID returns the correlation id for this top-level invocation.
func (e ExecutionContext) OperationID() string {
	return e.operationID
}

// Metadata returns the value stored under key, if any.
func (e ExecutionContext) Metadata(key string) (interface{}, bool) {
	v, ok := e.metadata[key]
	return v, ok
}

// MetadataMap returns a copy of the metadata map.
func (e ExecutionContext) MetadataMap() map[string]interface{} {
	out := make(map[string]interface{}, len(e.metadata))
	for k, v := range e.metadata {
		out[k] = v
	}
	return out
}

// WithMetadata returns a new context with key set to value. The receiver
// is left untouched, which is what makes it safe to hand the same context
// to concurrently running parallel branches.
func (e ExecutionContext) WithMetadata(key string, value interface{}) ExecutionContext {
	md := make(map[string]interface{}, len(e.metadata)+1)
	for k, v := range e.metadata {
		md[k] = v
	}
	md[key] = value
	return ExecutionContext{
		operationID: e.operationID,
		metadata:    md,
		ctx:         e.ctx,
	}
}

// Context exposes the underlying cancellation signal.
func (e ExecutionContext) Context() context.Context {
	if e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

// Cancelled reports whether the cancellation signal has been raised.
func (e ExecutionContext) Cancelled() bool {
	return e.Context().Err() != nil
}

// ensure returns the context itself when initialized, or a fresh one.
func (e ExecutionContext) ensure() ExecutionContext {
	if e.operationID == "" {
		return Background()
	}
	return e
}
