package unit

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/weftlabs/weft/pkg/ports"
	"go.uber.org/zap"
)

// Transform is the core asynchronous computation a unit wraps. It may
// return an error or panic; the unit boundary converts both into a
// failed Result.
type Transform[In, Out any] func(ctx ExecutionContext, in In) (Out, error)

// Unit is the base contract: a named transformation with tracked
// execution metrics and a health snapshot. Every combinator in the
// compose package returns a value satisfying this interface, so units
// are closed under composition.
type Unit[In, Out any] interface {
	// Name returns the unit's name.
	Name() string
	// Execute runs the transformation. It never panics and never
	// returns a partially populated result. A zero-value context is
	// replaced by a fresh one.
	Execute(ctx ExecutionContext, in In) Result[Out]
	// Metrics returns the current metrics snapshot.
	Metrics() Metrics
	// Health returns the fixed-shape observability map described in
	// the package documentation: name, status, total_executions and
	// success_rate.
	Health() map[string]interface{}
}

// healthyRateThreshold separates healthy from degraded once a unit has
// executed at least once.
const healthyRateThreshold = 0.9

// Option customizes a unit built with New.
type Option func(*options)

type options struct {
	cfg       Config
	logger    *zap.Logger
	collector ports.MetricsCollector
}

// WithConfig replaces the unit's configuration.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithTimeout bounds each execution of the unit.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.cfg.Timeout = d }
}

// WithLogger attaches a logger for tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
		o.cfg.TracingEnabled = true
	}
}

// WithCollector mirrors every execution into an external metrics
// collector in addition to the unit's own snapshot.
func WithCollector(c ports.MetricsCollector) Option {
	return func(o *options) { o.collector = c }
}

// New wraps fn into a Unit with metrics tracking and failure conversion.
func New[In, Out any](name string, fn Transform[In, Out], opts ...Option) Unit[In, Out] {
	o := options{cfg: DefaultConfig(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	u := &tracked[In, Out]{
		name:      name,
		fn:        fn,
		cfg:       o.cfg,
		logger:    o.logger,
		collector: o.collector,
	}
	initial := NewMetrics(name)
	u.metrics.Store(&initial)
	return u
}

// tracked is the base implementation owning the atomic metrics slot.
type tracked[In, Out any] struct {
	name      string
	fn        Transform[In, Out]
	cfg       Config
	logger    *zap.Logger
	collector ports.MetricsCollector
	metrics   atomic.Pointer[Metrics]
}

func (u *tracked[In, Out]) Name() string { return u.name }

func (u *tracked[In, Out]) Execute(ctx ExecutionContext, in In) Result[Out] {
	ctx = ctx.ensure()
	start := time.Now()

	if ctx.Cancelled() {
		return u.finish(ctx, start, *new(Out), NewFailure(FailureCancelled, "execution cancelled before start"))
	}

	out, err := u.invoke(ctx, in)
	if err != nil {
		return u.finish(ctx, start, *new(Out), classify(err))
	}
	return u.finish(ctx, start, out, nil)
}

// invoke runs the transform with panic recovery and the configured
// timeout. An expired transform keeps running in its goroutine until it
// returns on its own; its result is discarded.
func (u *tracked[In, Out]) invoke(ctx ExecutionContext, in In) (out Out, err error) {
	if u.cfg.Timeout <= 0 {
		return u.call(ctx, in)
	}

	type outcome struct {
		out Out
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		o, e := u.call(ctx, in)
		ch <- outcome{out: o, err: e}
	}()

	timer := time.NewTimer(u.cfg.Timeout)
	defer timer.Stop()

	select {
	case o := <-ch:
		return o.out, o.err
	case <-timer.C:
		return out, NewFailure(FailureTimeout, fmt.Sprintf("execution exceeded %s", u.cfg.Timeout))
	case <-ctx.Context().Done():
		return out, NewFailure(FailureCancelled, "execution cancelled")
	}
}

func (u *tracked[In, Out]) call(ctx ExecutionContext, in In) (out Out, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewFailure(FailureTransformation, fmt.Sprint(r))
		}
	}()
	return u.fn(ctx, in)
}

// finish records metrics and assembles the result.
func (u *tracked[In, Out]) finish(ctx ExecutionContext, start time.Time, out Out, f *Failure) Result[Out] {
	elapsed := time.Since(start)
	snapshot := u.record(elapsed, f == nil)

	if u.collector != nil {
		status := "success"
		if f != nil {
			status = f.Kind.String()
		}
		u.collector.RecordUnitExecution(u.name, status, elapsed)
	}

	metadata := map[string]interface{}{
		"operation_id": ctx.OperationID(),
		"unit":         u.name,
	}

	if u.cfg.TracingEnabled {
		if f == nil {
			u.logger.Debug("unit executed",
				zap.String("unit", u.name),
				zap.String("operation_id", ctx.OperationID()),
				zap.Duration("elapsed", elapsed))
		} else {
			u.logger.Debug("unit failed",
				zap.String("unit", u.name),
				zap.String("operation_id", ctx.OperationID()),
				zap.String("kind", f.Kind.String()),
				zap.String("message", f.Message),
				zap.Duration("elapsed", elapsed))
		}
	}

	if f == nil {
		return NewSuccess(out, snapshot, elapsed, metadata)
	}
	return NewFailureResult[Out](f, snapshot, elapsed, metadata)
}

// record atomically replaces the metrics snapshot. Concurrent callers
// race through a compare-and-swap loop so no update is ever lost and
// readers never observe a torn snapshot.
func (u *tracked[In, Out]) record(latency time.Duration, success bool) Metrics {
	if !u.cfg.MetricsEnabled {
		return *u.metrics.Load()
	}
	for {
		current := u.metrics.Load()
		next := current.RecordExecution(latency, success)
		if u.metrics.CompareAndSwap(current, &next) {
			return next
		}
	}
}

func (u *tracked[In, Out]) Metrics() Metrics {
	return *u.metrics.Load()
}

func (u *tracked[In, Out]) Health() map[string]interface{} {
	m := u.Metrics()
	status := "idle"
	if m.TotalExecutions > 0 {
		if m.SuccessRate() >= healthyRateThreshold {
			status = "healthy"
		} else {
			status = "degraded"
		}
	}
	return map[string]interface{}{
		"name":             u.name,
		"status":           status,
		"total_executions": m.TotalExecutions,
		"success_rate":     m.SuccessRate(),
	}
}
