package compose

import (
	"fmt"
	"time"

	"github.com/weftlabs/weft/internal/application/unit"
)

// Retry re-invokes u on failure, up to cfg.MaxRetries additional times.
// The first success short-circuits further attempts. When every attempt
// fails, the composite reports the last attempt's failure, and the total
// invocation count is 1 + MaxRetries. Delays between attempts follow the
// exponential-with-cap policy of unit.RetryConfig and respect the
// cancellation signal.
func Retry[A, B any](u unit.Unit[A, B], cfg unit.RetryConfig) unit.Unit[A, B] {
	name := fmt.Sprintf("retry(%s)", u.Name())
	return unit.New(name, func(ctx unit.ExecutionContext, in A) (B, error) {
		var zero B
		var last *unit.Failure
		for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
			if attempt > 0 {
				if err := pause(ctx, cfg.DelayFor(attempt-1)); err != nil {
					return zero, err
				}
			}
			res := u.Execute(ctx, in)
			if res.Success {
				return res.Output, nil
			}
			last = res.Failure().Forwarded()
			if last.Kind == unit.FailureCancelled {
				break
			}
		}
		return zero, last
	})
}

// pause waits for the backoff delay unless the cancellation signal is
// raised first.
func pause(ctx unit.ExecutionContext, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Context().Done():
		return unit.NewFailure(unit.FailureCancelled, "retry cancelled during backoff")
	}
}
