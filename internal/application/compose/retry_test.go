package compose

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftlabs/weft/internal/application/unit"
)

func flakyAfter(failures int) (unit.Unit[int, int], *int32) {
	var calls int32
	u := unit.New("flaky", func(ctx unit.ExecutionContext, in int) (int, error) {
		n := atomic.AddInt32(&calls, 1)
		if int(n) <= failures {
			return 0, fmt.Errorf("attempt %d failed", n)
		}
		return in, nil
	})
	return u, &calls
}

func quickRetry(maxRetries int) unit.RetryConfig {
	return unit.RetryConfig{
		MaxRetries:        maxRetries,
		InitialDelay:      time.Millisecond,
		MaxDelay:          5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestRetrySucceedsOnThirdAttempt(t *testing.T) {
	u, calls := flakyAfter(2)

	res := Retry(u, quickRetry(5)).Execute(unit.Background(), 9)

	require.True(t, res.Success)
	assert.Equal(t, 9, res.Output)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls), "success short-circuits remaining attempts")
}

func TestRetryExhaustionReportsLastFailure(t *testing.T) {
	u, calls := flakyAfter(100)

	res := Retry(u, quickRetry(2)).Execute(unit.Background(), 9)

	require.False(t, res.Success)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls), "invocations are 1 + MaxRetries")
	assert.Equal(t, "attempt 3 failed", res.ErrorMessage)
}

func TestRetryZeroRetriesRunsOnce(t *testing.T) {
	u, calls := flakyAfter(100)

	res := Retry(u, quickRetry(0)).Execute(unit.Background(), 1)

	require.False(t, res.Success)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestRetryFirstAttemptSuccessHasNoDelay(t *testing.T) {
	u := ints("ok", func(n int) int { return n })
	cfg := unit.RetryConfig{MaxRetries: 3, InitialDelay: time.Second, BackoffMultiplier: 2.0}

	start := time.Now()
	res := Retry(u, cfg).Execute(unit.Background(), 1)

	require.True(t, res.Success)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestRetryStopsOnCancellation(t *testing.T) {
	inner, cancel := context.WithCancel(context.Background())

	var calls int32
	u := unit.New("cancel-me", func(ctx unit.ExecutionContext, in int) (int, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			cancel()
		}
		return 0, errors.New("still failing")
	})

	res := Retry(u, quickRetry(10)).Execute(unit.NewContext(inner), 1)

	require.False(t, res.Success)
	assert.Equal(t, unit.FailureCancelled, res.Kind)
	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(2),
		"cancellation must stop the re-attempt loop")
}
