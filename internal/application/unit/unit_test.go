package unit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteSuccess(t *testing.T) {
	u := New("double", func(ctx ExecutionContext, in int) (int, error) {
		return in * 2, nil
	})

	res := u.Execute(Background(), 21)

	require.True(t, res.Success)
	assert.Equal(t, 42, res.Output)
	assert.Empty(t, res.ErrorMessage)
	assert.Equal(t, int64(1), res.Metrics.TotalExecutions)
	assert.Equal(t, "double", res.Metadata["unit"])
}

func TestExecuteError(t *testing.T) {
	u := New("boom", func(ctx ExecutionContext, in string) (string, error) {
		return "", errors.New("upstream unavailable")
	})

	res := u.Execute(Background(), "x")

	require.False(t, res.Success)
	assert.Equal(t, "upstream unavailable", res.ErrorMessage)
	assert.Equal(t, FailureTransformation, res.Kind)
	assert.Equal(t, int64(1), res.Metrics.FailedExecutions)
}

func TestExecuteRecoversPanic(t *testing.T) {
	u := New("panicky", func(ctx ExecutionContext, in int) (int, error) {
		panic("index out of range")
	})

	var res Result[int]
	require.NotPanics(t, func() {
		res = u.Execute(Background(), 1)
	})

	require.False(t, res.Success)
	assert.Equal(t, FailureTransformation, res.Kind)
	assert.Contains(t, res.ErrorMessage, "index out of range")
}

func TestExecuteEmptyErrorMessageGetsDefault(t *testing.T) {
	u := New("silent", func(ctx ExecutionContext, in int) (int, error) {
		return 0, errors.New("")
	})

	res := u.Execute(Background(), 1)

	require.False(t, res.Success)
	assert.Equal(t, "Operation failed", res.ErrorMessage)
}

func TestExecuteNormalizesZeroContext(t *testing.T) {
	var seen string
	u := New("probe", func(ctx ExecutionContext, in int) (int, error) {
		seen = ctx.OperationID()
		return in, nil
	})

	res := u.Execute(ExecutionContext{}, 7)

	require.True(t, res.Success)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, res.Metadata["operation_id"])
}

func TestExecuteTimeout(t *testing.T) {
	u := New("slow", func(ctx ExecutionContext, in int) (int, error) {
		time.Sleep(200 * time.Millisecond)
		return in, nil
	}, WithTimeout(20*time.Millisecond))

	res := u.Execute(Background(), 1)

	require.False(t, res.Success)
	assert.Equal(t, FailureTimeout, res.Kind)
	assert.Contains(t, res.ErrorMessage, "exceeded")
}

func TestExecuteCancelledBeforeStart(t *testing.T) {
	inner, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	u := New("never", func(ctx ExecutionContext, in int) (int, error) {
		ran = true
		return in, nil
	})

	res := u.Execute(NewContext(inner), 1)

	require.False(t, res.Success)
	assert.Equal(t, FailureCancelled, res.Kind)
	assert.False(t, ran, "transform must not run after cancellation")
}

func TestExecuteCancelledMidFlight(t *testing.T) {
	inner, cancel := context.WithCancel(context.Background())

	u := New("interruptible", func(ctx ExecutionContext, in int) (int, error) {
		time.Sleep(500 * time.Millisecond)
		return in, nil
	}, WithTimeout(5*time.Second))

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	res := u.Execute(NewContext(inner), 1)

	require.False(t, res.Success)
	assert.Equal(t, FailureCancelled, res.Kind)
}

func TestConcurrentExecutionsLoseNoUpdates(t *testing.T) {
	u := New("contended", func(ctx ExecutionContext, in int) (int, error) {
		if in%2 == 1 {
			return 0, errors.New("odd input")
		}
		return in, nil
	})

	const n = 200
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			u.Execute(Background(), i)
		}(i)
	}
	wg.Wait()

	m := u.Metrics()
	assert.Equal(t, int64(n), m.TotalExecutions)
	assert.Equal(t, int64(n/2), m.SuccessfulExecutions)
	assert.Equal(t, int64(n/2), m.FailedExecutions)
}

func TestHealthStates(t *testing.T) {
	u := New("svc", func(ctx ExecutionContext, in bool) (bool, error) {
		if !in {
			return false, errors.New("nope")
		}
		return true, nil
	})

	h := u.Health()
	assert.Equal(t, "svc", h["name"])
	assert.Equal(t, "idle", h["status"])
	assert.Equal(t, int64(0), h["total_executions"])
	assert.Equal(t, 0.0, h["success_rate"])

	for i := 0; i < 10; i++ {
		u.Execute(Background(), true)
	}
	assert.Equal(t, "healthy", u.Health()["status"])

	// Push the success rate below the healthy threshold.
	for i := 0; i < 10; i++ {
		u.Execute(Background(), false)
	}
	h = u.Health()
	assert.Equal(t, "degraded", h["status"])
	assert.Equal(t, int64(20), h["total_executions"])
}

func TestMetricsDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MetricsEnabled = false

	u := New("untracked", func(ctx ExecutionContext, in int) (int, error) {
		return in, nil
	}, WithConfig(cfg))

	u.Execute(Background(), 1)
	u.Execute(Background(), 2)

	assert.Equal(t, int64(0), u.Metrics().TotalExecutions)
}

type recordingCollector struct {
	mu      sync.Mutex
	entries []string
}

func (c *recordingCollector) RecordUnitExecution(name, status string, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, name+"/"+status)
}
func (c *recordingCollector) RecordPlanExecution(string, time.Duration) {}
func (c *recordingCollector) RecordStepExecution(string, time.Duration) {}
func (c *recordingCollector) SetRegisteredAgents(int)                   {}
func (c *recordingCollector) SetAvailableAgents(int)                    {}
func (c *recordingCollector) SetUnitHealth(string, bool)                {}

func TestCollectorMirroring(t *testing.T) {
	col := &recordingCollector{}
	u := New("mirrored", func(ctx ExecutionContext, in int) (int, error) {
		if in < 0 {
			return 0, errors.New("negative")
		}
		return in, nil
	}, WithCollector(col))

	u.Execute(Background(), 1)
	u.Execute(Background(), -1)

	require.Len(t, col.entries, 2)
	assert.Equal(t, "mirrored/success", col.entries[0])
	assert.Equal(t, "mirrored/transformation_failure", col.entries[1])
}
