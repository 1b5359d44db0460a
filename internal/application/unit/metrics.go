package unit

import "time"

// Metrics is an immutable snapshot of one unit's execution counters and
// running latency. Updates produce a new snapshot; the receiver is never
// mutated, which lets readers share a snapshot without locking.
//
// Invariant: TotalExecutions == SuccessfulExecutions + FailedExecutions.
type Metrics struct {
	Name                 string
	TotalExecutions      int64
	SuccessfulExecutions int64
	FailedExecutions     int64
	AverageLatency       time.Duration
	Custom               map[string]float64
}

// NewMetrics creates an empty snapshot for the named unit.
func NewMetrics(name string) Metrics {
	return Metrics{Name: name}
}

// RecordExecution returns a new snapshot with one execution folded in.
func (m Metrics) RecordExecution(latency time.Duration, success bool) Metrics {
	next := m
	next.Custom = copyCustom(m.Custom)
	next.TotalExecutions++
	if success {
		next.SuccessfulExecutions++
	} else {
		next.FailedExecutions++
	}
	// Running average over all executions so far.
	prev := time.Duration(m.TotalExecutions) * m.AverageLatency
	next.AverageLatency = (prev + latency) / time.Duration(next.TotalExecutions)
	return next
}

// WithCustom returns a new snapshot with a custom metric set.
func (m Metrics) WithCustom(key string, value float64) Metrics {
	next := m
	next.Custom = copyCustom(m.Custom)
	next.Custom[key] = value
	return next
}

// SuccessRate returns the fraction of successful executions, or zero
// when nothing has run yet.
func (m Metrics) SuccessRate() float64 {
	if m.TotalExecutions == 0 {
		return 0
	}
	return float64(m.SuccessfulExecutions) / float64(m.TotalExecutions)
}

func copyCustom(src map[string]float64) map[string]float64 {
	dst := make(map[string]float64, len(src)+1)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
