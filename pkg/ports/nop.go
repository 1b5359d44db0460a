package ports

import "time"

// NopMetrics is a MetricsCollector that discards everything. Useful in
// tests and in wiring paths where metrics are disabled.
type NopMetrics struct{}

func (NopMetrics) RecordUnitExecution(string, string, time.Duration) {}
func (NopMetrics) RecordPlanExecution(string, time.Duration)         {}
func (NopMetrics) RecordStepExecution(string, time.Duration)         {}
func (NopMetrics) SetRegisteredAgents(int)                           {}
func (NopMetrics) SetAvailableAgents(int)                            {}
func (NopMetrics) SetUnitHealth(string, bool)                        {}
