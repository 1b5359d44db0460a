package domain

import "time"

// EventType identifies a lifecycle event published by the schedulers.
type EventType string

const (
	EventTypePlanStarted   EventType = "plan.started"
	EventTypePlanCompleted EventType = "plan.completed"
	EventTypePlanFailed    EventType = "plan.failed"
	EventTypeStepStarted   EventType = "step.started"
	EventTypeStepCompleted EventType = "step.completed"
	EventTypeStepFailed    EventType = "step.failed"
)

// Event is a plan/step lifecycle notification. OperationID correlates all
// events of one top-level execution.
type Event struct {
	ID          string                 `json:"id"`
	Type        EventType              `json:"type"`
	OperationID string                 `json:"operation_id"`
	StepIndex   int                    `json:"step_index,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
	Data        map[string]interface{} `json:"data,omitempty"`
}
