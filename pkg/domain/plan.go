package domain

import "time"

// Plan is an externally supplied, ordered work description. The runtime
// treats it as opaque data: steps are iterated, never interpreted.
type Plan struct {
	Goal       string             `json:"goal"`
	Steps      []PlanStep         `json:"steps"`
	Confidence map[string]float64 `json:"confidence,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}

// PlanStep is a single unit of work inside a plan.
type PlanStep struct {
	Action          string                 `json:"action"`
	Params          map[string]interface{} `json:"params,omitempty"`
	ExpectedOutcome string                 `json:"expected_outcome,omitempty"`
	Confidence      float64                `json:"confidence"`
}

// NewPlan creates a plan with the creation timestamp set.
func NewPlan(goal string, steps []PlanStep) *Plan {
	return &Plan{
		Goal:      goal,
		Steps:     steps,
		CreatedAt: time.Now(),
	}
}
