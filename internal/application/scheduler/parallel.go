package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/weftlabs/weft/internal/application/unit"
	"github.com/weftlabs/weft/pkg/domain"
	"github.com/weftlabs/weft/pkg/ports"
	"go.uber.org/zap"
)

// Event topics published by the schedulers.
const (
	TopicPlanEvents = "plan.events"
	TopicStepEvents = "step.events"
)

// StepRunner executes a single plan step. The index matches the step's
// position in the plan.
type StepRunner func(ctx unit.ExecutionContext, index int, step domain.PlanStep) unit.Result[interface{}]

// PlanResult aggregates the outcome of executing every step of a plan.
// StepResults preserves plan order; Success is the logical AND of every
// step's success.
type PlanResult struct {
	OperationID      string
	Success          bool
	StepResults      []unit.Result[interface{}]
	CombinedOutput   map[string]interface{}
	Duration         time.Duration
	EstimatedSpeedup float64
	Metadata         map[string]interface{}
}

// ParallelExecutor runs a plan's steps concurrently, trusting the caller
// that the steps are independent.
type ParallelExecutor struct {
	eventBus ports.EventBus
	metrics  ports.MetricsCollector
	logger   *zap.Logger
}

// NewParallelExecutor creates a parallel executor.
func NewParallelExecutor(eventBus ports.EventBus, metrics ports.MetricsCollector, logger *zap.Logger) *ParallelExecutor {
	return &ParallelExecutor{
		eventBus: eventBus,
		metrics:  metrics,
		logger:   logger,
	}
}

// EstimateSpeedup returns the heuristic ratio of the serial duration
// estimate to the parallel critical path. Plans carry no per-step
// duration data, so each step counts as one time unit and the critical
// path is a single step. The estimate is used for observability only,
// never for scheduling decisions.
func (e *ParallelExecutor) EstimateSpeedup(plan *domain.Plan) float64 {
	if plan == nil || len(plan.Steps) == 0 {
		return 1.0
	}
	return float64(len(plan.Steps))
}

// ExecuteParallel launches one concurrent execution per step and waits
// for all of them. A failing step does not cancel its siblings: partial
// results remain valuable, so every step runs to completion.
func (e *ParallelExecutor) ExecuteParallel(ctx unit.ExecutionContext, plan *domain.Plan, run StepRunner) (*PlanResult, error) {
	if plan == nil {
		return nil, fmt.Errorf("plan is nil")
	}
	if run == nil {
		return nil, fmt.Errorf("step runner is nil")
	}
	if ctx.OperationID() == "" {
		ctx = unit.NewContext(ctx.Context())
	}

	start := time.Now()
	e.publishPlanEvent(ctx, domain.EventTypePlanStarted, map[string]interface{}{
		"goal":  plan.Goal,
		"steps": len(plan.Steps),
	})
	e.logger.Info("plan execution started",
		zap.String("operation_id", ctx.OperationID()),
		zap.String("goal", plan.Goal),
		zap.Int("steps", len(plan.Steps)))

	results := e.runSteps(ctx, plan, run)
	duration := time.Since(start)

	success := true
	combined := make(map[string]interface{}, len(results))
	for i, res := range results {
		key := fmt.Sprintf("step_%d", i)
		if res.Success {
			combined[key] = res.Output
		} else {
			success = false
			combined[key] = res.ErrorMessage
		}
	}

	status := "completed"
	planEvent := domain.EventTypePlanCompleted
	if !success {
		status = "failed"
		planEvent = domain.EventTypePlanFailed
	}
	e.metrics.RecordPlanExecution(status, duration)
	e.publishPlanEvent(ctx, planEvent, map[string]interface{}{
		"goal":     plan.Goal,
		"duration": duration.String(),
	})
	e.logger.Info("plan execution finished",
		zap.String("operation_id", ctx.OperationID()),
		zap.String("status", status),
		zap.Duration("duration", duration))

	return &PlanResult{
		OperationID:      ctx.OperationID(),
		Success:          success,
		StepResults:      results,
		CombinedOutput:   combined,
		Duration:         duration,
		EstimatedSpeedup: e.EstimateSpeedup(plan),
		Metadata: map[string]interface{}{
			"goal":  plan.Goal,
			"steps": len(plan.Steps),
		},
	}, nil
}

// runSteps is the shared fan-out/fan-in: one goroutine per step, results
// slotted by step index so output order never depends on completion
// order.
func (e *ParallelExecutor) runSteps(ctx unit.ExecutionContext, plan *domain.Plan, run StepRunner) []unit.Result[interface{}] {
	results := make([]unit.Result[interface{}], len(plan.Steps))
	var wg sync.WaitGroup
	for i, step := range plan.Steps {
		wg.Add(1)
		go func(i int, step domain.PlanStep) {
			defer wg.Done()
			e.publishStepEvent(ctx, domain.EventTypeStepStarted, i, step, nil)
			start := time.Now()
			res := run(ctx, i, step)
			results[i] = res

			if res.Success {
				e.metrics.RecordStepExecution("completed", time.Since(start))
				e.publishStepEvent(ctx, domain.EventTypeStepCompleted, i, step, nil)
			} else {
				e.metrics.RecordStepExecution("failed", time.Since(start))
				e.publishStepEvent(ctx, domain.EventTypeStepFailed, i, step, map[string]interface{}{
					"error": res.ErrorMessage,
				})
				e.logger.Warn("plan step failed",
					zap.String("operation_id", ctx.OperationID()),
					zap.Int("step_index", i),
					zap.String("action", step.Action),
					zap.String("error", res.ErrorMessage))
			}
		}(i, step)
	}
	wg.Wait()
	return results
}

func (e *ParallelExecutor) publishPlanEvent(ctx unit.ExecutionContext, eventType domain.EventType, data map[string]interface{}) {
	e.publish(ctx, TopicPlanEvents, domain.Event{
		ID:          uuid.New().String(),
		Type:        eventType,
		OperationID: ctx.OperationID(),
		Timestamp:   time.Now(),
		Data:        data,
	})
}

func (e *ParallelExecutor) publishStepEvent(ctx unit.ExecutionContext, eventType domain.EventType, index int, step domain.PlanStep, data map[string]interface{}) {
	if data == nil {
		data = map[string]interface{}{}
	}
	data["action"] = step.Action
	e.publish(ctx, TopicStepEvents, domain.Event{
		ID:          uuid.New().String(),
		Type:        eventType,
		OperationID: ctx.OperationID(),
		StepIndex:   index,
		Timestamp:   time.Now(),
		Data:        data,
	})
}

func (e *ParallelExecutor) publish(ctx unit.ExecutionContext, topic string, event domain.Event) {
	if err := e.eventBus.Publish(ctx.Context(), topic, event); err != nil {
		e.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}
