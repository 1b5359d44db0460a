package scheduler

import (
	"context"
	"fmt"

	"github.com/weftlabs/weft/internal/application/unit"
	"github.com/weftlabs/weft/pkg/domain"
	"go.uber.org/zap"
)

// DispatchFunc hands one plan step to an execution agent and returns the
// step's outcome. Implementations are supplied by the caller; the
// orchestrator never interprets the step itself.
type DispatchFunc func(ctx unit.ExecutionContext, agent domain.AgentInfo, step domain.PlanStep) unit.Result[interface{}]

// DistributedOrchestrator assigns plan steps across the registered agent
// pool and executes the assignments with the same fan-out semantics as
// the parallel executor.
//
// Assignment is round-robin over currently available agents; capability
// tags are advisory and not matched against steps. Agent status is not
// flipped to busy during dispatch.
type DistributedOrchestrator struct {
	registry *Registry
	executor *ParallelExecutor
	dispatch DispatchFunc
	logger   *zap.Logger
}

// NewDistributedOrchestrator creates a distributed orchestrator.
func NewDistributedOrchestrator(registry *Registry, executor *ParallelExecutor, dispatch DispatchFunc, logger *zap.Logger) *DistributedOrchestrator {
	return &DistributedOrchestrator{
		registry: registry,
		executor: executor,
		dispatch: dispatch,
		logger:   logger,
	}
}

// RegisterAgent adds an agent to the pool.
func (d *DistributedOrchestrator) RegisterAgent(ctx context.Context, agent domain.AgentInfo) (domain.AgentInfo, error) {
	return d.registry.Register(ctx, agent)
}

// GetAgentStatus returns the descriptor of one registered agent.
func (d *DistributedOrchestrator) GetAgentStatus(ctx context.Context, id string) (domain.AgentInfo, error) {
	return d.registry.Status(ctx, id)
}

// Registry exposes the underlying agent registry.
func (d *DistributedOrchestrator) Registry() *Registry {
	return d.registry
}

// ExecuteDistributed assigns every step of the plan to an available
// agent and runs all assignments concurrently. The aggregate result
// carries overall success (AND of per-step success), the slowest
// branch's wall-clock duration, and the count of distinct agents used.
func (d *DistributedOrchestrator) ExecuteDistributed(ctx unit.ExecutionContext, plan *domain.Plan) (*PlanResult, error) {
	if plan == nil {
		return nil, fmt.Errorf("plan is nil")
	}
	if ctx.OperationID() == "" {
		ctx = unit.NewContext(ctx.Context())
	}

	agents, err := d.registry.Available(ctx.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to list available agents: %w", err)
	}
	if len(agents) == 0 {
		return nil, fmt.Errorf("no available agents")
	}

	assignments := make([]domain.AgentInfo, len(plan.Steps))
	for i := range plan.Steps {
		assignments[i] = agents[i%len(agents)]
	}

	d.logger.Info("distributing plan",
		zap.String("operation_id", ctx.OperationID()),
		zap.Int("steps", len(plan.Steps)),
		zap.Int("available_agents", len(agents)))

	runner := func(ctx unit.ExecutionContext, i int, step domain.PlanStep) unit.Result[interface{}] {
		return d.dispatch(ctx, assignments[i], step)
	}
	result, err := d.executor.ExecuteParallel(ctx, plan, runner)
	if err != nil {
		return nil, err
	}

	used := map[string]struct{}{}
	for i := range plan.Steps {
		used[assignments[i].ID] = struct{}{}
	}
	result.Metadata["agents_used"] = len(used)
	return result, nil
}
