package scheduler

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/weftlabs/weft/internal/application/unit"
	"github.com/weftlabs/weft/pkg/domain"
)

func newTestOrchestrator(dispatch DispatchFunc) *DistributedOrchestrator {
	return NewDistributedOrchestrator(newTestRegistry(), newTestExecutor(), dispatch, zap.NewNop())
}

func TestExecuteDistributedSpreadsStepsOverAgents(t *testing.T) {
	var mu sync.Mutex
	seen := map[string][]string{}

	dispatch := func(ctx unit.ExecutionContext, agent domain.AgentInfo, step domain.PlanStep) unit.Result[interface{}] {
		mu.Lock()
		seen[agent.Name] = append(seen[agent.Name], step.Action)
		mu.Unlock()
		return unit.NewSuccess[interface{}](step.Action+" done", unit.Metrics{}, 0, nil)
	}

	o := newTestOrchestrator(dispatch)
	ctx := context.Background()
	for _, name := range []string{"agent-a", "agent-b", "agent-c"} {
		_, err := o.RegisterAgent(ctx, domain.AgentInfo{Name: name})
		require.NoError(t, err)
	}

	result, err := o.ExecuteDistributed(unit.Background(), testPlan(3))
	require.NoError(t, err)

	require.True(t, result.Success)
	require.Len(t, result.StepResults, 3)

	agentsUsed := result.Metadata["agents_used"].(int)
	assert.GreaterOrEqual(t, agentsUsed, 1)
	assert.LessOrEqual(t, agentsUsed, 3)

	total := 0
	for _, actions := range seen {
		total += len(actions)
	}
	assert.Equal(t, 3, total, "every step dispatched exactly once")
}

func TestExecuteDistributedFailsWithoutAgents(t *testing.T) {
	o := newTestOrchestrator(func(ctx unit.ExecutionContext, agent domain.AgentInfo, step domain.PlanStep) unit.Result[interface{}] {
		return unit.NewSuccess[interface{}](nil, unit.Metrics{}, 0, nil)
	})

	_, err := o.ExecuteDistributed(unit.Background(), testPlan(2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no available agents")
}

func TestExecuteDistributedIgnoresBusyAgents(t *testing.T) {
	var mu sync.Mutex
	dispatched := map[string]int{}

	dispatch := func(ctx unit.ExecutionContext, agent domain.AgentInfo, step domain.PlanStep) unit.Result[interface{}] {
		mu.Lock()
		dispatched[agent.Name]++
		mu.Unlock()
		return unit.NewSuccess[interface{}](nil, unit.Metrics{}, 0, nil)
	}

	o := newTestOrchestrator(dispatch)
	ctx := context.Background()

	_, err := o.RegisterAgent(ctx, domain.AgentInfo{Name: "free"})
	require.NoError(t, err)
	busy, err := o.RegisterAgent(ctx, domain.AgentInfo{Name: "busy"})
	require.NoError(t, err)
	require.NoError(t, o.Registry().SetStatus(ctx, busy.ID, domain.AgentStatusBusy))

	result, err := o.ExecuteDistributed(unit.Background(), testPlan(4))
	require.NoError(t, err)

	require.True(t, result.Success)
	assert.Equal(t, 4, dispatched["free"])
	assert.Zero(t, dispatched["busy"])
	assert.Equal(t, 1, result.Metadata["agents_used"])
}

func TestExecuteDistributedReportsStepFailure(t *testing.T) {
	dispatch := func(ctx unit.ExecutionContext, agent domain.AgentInfo, step domain.PlanStep) unit.Result[interface{}] {
		if step.Action == "action-1" {
			f := unit.NewFailure(unit.FailureTimeout, "agent timed out")
			return unit.NewFailureResult[interface{}](f, unit.Metrics{}, 0, nil)
		}
		return unit.NewSuccess[interface{}](nil, unit.Metrics{}, 0, nil)
	}

	o := newTestOrchestrator(dispatch)
	_, err := o.RegisterAgent(context.Background(), domain.AgentInfo{Name: "solo"})
	require.NoError(t, err)

	result, err := o.ExecuteDistributed(unit.Background(), testPlan(3))
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "agent timed out", result.CombinedOutput["step_1"])
}

func TestExecuteDistributedNilPlan(t *testing.T) {
	o := newTestOrchestrator(nil)

	_, err := o.ExecuteDistributed(unit.Background(), nil)
	require.Error(t, err)
}
