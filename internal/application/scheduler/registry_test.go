package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	registrymemory "github.com/weftlabs/weft/pkg/adapters/registry/memory"
	"github.com/weftlabs/weft/pkg/domain"
	"github.com/weftlabs/weft/pkg/ports"
)

func newTestRegistry() *Registry {
	return NewRegistry(registrymemory.NewInMemoryAgentStore(), ports.NopMetrics{}, zap.NewNop())
}

func TestRegisterDefaultsIDAndStatus(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	agent, err := r.Register(ctx, domain.AgentInfo{Name: "worker-1", Capabilities: []string{"fetch"}})
	require.NoError(t, err)

	assert.NotEmpty(t, agent.ID)
	assert.Equal(t, domain.AgentStatusAvailable, agent.Status)
	assert.False(t, agent.LastSeen.IsZero())

	stored, err := r.Status(ctx, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, "worker-1", stored.Name)
}

func TestRegisterRequiresName(t *testing.T) {
	r := newTestRegistry()

	_, err := r.Register(context.Background(), domain.AgentInfo{})
	require.Error(t, err)
}

func TestAvailableFiltersByStatus(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	a, err := r.Register(ctx, domain.AgentInfo{Name: "a"})
	require.NoError(t, err)
	b, err := r.Register(ctx, domain.AgentInfo{Name: "b"})
	require.NoError(t, err)

	require.NoError(t, r.SetStatus(ctx, b.ID, domain.AgentStatusBusy))

	available, err := r.Available(ctx)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, a.ID, available[0].ID)

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRemove(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	agent, err := r.Register(ctx, domain.AgentInfo{Name: "gone"})
	require.NoError(t, err)

	require.NoError(t, r.Remove(ctx, agent.ID))

	_, err = r.Status(ctx, agent.ID)
	require.Error(t, err)
}
