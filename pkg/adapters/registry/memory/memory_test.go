package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftlabs/weft/pkg/domain"
)

func TestPutGetDelete(t *testing.T) {
	store := NewInMemoryAgentStore()
	ctx := context.Background()

	agent := domain.AgentInfo{ID: "a-1", Name: "worker", Status: domain.AgentStatusAvailable}
	require.NoError(t, store.Put(ctx, agent))

	got, err := store.Get(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, agent, got)

	require.NoError(t, store.Delete(ctx, "a-1"))
	_, err = store.Get(ctx, "a-1")
	require.Error(t, err)
}

func TestPutReplacesWholeDescriptor(t *testing.T) {
	store := NewInMemoryAgentStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, domain.AgentInfo{ID: "a-1", Name: "worker", Capabilities: []string{"fetch"}}))
	require.NoError(t, store.Put(ctx, domain.AgentInfo{ID: "a-1", Name: "worker"}))

	got, err := store.Get(ctx, "a-1")
	require.NoError(t, err)
	assert.Empty(t, got.Capabilities)
}

func TestList(t *testing.T) {
	store := NewInMemoryAgentStore()
	ctx := context.Background()

	agents, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, agents)

	require.NoError(t, store.Put(ctx, domain.AgentInfo{ID: "a-1", Name: "one"}))
	require.NoError(t, store.Put(ctx, domain.AgentInfo{ID: "a-2", Name: "two"}))

	agents, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, agents, 2)
}
