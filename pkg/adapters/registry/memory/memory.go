package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/weftlabs/weft/pkg/domain"
)

// InMemoryAgentStore implements ports.AgentStore with a mutex-guarded
// map. Writes replace the whole descriptor, never mutate in place.
type InMemoryAgentStore struct {
	agents map[string]domain.AgentInfo
	mu     sync.RWMutex
}

// NewInMemoryAgentStore creates a new in-memory agent store.
func NewInMemoryAgentStore() *InMemoryAgentStore {
	return &InMemoryAgentStore{
		agents: make(map[string]domain.AgentInfo),
	}
}

// Put adds or replaces an agent descriptor.
func (s *InMemoryAgentStore) Put(ctx context.Context, agent domain.AgentInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.agents[agent.ID] = agent
	return nil
}

// Get retrieves an agent descriptor by id.
func (s *InMemoryAgentStore) Get(ctx context.Context, id string) (domain.AgentInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agent, ok := s.agents[id]
	if !ok {
		return domain.AgentInfo{}, fmt.Errorf("agent not found: %s", id)
	}
	return agent, nil
}

// List returns all agent descriptors.
func (s *InMemoryAgentStore) List(ctx context.Context) ([]domain.AgentInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agents := make([]domain.AgentInfo, 0, len(s.agents))
	for _, agent := range s.agents {
		agents = append(agents, agent)
	}
	return agents, nil
}

// Delete removes an agent descriptor.
func (s *InMemoryAgentStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.agents, id)
	return nil
}
