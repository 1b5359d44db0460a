package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/weftlabs/weft/pkg/domain"
	"go.uber.org/zap"
)

// AgentStore implements ports.AgentStore on Redis. Each agent is stored
// as a JSON value with a TTL, so agents that stop re-registering age
// out of the pool on their own.
type AgentStore struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewAgentStore creates a new Redis agent store.
func NewAgentStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *AgentStore {
	return &AgentStore{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

// Put adds or replaces an agent descriptor, refreshing its TTL.
func (s *AgentStore) Put(ctx context.Context, agent domain.AgentInfo) error {
	key := getAgentKey(agent.ID)

	data, err := json.Marshal(agent)
	if err != nil {
		return fmt.Errorf("failed to marshal agent: %w", err)
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store agent: %w", err)
	}

	s.logger.Debug("agent stored",
		zap.String("agent_id", agent.ID),
		zap.String("status", string(agent.Status)))

	return nil
}

// Get retrieves an agent descriptor by id.
func (s *AgentStore) Get(ctx context.Context, id string) (domain.AgentInfo, error) {
	key := getAgentKey(id)

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return domain.AgentInfo{}, fmt.Errorf("agent not found: %s", id)
		}
		return domain.AgentInfo{}, fmt.Errorf("failed to get agent: %w", err)
	}

	var agent domain.AgentInfo
	if err := json.Unmarshal(data, &agent); err != nil {
		return domain.AgentInfo{}, fmt.Errorf("failed to unmarshal agent: %w", err)
	}

	return agent, nil
}

// List returns every agent currently known to the store.
func (s *AgentStore) List(ctx context.Context) ([]domain.AgentInfo, error) {
	pattern := "weft:agents:*"

	var cursor uint64
	var keys []string

	for {
		var batch []string
		var err error

		batch, cursor, err = s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys: %w", err)
		}

		keys = append(keys, batch...)

		if cursor == 0 {
			break
		}
	}

	agents := make([]domain.AgentInfo, 0, len(keys))
	for _, key := range keys {
		data, err := s.client.Get(ctx, key).Bytes()
		if err != nil {
			// Key may have expired between scan and get.
			continue
		}

		var agent domain.AgentInfo
		if err := json.Unmarshal(data, &agent); err != nil {
			continue
		}

		agents = append(agents, agent)
	}

	return agents, nil
}

// Delete removes an agent descriptor.
func (s *AgentStore) Delete(ctx context.Context, id string) error {
	key := getAgentKey(id)

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete agent: %w", err)
	}

	return nil
}

// getAgentKey returns the Redis key for an agent descriptor.
func getAgentKey(id string) string {
	return fmt.Sprintf("weft:agents:%s", id)
}
