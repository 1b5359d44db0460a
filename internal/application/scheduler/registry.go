package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/weftlabs/weft/pkg/domain"
	"github.com/weftlabs/weft/pkg/ports"
	"go.uber.org/zap"
)

// Registry tracks execution agents available for distributed dispatch.
// All writes go through the backing AgentStore as whole-value replaces,
// never in-place mutation.
type Registry struct {
	store   ports.AgentStore
	metrics ports.MetricsCollector
	logger  *zap.Logger
}

// NewRegistry creates an agent registry on top of a store.
func NewRegistry(store ports.AgentStore, metrics ports.MetricsCollector, logger *zap.Logger) *Registry {
	return &Registry{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// Register adds or replaces an agent. A missing id is generated and a
// missing status defaults to available.
func (r *Registry) Register(ctx context.Context, agent domain.AgentInfo) (domain.AgentInfo, error) {
	if agent.Name == "" {
		return domain.AgentInfo{}, fmt.Errorf("agent name is required")
	}
	if agent.ID == "" {
		agent.ID = uuid.New().String()
	}
	if agent.Status == "" {
		agent.Status = domain.AgentStatusAvailable
	}
	agent.LastSeen = time.Now()

	if err := r.store.Put(ctx, agent); err != nil {
		return domain.AgentInfo{}, fmt.Errorf("failed to store agent: %w", err)
	}

	r.logger.Info("agent registered",
		zap.String("agent_id", agent.ID),
		zap.String("name", agent.Name),
		zap.Strings("capabilities", agent.Capabilities))
	r.updateGauges(ctx)
	return agent, nil
}

// Status returns the current descriptor of one agent.
func (r *Registry) Status(ctx context.Context, id string) (domain.AgentInfo, error) {
	agent, err := r.store.Get(ctx, id)
	if err != nil {
		return domain.AgentInfo{}, fmt.Errorf("agent not found: %w", err)
	}
	return agent, nil
}

// List returns all registered agents.
func (r *Registry) List(ctx context.Context) ([]domain.AgentInfo, error) {
	return r.store.List(ctx)
}

// Available returns the agents currently able to accept work. This is
// the extension point where a capability-aware selection policy would
// slot in; the reference policy returns every available agent.
func (r *Registry) Available(ctx context.Context) ([]domain.AgentInfo, error) {
	agents, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}
	available := make([]domain.AgentInfo, 0, len(agents))
	for _, a := range agents {
		if a.Available() {
			available = append(available, a)
		}
	}
	return available, nil
}

// SetStatus replaces an agent's availability status.
func (r *Registry) SetStatus(ctx context.Context, id string, status domain.AgentStatus) error {
	agent, err := r.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("agent not found: %w", err)
	}
	agent.Status = status
	agent.LastSeen = time.Now()
	if err := r.store.Put(ctx, agent); err != nil {
		return fmt.Errorf("failed to update agent: %w", err)
	}
	r.updateGauges(ctx)
	return nil
}

// Remove deletes an agent from the registry.
func (r *Registry) Remove(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to remove agent: %w", err)
	}
	r.updateGauges(ctx)
	return nil
}

func (r *Registry) updateGauges(ctx context.Context) {
	agents, err := r.store.List(ctx)
	if err != nil {
		r.logger.Error("failed to list agents for gauges", zap.Error(err))
		return
	}
	available := 0
	for _, a := range agents {
		if a.Available() {
			available++
		}
	}
	r.metrics.SetRegisteredAgents(len(agents))
	r.metrics.SetAvailableAgents(available)
}
