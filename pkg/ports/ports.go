package ports

import (
	"context"
	"time"

	"github.com/weftlabs/weft/pkg/domain"
)

// EventHandler processes a single event delivered by an EventBus.
type EventHandler func(ctx context.Context, event domain.Event) error

// EventBus publishes and delivers lifecycle events by topic. Subscribe
// returns a subscription id; Unsubscribe removes that handler alone, so
// short-lived consumers such as a single WebSocket connection do not
// leave dead handlers behind.
type EventBus interface {
	Publish(ctx context.Context, topic string, event domain.Event) error
	Subscribe(ctx context.Context, topic string, handler EventHandler) (string, error)
	Unsubscribe(ctx context.Context, topic, id string) error
	Close() error
}

// AgentStore persists agent descriptors for the distributed registry.
// Only agent presence is stored; execution results and unit metrics are
// never persisted.
type AgentStore interface {
	Put(ctx context.Context, agent domain.AgentInfo) error
	Get(ctx context.Context, id string) (domain.AgentInfo, error)
	List(ctx context.Context) ([]domain.AgentInfo, error)
	Delete(ctx context.Context, id string) error
}

// MetricsCollector records runtime instrumentation. Implementations must
// be safe for concurrent use.
type MetricsCollector interface {
	RecordUnitExecution(name, status string, duration time.Duration)
	RecordPlanExecution(status string, duration time.Duration)
	RecordStepExecution(status string, duration time.Duration)
	SetRegisteredAgents(count int)
	SetAvailableAgents(count int)
	SetUnitHealth(name string, healthy bool)
}
