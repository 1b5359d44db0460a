package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/weftlabs/weft/pkg/domain"
	"github.com/weftlabs/weft/pkg/ports"
)

// InMemoryEventBus implements ports.EventBus with in-process handlers.
// Delivery is asynchronous; handler errors are the handler's problem.
type InMemoryEventBus struct {
	subscribers map[string]map[string]ports.EventHandler
	mu          sync.RWMutex
}

// NewInMemoryEventBus creates a new in-memory event bus.
func NewInMemoryEventBus() *InMemoryEventBus {
	return &InMemoryEventBus{
		subscribers: make(map[string]map[string]ports.EventHandler),
	}
}

// Publish delivers an event to all subscribers of a topic.
func (e *InMemoryEventBus) Publish(ctx context.Context, topic string, event domain.Event) error {
	e.mu.RLock()
	handlers := make([]ports.EventHandler, 0, len(e.subscribers[topic]))
	for _, handler := range e.subscribers[topic] {
		handlers = append(handlers, handler)
	}
	e.mu.RUnlock()

	for _, handler := range handlers {
		go func(h ports.EventHandler) {
			_ = h(ctx, event)
		}(handler)
	}

	return nil
}

// Subscribe registers a handler for a topic and returns its
// subscription id.
func (e *InMemoryEventBus) Subscribe(ctx context.Context, topic string, handler ports.EventHandler) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.subscribers[topic] == nil {
		e.subscribers[topic] = make(map[string]ports.EventHandler)
	}
	id := uuid.New().String()
	e.subscribers[topic][id] = handler
	return id, nil
}

// Unsubscribe removes a single subscription from a topic.
func (e *InMemoryEventBus) Unsubscribe(ctx context.Context, topic, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.subscribers[topic], id)
	if len(e.subscribers[topic]) == 0 {
		delete(e.subscribers, topic)
	}
	return nil
}

// Close drops all subscribers.
func (e *InMemoryEventBus) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.subscribers = make(map[string]map[string]ports.EventHandler)
	return nil
}
