package websocket

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/weftlabs/weft/internal/application/scheduler"
	"github.com/weftlabs/weft/pkg/domain"
	"github.com/weftlabs/weft/pkg/ports"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins; the API surface is internal.
	},
}

// Handler handles WebSocket connections.
type Handler struct {
	eventBus ports.EventBus
	logger   *zap.Logger
}

// NewHandler creates a new WebSocket handler.
func NewHandler(eventBus ports.EventBus, logger *zap.Logger) *Handler {
	return &Handler{
		eventBus: eventBus,
		logger:   logger,
	}
}

// HandleOperationStream streams lifecycle events for a single operation.
func (h *Handler) HandleOperationStream(c *gin.Context) {
	operationID := c.Param("id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	h.logger.Info("WebSocket connection established",
		zap.String("operation_id", operationID),
		zap.String("client", c.ClientIP()))

	eventChan := make(chan domain.Event, 10)
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	subs := h.subscribe(ctx, eventChan)
	defer h.unsubscribe(subs)

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-eventChan:
			if event.OperationID != operationID {
				continue
			}

			data, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("failed to marshal event", zap.Error(err))
				continue
			}

			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Error("failed to write message", zap.Error(err))
				return
			}
		}
	}
}

// subscription ties a bus subscription id to its topic so the handler
// can be removed when the connection goes away.
type subscription struct {
	topic string
	id    string
}

// subscribe forwards plan and step events into the channel and returns
// the subscriptions to remove on connection close.
func (h *Handler) subscribe(ctx context.Context, ch chan<- domain.Event) []subscription {
	handler := func(ctx context.Context, event domain.Event) error {
		select {
		case ch <- event:
		case <-ctx.Done():
			return ctx.Err()
		default:
			// Channel full, skip event.
			h.logger.Warn("event channel full, dropping event",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)))
		}
		return nil
	}

	topics := []string{scheduler.TopicPlanEvents, scheduler.TopicStepEvents}
	subs := make([]subscription, 0, len(topics))
	for _, topic := range topics {
		id, err := h.eventBus.Subscribe(ctx, topic, handler)
		if err != nil {
			h.logger.Error("failed to subscribe to events",
				zap.String("topic", topic),
				zap.Error(err))
			continue
		}
		subs = append(subs, subscription{topic: topic, id: id})
	}
	return subs
}

// unsubscribe removes this connection's handlers from the bus.
func (h *Handler) unsubscribe(subs []subscription) {
	ctx := context.Background()
	for _, sub := range subs {
		if err := h.eventBus.Unsubscribe(ctx, sub.topic, sub.id); err != nil {
			h.logger.Error("failed to unsubscribe from events",
				zap.String("topic", sub.topic),
				zap.Error(err))
		}
	}
}
