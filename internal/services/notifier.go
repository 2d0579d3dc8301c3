package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/rentline-backend/internal/logger"
	"github.com/yungbote/rentline-backend/internal/sse"
)

// Notifier is the side-channel sink for workflow events. Delivery is
// fire-and-forget: a failed notification never rolls back the state
// transition that produced it.
type Notifier interface {
	Notify(event sse.SSEEvent, userIDs []uuid.UUID, payload any)
}

type sseNotifier struct {
	log *logger.Logger
	hub *sse.SSEHub
	bus SSEBus
}

// NewSSENotifier fans events out to each recipient's SSE channel and, when a
// cross-instance bus is configured, publishes there as well.
func NewSSENotifier(log *logger.Logger, hub *sse.SSEHub, bus SSEBus) Notifier {
	return &sseNotifier{
		log: log.With("service", "SSENotifier"),
		hub: hub,
		bus: bus,
	}
}

func (n *sseNotifier) Notify(event sse.SSEEvent, userIDs []uuid.UUID, payload any) {
	if n == nil || n.hub == nil {
		return
	}
	for _, userID := range userIDs {
		if userID == uuid.Nil {
			continue
		}
		msg := sse.SSEMessage{
			Channel: userID.String(),
			Event:   event,
			Data:    payload,
		}
		n.hub.Broadcast(msg)
		if n.bus != nil {
			if err := n.bus.Publish(context.Background(), msg); err != nil {
				n.log.Warn("SSE bus publish failed", "event", event, "error", err)
			}
		}
	}
}

type noopNotifier struct{}

// NewNoopNotifier is used when no realtime transport is configured.
func NewNoopNotifier() Notifier { return noopNotifier{} }

func (noopNotifier) Notify(sse.SSEEvent, []uuid.UUID, any) {}
