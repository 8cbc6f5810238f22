// Package ws is the websocket transport: it maps connection ids to sinks
// and pumps JSON envelopes in and out of gorilla connections.
package ws

import (
	"chat-relay/contract"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/samber/lo"
)

var _ contract.Transport = (*Hub)(nil)

// Hub routes outbound events to the sink of each open connection.
type Hub struct {
	mu    sync.RWMutex
	log   *slog.Logger
	sinks map[string]contract.EventSink
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{log: log, sinks: make(map[string]contract.EventSink)}
}

func (h *Hub) Attach(participantID string, sink contract.EventSink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sinks[participantID] = sink
}

func (h *Hub) Detach(participantID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sinks, participantID)
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sinks)
}

// Send delivers to one connection. A connection that already closed
// yields ErrUnknownConnection.
func (h *Hub) Send(ctx context.Context, participantID string, e event.DomainEvent) error {
	h.mu.RLock()
	sink, ok := h.sinks[participantID]
	h.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrUnknownConnection, participantID)
	}
	return sink.Consume(ctx, e)
}

// Broadcast delivers to every open connection, including the ones that
// have not logged in yet.
func (h *Hub) Broadcast(ctx context.Context, e event.DomainEvent) {
	h.mu.RLock()
	sinks := lo.Entries(h.sinks)
	h.mu.RUnlock()

	for _, entry := range sinks {
		if err := entry.Value.Consume(ctx, e); err != nil {
			h.log.Warn("Broadcast not delivered",
				"participant_id", entry.Key,
				"event", e.Name(),
				"error", err)
		}
	}
}
