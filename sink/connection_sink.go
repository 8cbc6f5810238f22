package sink

import (
	"chat-relay/contract"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"context"
	"log/slog"
	"time"
)

var _ contract.EventSink = (*ConnectionSink)(nil)

// ConnectionSink buffers the events addressed to one connection.
// The transport's write loop drains Events.
type ConnectionSink struct {
	log             *slog.Logger
	participantID   string
	Events          chan event.DomainEvent
	deliveryTimeout time.Duration
}

func NewConnectionSink(log *slog.Logger, participantID string, bufferSize int, deliveryTimeout time.Duration) *ConnectionSink {
	return &ConnectionSink{
		log:             log,
		participantID:   participantID,
		Events:          make(chan event.DomainEvent, bufferSize),
		deliveryTimeout: deliveryTimeout,
	}
}

// Consume is called by the fan-out and the broadcasts.
// It waits at most deliveryTimeout for room in the buffer, a slow
// connection must not hold a fan-out forever.
func (s *ConnectionSink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case s.Events <- e:
		return nil
	default:
	}

	timer := time.NewTimer(s.deliveryTimeout)
	defer timer.Stop()

	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		s.log.Warn("Connection buffer full, event dropped",
			"participant_id", s.participantID,
			"event", e.Name())
		return errors.ErrBackpressure
	}
}
