// Package runtime holds the relay's live state and the fan-out machinery.
// It orchestrates the system without containing transport or provider code.
package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/moderation"
	"chat-relay/observability"
	"chat-relay/runtime/workers"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"
)

var _ contract.IOrchestrator = (*Orchestrator)(nil)

// Orchestrator applies inbound connection events to the registry,
// broadcasts the refreshed active view and queues messages for the workers.
type Orchestrator struct {
	mu         sync.Mutex
	log        *slog.Logger
	registry   contract.IRegistry
	transport  contract.Transport
	handler    contract.MessageHandler
	supervisor contract.ISupervisor
	moderator  *moderation.Moderator
	metrics    *observability.Metrics
	commands   chan domain.SendMessageCommand
	numWorkers int
	cancel     context.CancelFunc
	done       chan struct{}
	now        func() time.Time
}

// NewOrchestrator wires the relay. moderator may be nil to disable censoring.
func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor,
	registry contract.IRegistry, transport contract.Transport, handler contract.MessageHandler,
	moderator *moderation.Moderator, metrics *observability.Metrics,
	numWorkers, bufferSize int) *Orchestrator {
	return &Orchestrator{
		log:        log,
		registry:   registry,
		transport:  transport,
		handler:    handler,
		supervisor: supervisor,
		moderator:  moderator,
		metrics:    metrics,
		commands:   make(chan domain.SendMessageCommand, bufferSize),
		numWorkers: numWorkers,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Connect registers a new connection and sends it the current active view.
func (o *Orchestrator) Connect(ctx context.Context, participantID string) error {
	if err := o.registry.Register(participantID); err != nil {
		o.log.Error("Registry invariant violated", "participant_id", participantID, "error", err)
		return err
	}
	o.log.Debug("Participant connected", "participant_id", participantID)
	users := event.NewUpdatedUsers(o.registry.SnapshotActive())
	if err := o.transport.Send(ctx, participantID, users); err != nil {
		o.log.Warn("Initial user list not delivered", "participant_id", participantID, "error", err)
	}
	return nil
}

func (o *Orchestrator) Login(ctx context.Context, participantID, name string) error {
	if err := o.registry.SetName(participantID, name); err != nil {
		o.log.Warn("Login ignored", "participant_id", participantID, "error", err)
		return err
	}
	o.broadcastUsers(ctx)
	return nil
}

func (o *Orchestrator) ChooseLanguage(ctx context.Context, participantID string, lang domain.Language) error {
	if err := o.registry.SetLanguage(participantID, lang); err != nil {
		o.log.Warn("Language choice ignored", "participant_id", participantID, "error", err)
		return err
	}
	o.broadcastUsers(ctx)
	return nil
}

// SendMessage stamps the message and snapshots its sender and recipients
// in the same registry read, then queues it for fan-out. A sender that is
// not active gets ErrInactiveSender. It never blocks: a full queue drops
// the message.
func (o *Orchestrator) SendMessage(participantID, content string) error {
	createdAt := o.now()
	active := o.registry.SnapshotActive()
	sender, ok := lo.Find(active, func(p domain.Participant) bool { return p.ID == participantID })
	if !ok {
		o.metrics.IncMessage(observability.OutcomeDroppedInactive)
		o.log.Debug("Message dropped, sender is not active", "participant_id", participantID)
		return fmt.Errorf("%w: %s", errors.ErrInactiveSender, participantID)
	}

	cmd := domain.SendMessageCommand{
		Sender:     sender,
		Recipients: active,
		Content:    content,
		CreatedAt:  createdAt,
	}
	if o.moderator != nil {
		cmd.Content, _ = o.moderator.Censor(cmd.Content)
	}

	select {
	case o.commands <- cmd:
		return nil
	default:
		o.metrics.IncMessage(observability.OutcomeDroppedBackpressure)
		o.log.Warn("Message queue full, dropping message", "participant_id", participantID)
		return fmt.Errorf("%w: message queue", errors.ErrBackpressure)
	}
}

// Disconnect removes the participant; it is safe to call twice.
func (o *Orchestrator) Disconnect(ctx context.Context, participantID string) {
	o.registry.Remove(participantID)
	o.log.Debug("Participant disconnected", "participant_id", participantID)
	o.broadcastUsers(ctx)
}

func (o *Orchestrator) broadcastUsers(ctx context.Context) {
	active := o.registry.SnapshotActive()
	o.metrics.SetActiveParticipants(len(active))
	o.transport.Broadcast(ctx, event.NewUpdatedUsers(active))
}

// Queue exposes the pending messages for monitoring.
func (o *Orchestrator) Queue() <-chan domain.SendMessageCommand {
	return o.commands
}

// Start registers the message workers and runs them in the background.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.done != nil {
		return fmt.Errorf("orchestrator already started")
	}

	for i := 0; i < o.numWorkers; i++ {
		o.supervisor.Add(workers.NewMessageWorker(o.commands, o.handler, o.log))
	}

	ctx, o.cancel = context.WithCancel(ctx)
	o.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		o.supervisor.Run(ctx)
	}(o.done)

	o.log.Info("Orchestrator started", "workers", o.numWorkers)
	return nil
}

// Stop cancels the workers and waits for them to return.
// Messages still queued are dropped.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.mu.Lock()
	cancel, done := o.cancel, o.done
	o.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	o.supervisor.Stop()
	if done != nil {
		<-done
	}
	o.log.Debug("Orchestrator stopped")
}
