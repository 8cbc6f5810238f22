package workers

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	stderrors "errors"
	"log/slog"
)

// Ensure *MessageWorker implements the contract.Worker interface at compile time.
var _ contract.Worker = (*MessageWorker)(nil)

// MessageWorker consumes queued messages and hands each one to the handler.
// Several workers share the same command channel, so several fan-outs
// can be in flight at once.
type MessageWorker struct {
	commands chan domain.SendMessageCommand
	handler  contract.MessageHandler
	log      *slog.Logger
}

func NewMessageWorker(
	commands chan domain.SendMessageCommand,
	handler contract.MessageHandler,
	log *slog.Logger) *MessageWorker {
	return &MessageWorker{
		commands: commands,
		handler:  handler,
		log:      log,
	}
}

func (w *MessageWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case cmd, ok := <-w.commands:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			w.handle(ctx, cmd)
		}
	}
}

// handle never returns the error: a failed fan-out only concerns its own message.
func (w *MessageWorker) handle(ctx context.Context, cmd domain.SendMessageCommand) {
	msg := cmd.ToMessage()
	err := w.handler.Handle(ctx, msg)
	switch {
	case err == nil:
	case stderrors.Is(err, errors.ErrInactiveSender):
		w.log.Debug("Message ignored", "message_id", msg.ID, "error", err)
	default:
		w.log.Warn("Message dropped", "message_id", msg.ID, "error", err)
	}
}
