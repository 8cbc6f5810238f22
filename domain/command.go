package domain

import (
	"time"

	"github.com/google/uuid"
)

// SendMessageCommand is queued by the orchestrator and consumed by message workers.
// Sender and Recipients are copies taken from the registry at CreatedAt.
type SendMessageCommand struct {
	Sender     Participant
	Recipients []Participant
	Content    string
	CreatedAt  time.Time
}

// ToMessage assigns a fresh id to the command.
func (c SendMessageCommand) ToMessage() Message {
	return Message{
		ID:         uuid.New(),
		Sender:     c.Sender,
		Recipients: c.Recipients,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt,
	}
}
