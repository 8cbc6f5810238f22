// Package domain contains core concepts of the chat relay.
// This file defines Message events and related rules.
// Messages are immutable and only live for the duration of one fan-out.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TranslationErrorText replaces the translated text for a recipient whose
// translation failed.
const TranslationErrorText = "Translation error"

// Message represents one inbound chat message together with the
// active-participant snapshot taken when it was received.
type Message struct {
	ID         uuid.UUID
	Sender     Participant
	Recipients []Participant
	Content    string
	CreatedAt  time.Time
}
