//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives the events addressed to one connection.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// Transport is the outbound half of the connection layer.
type Transport interface {
	Send(ctx context.Context, participantID string, e event.DomainEvent) error
	Broadcast(ctx context.Context, e event.DomainEvent)
}

// Translator wraps the external translation provider.
// Callers never invoke it with identical source and target keys.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// MessageHandler processes one inbound message. Message workers call it.
type MessageHandler interface {
	Handle(ctx context.Context, msg domain.Message) error
}

type IRegistry interface {
	Register(participantID string) error
	SetName(participantID, name string) error
	SetLanguage(participantID string, lang domain.Language) error
	Remove(participantID string)
	Get(participantID string) (domain.Participant, bool)
	SnapshotActive() []domain.Participant
}

type IOrchestrator interface {
	Connect(ctx context.Context, participantID string) error
	Login(ctx context.Context, participantID, name string) error
	ChooseLanguage(ctx context.Context, participantID string, lang domain.Language) error
	SendMessage(participantID, content string) error
	Disconnect(ctx context.Context, participantID string)
	Start(ctx context.Context) error
	Stop()
}

// IChatService is what the connection layer calls for inbound events.
type IChatService interface {
	Connect(ctx context.Context, participantID string) error
	Login(ctx context.Context, participantID, name string) error
	ChooseLanguage(ctx context.Context, participantID, key, display string) error
	SendMessage(participantID, content string) error
	Disconnect(ctx context.Context, participantID string)
}
