package event

import (
	"chat-relay/errors"
	"encoding/json"
	"fmt"
)

// Inbound event names sent by connections.
const (
	LoginName          Name = "login"
	ChooseLanguageName Name = "chooseLanguage"
	SendMessageName    Name = "sendMessage"
)

// Envelope is the JSON frame exchanged over a connection, in both directions.
// login and sendMessage carry a JSON string, chooseLanguage a LanguagePayload.
type Envelope struct {
	Event Name            `json:"event" validate:"required,oneof=login chooseLanguage sendMessage updatedUsers gotMessage"`
	Data  json.RawMessage `json:"data"`
}

type LanguagePayload struct {
	Key     string `json:"key" validate:"required,max=35"`
	Display string `json:"display" validate:"max=64"`
}

// NewEnvelope wraps any payload under the given event name.
func NewEnvelope(name Name, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Event: name, Data: data}, nil
}

// Encode builds the frame for an outbound event.
func Encode(e DomainEvent) ([]byte, error) {
	env, err := NewEnvelope(e.Name(), e)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

// Decode parses an outbound frame back into its event.
func Decode(frame []byte) (DomainEvent, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	switch env.Event {
	case UpdatedUsersName:
		var e UpdatedUsers
		if err := json.Unmarshal(env.Data, &e); err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
		}
		return e, nil
	case GotMessageName:
		var e GotMessage
		if err := json.Unmarshal(env.Data, &e); err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("%w: unknown event %q", errors.ErrInvalidPayload, env.Event)
	}
}
