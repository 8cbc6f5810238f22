// Package event defines the outbound events pushed to connections.
package event

import (
	"chat-relay/domain"
	"encoding/json"

	"github.com/samber/lo"
)

type Name string

const (
	UpdatedUsersName Name = "updatedUsers"
	GotMessageName   Name = "gotMessage"
)

// DomainEvent is any event the relay pushes to a connection.
type DomainEvent interface {
	Name() Name
}

// User is the public projection of an active participant.
type User struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Language domain.Language `json:"language"`
}

// UpdatedUsers is broadcast to every connection after a registry mutation.
// On the wire its payload is the bare list of users.
type UpdatedUsers struct {
	Users []User
}

func (UpdatedUsers) Name() Name { return UpdatedUsersName }

func (u UpdatedUsers) MarshalJSON() ([]byte, error) {
	if u.Users == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(u.Users)
}

func (u *UpdatedUsers) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &u.Users)
}

// NewUpdatedUsers projects an active snapshot. Participants without a
// language cannot appear in an active snapshot and are skipped anyway.
func NewUpdatedUsers(active []domain.Participant) UpdatedUsers {
	users := lo.FilterMap(active, func(p domain.Participant, _ int) (User, bool) {
		if p.Language == nil {
			return User{}, false
		}
		return User{ID: p.ID, Name: p.DisplayName(), Language: *p.Language}, true
	})
	return UpdatedUsers{Users: users}
}

// GotMessage is unicast to one recipient of a fan-out.
// Time is the message time in unix milliseconds.
type GotMessage struct {
	Text           string          `json:"text"`
	Original       string          `json:"original"`
	AuthorName     string          `json:"authorName"`
	AuthorLanguage domain.Language `json:"authorLanguage"`
	Time           int64           `json:"time"`
}

func (GotMessage) Name() Name { return GotMessageName }
