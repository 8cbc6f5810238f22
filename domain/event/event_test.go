package event

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestNewUpdatedUsers_ProjectsActiveParticipants(t *testing.T) {
	req := require.New(t)
	fr := domain.Language{Key: "fr", Display: "Français"}
	active := []domain.Participant{
		{ID: "id1", Name: lo.ToPtr("Ann"), Language: &fr},
		{ID: "id2", Name: lo.ToPtr("Beto")},
	}

	updated := NewUpdatedUsers(active)

	req.Equal([]User{{ID: "id1", Name: "Ann", Language: fr}}, updated.Users)
	req.Equal(UpdatedUsersName, updated.Name())
}

func TestEncode_GotMessageFrame(t *testing.T) {
	req := require.New(t)
	msg := GotMessage{
		Text:           "hola",
		Original:       "hello",
		AuthorName:     "Ann",
		AuthorLanguage: domain.Language{Key: "en", Display: "English"},
		Time:           1714564800000,
	}

	frame, err := Encode(msg)
	req.NoError(err)
	req.JSONEq(`{"event":"gotMessage","data":{"text":"hola","original":"hello","authorName":"Ann",
		"authorLanguage":{"key":"en","display":"English"},"time":1714564800000}}`, string(frame))

	decoded, err := Decode(frame)
	req.NoError(err)
	req.Equal(msg, decoded)
}

func TestEncode_UpdatedUsersFrameIsABareList(t *testing.T) {
	req := require.New(t)
	users := UpdatedUsers{Users: []User{
		{ID: "id1", Name: "Ann", Language: domain.Language{Key: "fr", Display: "Français"}},
	}}

	// When the active view is encoded
	frame, err := Encode(users)

	// Then its payload is the list itself
	req.NoError(err)
	req.JSONEq(`{"event":"updatedUsers","data":[{"id":"id1","name":"Ann",
		"language":{"key":"fr","display":"Français"}}]}`, string(frame))
	decoded, err := Decode(frame)
	req.NoError(err)
	req.Equal(users, decoded)

	// And an empty view is an empty list, never null
	frame, err = Encode(UpdatedUsers{})
	req.NoError(err)
	req.JSONEq(`{"event":"updatedUsers","data":[]}`, string(frame))
	decoded, err = Decode(frame)
	req.NoError(err)
	req.Equal(UpdatedUsers{Users: []User{}}, decoded)
}

func TestDecode_RejectsUnknownFrames(t *testing.T) {
	req := require.New(t)

	_, err := Decode([]byte(`{"event":"login","data":"Ann"}`))
	req.ErrorIs(err, errors.ErrInvalidPayload)

	_, err = Decode([]byte(`not json`))
	req.ErrorIs(err, errors.ErrInvalidPayload)
}
