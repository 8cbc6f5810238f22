package ws

import (
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/mocks"
	"chat-relay/sink"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestHub_SendToUnknownConnection(t *testing.T) {
	req := require.New(t)
	hub := NewHub(logs.GetLoggerFromLevel(slog.LevelDebug))

	err := hub.Send(context.Background(), "ghost", event.UpdatedUsers{})

	req.ErrorIs(err, errors.ErrUnknownConnection)
}

func TestHub_SendReachesOnlyTarget(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	hub := NewHub(log)
	first := sink.NewConnectionSink(log, "id1", 1, 10*time.Millisecond)
	second := sink.NewConnectionSink(log, "id2", 1, 10*time.Millisecond)
	hub.Attach("id1", first)
	hub.Attach("id2", second)

	req.NoError(hub.Send(context.Background(), "id2", event.GotMessage{Text: "hola"}))

	req.Len(first.Events, 0)
	req.Equal(event.GotMessage{Text: "hola"}, <-second.Events)
}

func TestHub_BroadcastSurvivesFailingSink(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	hub := NewHub(log)
	failing := mocks.NewMockEventSink(ctrl)
	healthy := sink.NewConnectionSink(log, "id2", 1, 10*time.Millisecond)
	hub.Attach("id1", failing)
	hub.Attach("id2", healthy)
	users := event.UpdatedUsers{Users: []event.User{}}

	// Given one sink refusing every event
	failing.EXPECT().Consume(gomock.Any(), users).Return(errors.ErrBackpressure)

	// When the active view is broadcast
	hub.Broadcast(context.Background(), users)

	// Then the other connection still receives it
	req.Equal(users, <-healthy.Events)

	// And a detached connection is no longer reached
	hub.Detach("id1")
	req.Equal(1, hub.Len())
}
