package ws

import (
	"chat-relay/domain/event"
	"chat-relay/mocks"
	"context"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func waitFor[T any](req *require.Assertions, ch <-chan T) T {
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		req.FailNow("timed out")
	}
	var zero T
	return zero
}

func TestHandler_ConnectionLifecycle(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	service := mocks.NewMockIChatService(ctrl)
	hub := NewHub(log)
	server := httptest.NewServer(NewHandler(log, hub, service, 8, 100*time.Millisecond, 4096))
	defer server.Close()

	connected := make(chan string, 1)
	loggedIn := make(chan string, 1)
	chosen := make(chan string, 1)
	sent := make(chan string, 1)
	disconnected := make(chan string, 1)

	service.EXPECT().Connect(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, id string) error {
			connected <- id
			return hub.Send(ctx, id, event.UpdatedUsers{Users: []event.User{}})
		})
	service.EXPECT().Login(gomock.Any(), gomock.Any(), "Ann").
		DoAndReturn(func(_ context.Context, id, _ string) error {
			loggedIn <- id
			return nil
		})
	service.EXPECT().ChooseLanguage(gomock.Any(), gomock.Any(), "es", "Español").
		DoAndReturn(func(_ context.Context, id, _, _ string) error {
			chosen <- id
			return nil
		})
	service.EXPECT().SendMessage(gomock.Any(), "hola").
		DoAndReturn(func(id, _ string) error {
			sent <- id
			return nil
		})
	service.EXPECT().Disconnect(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, id string) { disconnected <- id })

	// Given a client connected to the relay
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	req.NoError(err)
	id := waitFor(req, connected)

	// Then it receives the frame pushed on connect
	_, frame, err := conn.ReadMessage()
	req.NoError(err)
	evt, err := event.Decode(frame)
	req.NoError(err)
	req.Equal(event.UpdatedUsers{Users: []event.User{}}, evt)

	// When it sends malformed and unknown frames, they are ignored
	req.NoError(conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	req.NoError(conn.WriteJSON(map[string]any{"event": "gotMessage", "data": "x"}))
	req.NoError(conn.WriteJSON(map[string]any{"event": "chooseLanguage", "data": map[string]string{}}))

	// And valid frames reach the chat service
	req.NoError(conn.WriteJSON(map[string]any{"event": "login", "data": "Ann"}))
	req.Equal(id, waitFor(req, loggedIn))
	req.NoError(conn.WriteJSON(map[string]any{
		"event": "chooseLanguage",
		"data":  map[string]string{"key": "es", "display": "Español"},
	}))
	req.Equal(id, waitFor(req, chosen))
	req.NoError(conn.WriteJSON(map[string]any{"event": "sendMessage", "data": "hola"}))
	req.Equal(id, waitFor(req, sent))

	// And closing the socket disconnects the participant
	req.NoError(conn.Close())
	req.Equal(id, waitFor(req, disconnected))
	req.Equal(0, hub.Len())
}
