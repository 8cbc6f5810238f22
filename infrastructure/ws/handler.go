package ws

import (
	"chat-relay/contract"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/sink"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Handler upgrades HTTP requests and serves one connection per request.
type Handler struct {
	log                  *slog.Logger
	hub                  *Hub
	chatService          contract.IChatService
	upgrader             websocket.Upgrader
	validate             *validator.Validate
	connectionBufferSize int
	deliveryTimeout      time.Duration
	maxFrameSize         int64
}

func NewHandler(log *slog.Logger, hub *Hub, chatService contract.IChatService,
	connectionBufferSize int, deliveryTimeout time.Duration, maxFrameSize int64) *Handler {
	return &Handler{
		log:         log,
		hub:         hub,
		chatService: chatService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		validate:             validator.New(),
		connectionBufferSize: connectionBufferSize,
		deliveryTimeout:      deliveryTimeout,
		maxFrameSize:         maxFrameSize,
	}
}

// ServeHTTP blocks until the client goes away. The participant is removed
// from the hub before the disconnect is broadcast.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("Websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	participantID := uuid.NewString()
	connectionSink := sink.NewConnectionSink(h.log, participantID, h.connectionBufferSize, h.deliveryTimeout)
	h.hub.Attach(participantID, connectionSink)

	ctx, cancel := context.WithCancel(r.Context())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.writeLoop(ctx, conn, participantID, connectionSink.Events)
	}()

	connected := false
	defer func() {
		h.hub.Detach(participantID)
		cancel()
		wg.Wait()
		if connected {
			h.chatService.Disconnect(context.Background(), participantID)
		}
		_ = conn.Close()
	}()

	if err := h.chatService.Connect(ctx, participantID); err != nil {
		return
	}
	connected = true
	h.readLoop(ctx, conn, participantID)
}

func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, participantID string) {
	conn.SetReadLimit(h.maxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("Connection closed unexpectedly", "participant_id", participantID, "error", err)
			} else {
				h.log.Debug("Connection closed", "participant_id", participantID)
			}
			return
		}
		if err := h.dispatch(ctx, participantID, frame); err != nil {
			h.log.Debug("Inbound frame rejected", "participant_id", participantID, "error", err)
		}
	}
}

// dispatch decodes one inbound frame and forwards it to the chat service.
func (h *Handler) dispatch(ctx context.Context, participantID string, frame []byte) error {
	var env event.Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	if err := h.validate.Struct(env); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}

	switch env.Event {
	case event.LoginName:
		var name string
		if err := json.Unmarshal(env.Data, &name); err != nil {
			return fmt.Errorf("%w: login: %v", errors.ErrInvalidPayload, err)
		}
		return h.chatService.Login(ctx, participantID, name)
	case event.ChooseLanguageName:
		var payload event.LanguagePayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return fmt.Errorf("%w: chooseLanguage: %v", errors.ErrInvalidPayload, err)
		}
		if err := h.validate.Struct(payload); err != nil {
			return fmt.Errorf("%w: chooseLanguage: %v", errors.ErrInvalidPayload, err)
		}
		return h.chatService.ChooseLanguage(ctx, participantID, payload.Key, payload.Display)
	case event.SendMessageName:
		var text string
		if err := json.Unmarshal(env.Data, &text); err != nil {
			return fmt.Errorf("%w: sendMessage: %v", errors.ErrInvalidPayload, err)
		}
		return h.chatService.SendMessage(participantID, text)
	default:
		return fmt.Errorf("%w: %q is not an inbound event", errors.ErrInvalidPayload, env.Event)
	}
}

// writeLoop is the only writer of conn. A write failure closes the
// connection so that the read loop returns too.
func (h *Handler) writeLoop(ctx context.Context, conn *websocket.Conn, participantID string,
	events <-chan event.DomainEvent) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		case e := <-events:
			frame, err := event.Encode(e)
			if err != nil {
				h.log.Error("Unable to encode event", "participant_id", participantID, "event", e.Name(), "error", err)
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				h.log.Error("Failed to push event to connection",
					"participant_id", participantID,
					"event", e.Name(),
					"error", err)
				_ = conn.Close()
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}
