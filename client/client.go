// Package client is a websocket client for the relay, used by the
// terminal client and the end-to-end tests.
package client

import (
	"chat-relay/domain/event"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

type Client struct {
	log     *slog.Logger
	conn    *websocket.Conn
	writeMu sync.Mutex
	events  chan event.DomainEvent
}

// Dial opens a connection to url (ws://host:port/ws) and starts reading.
func Dial(ctx context.Context, log *slog.Logger, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("could not connect to relay at %s: %w", url, err)
	}
	c := &Client{
		log:    log,
		conn:   conn,
		events: make(chan event.DomainEvent, 64),
	}
	go c.readLoop()
	return c, nil
}

// Events is closed when the connection ends.
func (c *Client) Events() <-chan event.DomainEvent {
	return c.events
}

func (c *Client) Login(name string) error {
	return c.send(event.LoginName, name)
}

func (c *Client) ChooseLanguage(key, display string) error {
	return c.send(event.ChooseLanguageName, event.LanguagePayload{Key: key, Display: display})
}

func (c *Client) SendMessage(text string) error {
	return c.send(event.SendMessageName, text)
}

// Close sends a close frame then drops the connection.
func (c *Client) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	c.writeMu.Unlock()
	return c.conn.Close()
}

func (c *Client) send(name event.Name, payload any) error {
	env, err := event.NewEnvelope(name, payload)
	if err != nil {
		return err
	}
	frame, err := json.Marshal(env)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, frame)
}

func (c *Client) readLoop() {
	defer close(c.events)
	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			c.log.Debug("Relay connection closed", "error", err)
			return
		}
		evt, err := event.Decode(frame)
		if err != nil {
			c.log.Warn("Unreadable frame from relay", "error", err)
			continue
		}
		c.events <- evt
	}
}
