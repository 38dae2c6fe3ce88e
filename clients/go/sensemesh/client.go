// Package sensemesh provides a minimal client for the SenseMesh relay
// wire protocol.
package sensemesh

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one server-to-client event. Payload stays raw; callers
// decode it into the shape matching Type ("presence", "message",
// "alert", "error").
type Event struct {
	Type    string
	Payload json.RawMessage
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client is a SenseMesh relay client. It performs no reconnection; a
// dropped connection ends the session, matching the server's
// no-reconnection-identity model.
type Client struct {
	conn   *websocket.Conn
	events chan Event

	writeMu   sync.Mutex
	closeOnce sync.Once
}

// Dial connects to a relay websocket endpoint, e.g.
// "ws://localhost:5000/ws".
func Dial(url string) (*Client, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial relay: %w", err)
	}

	c := &Client{
		conn:   conn,
		events: make(chan Event, 32),
	}
	go c.readLoop()
	return c, nil
}

func (c *Client) readLoop() {
	defer close(c.events)
	for {
		var env envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			return
		}
		c.events <- Event{Type: env.Type, Payload: env.Payload}
	}
}

// Events returns the stream of server events. The channel closes when
// the connection drops.
func (c *Client) Events() <-chan Event {
	return c.events
}

// Join declares the participant profile. capability must be one of
// deaf, blind, mute, none.
func (c *Client) Join(displayName, capability string) error {
	return c.emit("join", map[string]string{
		"display_name": displayName,
		"capability":   capability,
	})
}

// Send submits a message for a single target participant.
func (c *Client) Send(targetID, content, contentType string) error {
	return c.emit("send", map[string]string{
		"target_id":    targetID,
		"content":      content,
		"content_type": contentType,
	})
}

// Hazard reports a locally detected environmental hazard.
func (c *Client) Hazard(hazardType string) error {
	return c.emit("hazard", map[string]string{
		"hazard_type": hazardType,
	})
}

func (c *Client) emit(eventType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(envelope{Type: eventType, Payload: raw})
}

// Close tears the connection down.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}
