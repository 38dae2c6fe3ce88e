package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/shashshekh8-jpg/sense-mesh/internal/models"
)

const writeTimeout = 10 * time.Second

// Client is one open websocket connection. It may or may not have
// joined; only joined connections appear in the session registry.
type Client struct {
	ID   string
	conn *websocket.Conn
	send chan models.Envelope
	log  zerolog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

func newClient(id string, conn *websocket.Conn, buffer int, log zerolog.Logger) *Client {
	return &Client{
		ID:   id,
		conn: conn,
		send: make(chan models.Envelope, buffer),
		log:  log,
		done: make(chan struct{}),
	}
}

// writePump drains the send buffer onto the wire. It owns all writes to
// the connection; a write error tears the connection down.
func (c *Client) writePump() {
	for {
		select {
		case env, ok := <-c.send:
			if !ok {
				c.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteJSON(env); err != nil {
				c.log.Debug().Err(err).Str("connection_id", c.ID).Msg("write failed")
				c.conn.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// enqueue hands an event to the write pump without blocking. A full
// buffer means the client cannot keep up; the connection is closed and
// the event discarded, matching at-most-once delivery.
func (c *Client) enqueue(eventType string, payload any) bool {
	raw, err := json.Marshal(payload)
	if err != nil {
		c.log.Error().Err(err).Str("event", eventType).Msg("failed to marshal outbound payload")
		return false
	}

	select {
	case c.send <- models.Envelope{Type: eventType, Payload: raw}:
		return true
	case <-c.done:
		return false
	default:
		c.log.Warn().Str("connection_id", c.ID).Str("event", eventType).Msg("send buffer full, dropping connection")
		c.close()
		return false
	}
}

// close shuts the connection down exactly once.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}
