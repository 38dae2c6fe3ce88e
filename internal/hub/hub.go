// Package hub tracks open websocket connections and performs all
// outbound delivery: presence snapshots, point-to-point messages, and
// hazard fan-out.
package hub

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/shashshekh8-jpg/sense-mesh/internal/metrics"
	"github.com/shashshekh8-jpg/sense-mesh/internal/models"
	"github.com/shashshekh8-jpg/sense-mesh/internal/registry"
)

// Hub owns the connection table. The session registry (joined
// participants) is injected; the hub keeps the superset of all open
// connections so a connected-but-not-joined client can still receive
// protocol errors.
type Hub struct {
	registry *registry.SessionRegistry
	log      zerolog.Logger

	mu      sync.RWMutex
	clients map[string]*Client

	sendBuffer   int
	hazardWindow time.Duration

	hazardMu   sync.Mutex
	lastHazard map[hazardKey]time.Time
}

type hazardKey struct {
	originID   string
	hazardType string
}

// New creates a Hub around the given registry.
func New(reg *registry.SessionRegistry, sendBuffer int, hazardWindow time.Duration, log zerolog.Logger) *Hub {
	return &Hub{
		registry:     reg,
		log:          log,
		clients:      make(map[string]*Client),
		sendBuffer:   sendBuffer,
		hazardWindow: hazardWindow,
		lastHazard:   make(map[hazardKey]time.Time),
	}
}

// Register tracks a newly upgraded connection and starts its write
// pump. The connection is not yet a participant.
func (h *Hub) Register(id string, conn *websocket.Conn) *Client {
	c := newClient(id, conn, h.sendBuffer, h.log)

	h.mu.Lock()
	h.clients[id] = c
	h.mu.Unlock()

	metrics.ActiveConnections.Inc()
	go c.writePump()
	return c
}

// Unregister removes the connection, leaves the registry, and, if the
// connection had joined, broadcasts the updated presence snapshot.
// Transport failure and explicit leave take the same path.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.ID)
	h.mu.Unlock()

	_, wasActive := h.registry.Lookup(c.ID)
	h.registry.Leave(c.ID)
	c.close()
	metrics.ActiveConnections.Dec()

	if wasActive {
		h.BroadcastPresence()
	}
}

// Join registers the connection as a participant and broadcasts the
// presence snapshot to every active connection, the joiner included.
func (h *Hub) Join(p models.Participant) {
	h.registry.Join(p)
	metrics.ParticipantsJoined.Inc()
	h.BroadcastPresence()
}

// IsActive reports whether a connection has completed the join
// handshake and is still open.
func (h *Hub) IsActive(id string) bool {
	if _, ok := h.registry.Lookup(id); !ok {
		return false
	}
	h.mu.RLock()
	_, open := h.clients[id]
	h.mu.RUnlock()
	return open
}

// BroadcastPresence sends the full insertion-ordered participant
// snapshot to every active connection.
func (h *Hub) BroadcastPresence() {
	snapshot := h.registry.Snapshot()
	ids := lo.Map(snapshot, func(p models.Participant, _ int) string { return p.ID })

	h.mu.RLock()
	targets := make([]*Client, 0, len(ids))
	for _, id := range ids {
		if c, ok := h.clients[id]; ok {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.enqueue(models.EventPresence, snapshot)
	}
}

// Deliver performs the final liveness check and hands the message to
// the target connection. A target that left between send and delivery
// makes this a silent no-op: at-most-once, no retry, no queueing.
func (h *Hub) Deliver(senderID, targetID, content string, ct models.ContentType, meta map[string]any) bool {
	if !h.IsActive(targetID) {
		metrics.MessagesRelayed.WithLabelValues("dropped").Inc()
		h.log.Debug().Str("target_id", targetID).Msg("target gone, message dropped")
		return false
	}

	h.mu.RLock()
	c, ok := h.clients[targetID]
	h.mu.RUnlock()
	if !ok {
		metrics.MessagesRelayed.WithLabelValues("dropped").Inc()
		return false
	}

	msg := models.Message{
		ID:        ulid.Make().String(),
		SenderID:  senderID,
		Content:   content,
		Type:      ct,
		Meta:      meta,
		Timestamp: time.Now().UTC(),
	}
	if !c.enqueue(models.EventMessage, msg) {
		metrics.MessagesRelayed.WithLabelValues("dropped").Inc()
		return false
	}
	metrics.MessagesRelayed.WithLabelValues("delivered").Inc()
	return true
}

// EmitHazard fans an alert out verbatim to every active connection
// except the origin. No adaptation, no acknowledgment. With a nonzero
// hazard window, repeats of the same (origin, type) inside the window
// are coalesced; the default window of zero keeps pure fire-and-forget.
func (h *Hub) EmitHazard(originID, hazardType string) int {
	if h.hazardWindow > 0 && !h.admitHazard(originID, hazardType) {
		metrics.Hazards.WithLabelValues("coalesced").Inc()
		return 0
	}

	alert := models.HazardAlert{
		OriginID:   originID,
		HazardType: hazardType,
		Urgency:    models.UrgencyCritical,
	}

	snapshot := h.registry.Snapshot()

	h.mu.RLock()
	targets := make([]*Client, 0, len(snapshot))
	for _, p := range snapshot {
		if p.ID == originID {
			continue
		}
		if c, ok := h.clients[p.ID]; ok {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range targets {
		if c.enqueue(models.EventAlert, alert) {
			sent++
		}
	}
	metrics.Hazards.WithLabelValues("fanout").Inc()
	return sent
}

func (h *Hub) admitHazard(originID, hazardType string) bool {
	key := hazardKey{originID: originID, hazardType: hazardType}
	now := time.Now()

	h.hazardMu.Lock()
	defer h.hazardMu.Unlock()

	if last, ok := h.lastHazard[key]; ok && now.Sub(last) < h.hazardWindow {
		return false
	}
	h.lastHazard[key] = now
	return true
}

// SendError reports protocol misuse to a single connection. The
// connection is kept open.
func (h *Hub) SendError(c *Client, message string) {
	c.enqueue(models.EventError, models.ErrorPayload{Message: message})
}

// Close tears down every open connection. Used at shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := lo.Values(h.clients)
	h.clients = make(map[string]*Client)
	h.mu.Unlock()

	for _, c := range clients {
		h.registry.Leave(c.ID)
		c.close()
	}
}
