package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/shashshekh8-jpg/sense-mesh/internal/hub"
	"github.com/shashshekh8-jpg/sense-mesh/internal/metrics"
	"github.com/shashshekh8-jpg/sense-mesh/internal/models"
)

// ServeWS upgrades the connection and runs its event loop. Each
// connection moves through Connected -> Active -> Closed: it becomes
// Active on a valid join and is torn down on any read error, with
// transport failure and explicit disconnect taking the same path.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	id := uuid.NewString()
	client := h.hub.Register(id, conn)
	defer h.hub.Unregister(client)

	h.log.Info().Str("connection_id", id).Msg("connection opened")

	for {
		var env models.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug().Err(err).Str("connection_id", id).Msg("read failed")
			}
			break
		}

		switch env.Type {
		case models.EventJoin:
			h.handleJoin(client, env.Payload)
		case models.EventSend:
			h.handleSend(r.Context(), client, env.Payload)
		case models.EventHazard:
			h.handleHazard(client, env.Payload)
		default:
			h.hub.SendError(client, "unknown event type")
		}
	}

	h.log.Info().Str("connection_id", id).Msg("connection closed")
}

// handleJoin validates the profile and promotes the connection to
// Active. Unknown capability values are rejected rather than passed
// through; the connection stays open and may retry.
func (h *Handler) handleJoin(client *hub.Client, payload json.RawMessage) {
	var req models.JoinPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		h.hub.SendError(client, "malformed join payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.hub.SendError(client, "capability must be one of deaf, blind, mute, none")
		return
	}

	capability, err := models.ParseCapability(req.Capability)
	if err != nil {
		h.hub.SendError(client, "capability must be one of deaf, blind, mute, none")
		return
	}

	h.hub.Join(models.Participant{
		ID:          client.ID,
		DisplayName: req.DisplayName,
		Capability:  capability,
	})

	h.log.Info().
		Str("connection_id", client.ID).
		Str("capability", string(capability)).
		Msg("participant joined")
}

// handleSend adapts the content for the target and delivers it to that
// single connection. The adaptation may call the external collaborator;
// it runs on this connection's goroutine with no lock held, so a slow
// collaborator never stalls other connections, while consecutive sends
// from one sender stay in submission order.
func (h *Handler) handleSend(ctx context.Context, client *hub.Client, payload json.RawMessage) {
	if !h.hub.IsActive(client.ID) {
		metrics.MessagesRelayed.WithLabelValues("rejected").Inc()
		h.hub.SendError(client, "not joined")
		return
	}

	var req models.SendPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		h.hub.SendError(client, "malformed send payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		metrics.MessagesRelayed.WithLabelValues("rejected").Inc()
		h.hub.SendError(client, "send requires target_id and a content_type of text, image or audio")
		return
	}

	ct, err := models.ParseContentType(req.ContentType)
	if err != nil {
		metrics.MessagesRelayed.WithLabelValues("rejected").Inc()
		h.hub.SendError(client, "content_type must be one of text, image, audio")
		return
	}

	receiver, ok := h.registry.Lookup(req.TargetID)
	adapted := h.engine.Adapt(ctx, receiver, ok, req.Content, ct)

	// Liveness is re-checked at delivery time, not adaptation-start
	// time; a target that left mid-flight turns this into a no-op.
	h.hub.Deliver(client.ID, req.TargetID, adapted.Content, adapted.Type, adapted.Meta)
}

// handleHazard fans the alert out to every other active participant.
func (h *Handler) handleHazard(client *hub.Client, payload json.RawMessage) {
	if !h.hub.IsActive(client.ID) {
		h.hub.SendError(client, "not joined")
		return
	}

	var req models.HazardPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		h.hub.SendError(client, "malformed hazard payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.hub.SendError(client, "hazard_type is required")
		return
	}

	sent := h.hub.EmitHazard(client.ID, req.HazardType)
	h.log.Info().
		Str("origin_id", client.ID).
		Str("hazard_type", req.HazardType).
		Int("recipients", sent).
		Msg("hazard broadcast")
}
