package models

import "encoding/json"

// Envelope frames every event on the wire, both directions.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound event types (client -> server).
const (
	EventJoin   = "join"
	EventSend   = "send"
	EventHazard = "hazard"
)

// Outbound event types (server -> client).
const (
	EventPresence = "presence"
	EventMessage  = "message"
	EventAlert    = "alert"
	EventError    = "error"
)

// JoinPayload carries a participant profile. DisplayName is free text
// and deliberately unvalidated; Capability is validated against the
// closed enum before the connection becomes Active.
type JoinPayload struct {
	DisplayName string `json:"display_name"`
	Capability  string `json:"capability" validate:"required,oneof=deaf blind mute none"`
}

// SendPayload is a point-to-point message submission.
type SendPayload struct {
	TargetID    string `json:"target_id" validate:"required"`
	Content     string `json:"content"`
	ContentType string `json:"content_type" validate:"required,oneof=text image audio"`
}

// HazardPayload reports a locally detected environmental hazard.
type HazardPayload struct {
	HazardType string `json:"hazard_type" validate:"required"`
}

// ErrorPayload is sent for protocol misuse; the connection stays open.
type ErrorPayload struct {
	Message string `json:"message"`
}
