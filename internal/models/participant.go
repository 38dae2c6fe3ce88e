package models

import "fmt"

// Capability is the sensory constraint driving adaptation policy.
type Capability string

const (
	CapabilityDeaf  Capability = "deaf"
	CapabilityBlind Capability = "blind"
	CapabilityMute  Capability = "mute"
	CapabilityNone  Capability = "none"
)

// ParseCapability validates a capability value received at the boundary.
// Unknown values are a protocol-misuse error, not a silent pass-through.
func ParseCapability(s string) (Capability, error) {
	switch Capability(s) {
	case CapabilityDeaf, CapabilityBlind, CapabilityMute, CapabilityNone:
		return Capability(s), nil
	}
	return "", fmt.Errorf("unknown capability %q", s)
}

// Participant represents one joined, live connection.
// The ID is the connection id assigned by the transport layer; the
// capability is immutable for the lifetime of the connection once joined.
type Participant struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name"`
	Capability  Capability `json:"capability"`
}
