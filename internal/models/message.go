package models

import (
	"fmt"
	"time"
)

// ContentType describes how a message payload should be interpreted.
type ContentType string

const (
	ContentText  ContentType = "text"
	ContentImage ContentType = "image"
	ContentAudio ContentType = "audio"

	// ContentTTSRequest is outbound-only: it instructs the presentation
	// layer to synthesize speech from the content. Clients never send it.
	ContentTTSRequest ContentType = "audio_synthesis_request"
)

// ParseContentType validates an inbound content type.
func ParseContentType(s string) (ContentType, error) {
	switch ContentType(s) {
	case ContentText, ContentImage, ContentAudio:
		return ContentType(s), nil
	}
	return "", fmt.Errorf("unknown content type %q", s)
}

// Message is an in-flight unit of communication. It is never persisted;
// the timestamp is assigned by the relay at delivery time, sender clocks
// are untrusted.
type Message struct {
	ID        string         `json:"id"` // ULID
	SenderID  string         `json:"sender_id"`
	TargetID  string         `json:"-"`
	Content   string         `json:"content"`
	Type      ContentType    `json:"type"`
	Meta      map[string]any `json:"meta,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// HazardAlert is an ephemeral broadcast event. Urgency is fixed; there
// is no severity grading.
type HazardAlert struct {
	OriginID   string `json:"origin_id"`
	HazardType string `json:"hazard_type"`
	Urgency    string `json:"urgency"`
}

// UrgencyCritical is the only urgency level hazard alerts carry.
const UrgencyCritical = "critical"
