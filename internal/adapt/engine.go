// Package adapt transforms message content to suit a receiver's sensory
// capability. This is the only place domain semantics live, and the only
// place that performs network I/O on the relay path.
package adapt

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/shashshekh8-jpg/sense-mesh/internal/metrics"
	"github.com/shashshekh8-jpg/sense-mesh/internal/models"
)

// FallbackDescription is delivered when the description service is
// unreachable, slow, or returns garbage.
const FallbackDescription = "Image received (AI unavailable)"

// Adapted is the receiver-appropriate rendition of a message.
type Adapted struct {
	Content string
	Type    models.ContentType
	Meta    map[string]any
}

// Engine applies the capability decision table. It holds no lock while
// calling collaborators; a slow description call never stalls unrelated
// traffic.
type Engine struct {
	describer   Describer
	transcriber Transcriber
	timeout     time.Duration
	log         zerolog.Logger
}

// NewEngine wires the engine to its collaborators. The timeout bounds a
// single collaborator call; at most one attempt is made per message.
func NewEngine(describer Describer, transcriber Transcriber, timeout time.Duration, log zerolog.Logger) *Engine {
	return &Engine{
		describer:   describer,
		transcriber: transcriber,
		timeout:     timeout,
		log:         log,
	}
}

// Adapt produces the payload to deliver to the receiver. ok reports
// whether the receiver is currently registered; when it is false the
// content passes through unchanged and delivery is skipped downstream.
// Rules are ordered, first match wins, unmatched falls through unchanged.
func (e *Engine) Adapt(ctx context.Context, receiver models.Participant, ok bool, content string, ct models.ContentType) Adapted {
	if !ok {
		return Adapted{Content: content, Type: ct}
	}

	switch {
	case receiver.Capability == models.CapabilityDeaf && ct == models.ContentAudio:
		return e.transcribe(ctx, content)

	case receiver.Capability == models.CapabilityBlind && ct == models.ContentImage:
		return e.describe(ctx, content)

	case receiver.Capability == models.CapabilityBlind && ct == models.ContentText:
		metrics.Adaptations.WithLabelValues("auto_read").Inc()
		return Adapted{Content: content, Type: ct, Meta: map[string]any{"auto_read": true}}
	}

	metrics.Adaptations.WithLabelValues("passthrough").Inc()
	return Adapted{Content: content, Type: ct}
}

func (e *Engine) transcribe(ctx context.Context, audio string) Adapted {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	transcript, err := e.transcriber.Transcribe(ctx, audio)
	if err != nil {
		// The stub never fails; a future live transcriber falls back to
		// the same placeholder the stub produces.
		e.log.Warn().Err(err).Msg("transcription failed, using placeholder")
		transcript = "Transcribed Audio: [Simulated AI Text]"
	}
	metrics.Adaptations.WithLabelValues("transcribe").Inc()
	return Adapted{
		Content: transcript,
		Type:    models.ContentText,
		Meta:    map[string]any{"original_audio": true},
	}
}

func (e *Engine) describe(ctx context.Context, imageB64 string) Adapted {
	if e.describer == nil {
		metrics.Adaptations.WithLabelValues("describe_fallback").Inc()
		return Adapted{Content: FallbackDescription, Type: models.ContentText}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	desc, err := e.describer.Describe(ctx, imageB64)
	if err != nil {
		e.log.Warn().Err(err).Msg("description service failed, falling back to text")
		metrics.Adaptations.WithLabelValues("describe_fallback").Inc()
		return Adapted{Content: FallbackDescription, Type: models.ContentText}
	}
	metrics.Adaptations.WithLabelValues("describe").Inc()
	return Adapted{Content: desc, Type: models.ContentTTSRequest}
}
