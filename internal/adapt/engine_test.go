package adapt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashshekh8-jpg/sense-mesh/internal/models"
)

func newTestEngine(d Describer) *Engine {
	return NewEngine(d, &StubCollaborator{}, 200*time.Millisecond, zerolog.Nop())
}

func receiver(c models.Capability) models.Participant {
	return models.Participant{ID: "r1", DisplayName: "receiver", Capability: c}
}

func TestUnknownReceiverPassesThrough(t *testing.T) {
	e := newTestEngine(&StubCollaborator{DescribeResult: "never used"})

	out := e.Adapt(context.Background(), models.Participant{}, false, "hello", models.ContentImage)

	assert.Equal(t, "hello", out.Content)
	assert.Equal(t, models.ContentImage, out.Type)
	assert.Nil(t, out.Meta)
}

func TestDeafAudioBecomesTranscript(t *testing.T) {
	e := newTestEngine(nil)

	out := e.Adapt(context.Background(), receiver(models.CapabilityDeaf), true, "<audio-b64>", models.ContentAudio)

	assert.Equal(t, models.ContentText, out.Type)
	assert.Equal(t, "Transcribed Audio: [Simulated AI Text]", out.Content)
	assert.Equal(t, true, out.Meta["original_audio"])
}

func TestBlindImageUsesDescription(t *testing.T) {
	e := newTestEngine(&StubCollaborator{DescribeResult: "a red car"})

	out := e.Adapt(context.Background(), receiver(models.CapabilityBlind), true, "<image-b64>", models.ContentImage)

	assert.Equal(t, models.ContentTTSRequest, out.Type)
	assert.Equal(t, "a red car", out.Content)
}

func TestBlindImageFallsBackOnError(t *testing.T) {
	e := newTestEngine(&StubCollaborator{DescribeErr: errors.New("boom")})

	out := e.Adapt(context.Background(), receiver(models.CapabilityBlind), true, "<image-b64>", models.ContentImage)

	assert.Equal(t, models.ContentText, out.Type)
	assert.Equal(t, FallbackDescription, out.Content)
}

func TestBlindImageFallsBackWithoutDescriber(t *testing.T) {
	e := newTestEngine(nil)

	out := e.Adapt(context.Background(), receiver(models.CapabilityBlind), true, "<image-b64>", models.ContentImage)

	assert.Equal(t, models.ContentText, out.Type)
	assert.Equal(t, FallbackDescription, out.Content)
}

// hangingDescriber never answers until the context expires.
type hangingDescriber struct{}

func (hangingDescriber) Describe(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestBlindImageFallbackIsTimeoutBounded(t *testing.T) {
	e := newTestEngine(hangingDescriber{})

	start := time.Now()
	out := e.Adapt(context.Background(), receiver(models.CapabilityBlind), true, "<image-b64>", models.ContentImage)
	elapsed := time.Since(start)

	assert.Equal(t, FallbackDescription, out.Content)
	assert.Equal(t, models.ContentText, out.Type)
	require.Less(t, elapsed, time.Second, "adaptation must complete within the timeout bound")
}

func TestBlindTextGetsAutoRead(t *testing.T) {
	e := newTestEngine(nil)

	out := e.Adapt(context.Background(), receiver(models.CapabilityBlind), true, "hello", models.ContentText)

	assert.Equal(t, "hello", out.Content)
	assert.Equal(t, models.ContentText, out.Type)
	assert.Equal(t, true, out.Meta["auto_read"])
}

func TestOtherCapabilitiesPassThrough(t *testing.T) {
	e := newTestEngine(&StubCollaborator{DescribeResult: "never used"})

	cases := []struct {
		capability  models.Capability
		contentType models.ContentType
	}{
		{models.CapabilityNone, models.ContentText},
		{models.CapabilityNone, models.ContentImage},
		{models.CapabilityNone, models.ContentAudio},
		{models.CapabilityMute, models.ContentText},
		{models.CapabilityMute, models.ContentImage},
		{models.CapabilityDeaf, models.ContentText},
		{models.CapabilityDeaf, models.ContentImage},
		{models.CapabilityBlind, models.ContentAudio},
	}
	for _, tc := range cases {
		out := e.Adapt(context.Background(), receiver(tc.capability), true, "payload", tc.contentType)
		assert.Equal(t, "payload", out.Content, "%s/%s", tc.capability, tc.contentType)
		assert.Equal(t, tc.contentType, out.Type, "%s/%s", tc.capability, tc.contentType)
		assert.Nil(t, out.Meta, "%s/%s", tc.capability, tc.contentType)
	}
}
