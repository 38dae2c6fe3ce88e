package adapt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shashshekh8-jpg/sense-mesh/internal/metrics"
)

// Describer turns an image payload into a spoken-word description.
// The live implementation calls the external AI engine; tests use the
// deterministic stub.
type Describer interface {
	Describe(ctx context.Context, imageBase64 string) (string, error)
}

// Transcriber turns an audio payload into a text transcript. There is
// no live transcription endpoint yet, so the stub stands in as the
// named dependency point.
type Transcriber interface {
	Transcribe(ctx context.Context, audioBase64 string) (string, error)
}

type describeRequest struct {
	ImageBase64 string `json:"image_base64"`
}

type describeResponse struct {
	Description string `json:"description"`
}

// HTTPCollaborator calls the external description service over HTTP.
type HTTPCollaborator struct {
	baseURL string
	client  *http.Client
}

// NewHTTPCollaborator creates a client for the description service at
// baseURL. The timeout bounds a whole request; the engine never retries.
func NewHTTPCollaborator(baseURL string, timeout time.Duration) *HTTPCollaborator {
	return &HTTPCollaborator{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Describe posts the image to the collaborator's /describe endpoint.
func (c *HTTPCollaborator) Describe(ctx context.Context, imageBase64 string) (string, error) {
	start := time.Now()
	desc, err := c.describe(ctx, imageBase64)
	metrics.CollaboratorDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CollaboratorFailures.Inc()
	}
	return desc, err
}

func (c *HTTPCollaborator) describe(ctx context.Context, imageBase64 string) (string, error) {
	body, err := json.Marshal(describeRequest{ImageBase64: imageBase64})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/describe", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("description service returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	var out describeResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("malformed description response: %w", err)
	}
	if out.Description == "" {
		return "", fmt.Errorf("description response missing description")
	}
	return out.Description, nil
}

// Ping checks the collaborator's health endpoint.
func (c *HTTPCollaborator) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("description service returned %d", resp.StatusCode)
	}
	return nil
}

// StubCollaborator is a deterministic in-process collaborator for tests
// and for transcription, which has no live endpoint.
type StubCollaborator struct {
	DescribeResult string
	DescribeErr    error
}

// Describe returns the configured result.
func (s *StubCollaborator) Describe(ctx context.Context, imageBase64 string) (string, error) {
	return s.DescribeResult, s.DescribeErr
}

// Transcribe returns the fixed placeholder transcript.
func (s *StubCollaborator) Transcribe(ctx context.Context, audioBase64 string) (string, error) {
	return "Transcribed Audio: [Simulated AI Text]", nil
}
