package adapt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/describe", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "<b64>", req["image_base64"])

		json.NewEncoder(w).Encode(map[string]string{"description": "a person sitting in front of a computer"})
	}))
	defer srv.Close()

	c := NewHTTPCollaborator(srv.URL, time.Second)
	desc, err := c.Describe(context.Background(), "<b64>")
	require.NoError(t, err)
	assert.Equal(t, "a person sitting in front of a computer", desc)
}

func TestDescribeNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPCollaborator(srv.URL, time.Second)
	_, err := c.Describe(context.Background(), "<b64>")
	assert.Error(t, err)
}

func TestDescribeMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewHTTPCollaborator(srv.URL, time.Second)
	_, err := c.Describe(context.Background(), "<b64>")
	assert.Error(t, err)
}

func TestDescribeEmptyDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"description": ""})
	}))
	defer srv.Close()

	c := NewHTTPCollaborator(srv.URL, time.Second)
	_, err := c.Describe(context.Background(), "<b64>")
	assert.Error(t, err)
}

func TestDescribeTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	c := NewHTTPCollaborator(srv.URL, 100*time.Millisecond)

	start := time.Now()
	_, err := c.Describe(context.Background(), "<b64>")
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDescribeUnreachable(t *testing.T) {
	c := NewHTTPCollaborator("http://127.0.0.1:1", 100*time.Millisecond)
	_, err := c.Describe(context.Background(), "<b64>")
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"status": "online"})
	}))
	defer srv.Close()

	c := NewHTTPCollaborator(srv.URL, time.Second)
	assert.NoError(t, c.Ping(context.Background()))

	c = NewHTTPCollaborator("http://127.0.0.1:1", 100*time.Millisecond)
	assert.Error(t, c.Ping(context.Background()))
}

func TestStubTranscribe(t *testing.T) {
	s := &StubCollaborator{}
	transcript, err := s.Transcribe(context.Background(), "<audio>")
	require.NoError(t, err)
	assert.Equal(t, "Transcribed Audio: [Simulated AI Text]", transcript)
}
