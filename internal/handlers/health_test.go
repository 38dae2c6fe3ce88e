package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashshekh8-jpg/sense-mesh/internal/adapt"
	"github.com/shashshekh8-jpg/sense-mesh/internal/handlers"
	"github.com/shashshekh8-jpg/sense-mesh/internal/hub"
	"github.com/shashshekh8-jpg/sense-mesh/internal/registry"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

func newHealthHandler(pinger handlers.Pinger) *handlers.Handler {
	log := zerolog.Nop()
	reg := registry.New()
	relay := hub.New(reg, 32, 0, log)
	engine := adapt.NewEngine(nil, &adapt.StubCollaborator{}, 0, log)
	return handlers.NewHandler(relay, reg, engine, pinger, log)
}

func TestHealthHealthy(t *testing.T) {
	h := newHealthHandler(fakePinger{})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handlers.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "pass", resp.Checks["collaborator"].Status)
}

func TestHealthDegradedWhenCollaboratorDown(t *testing.T) {
	h := newHealthHandler(fakePinger{err: errors.New("refused")})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp handlers.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
}

func TestHealthDegradedWhenCollaboratorMissing(t *testing.T) {
	h := newHealthHandler(nil)

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp handlers.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "fail", resp.Checks["collaborator"].Status)
	assert.Equal(t, "not configured", resp.Checks["collaborator"].Message)
}
