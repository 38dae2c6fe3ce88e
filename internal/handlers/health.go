package handlers

import (
	"context"
	"net/http"
	"time"
)

const version = "0.1.0"

// Check represents the status of a health check.
type Check struct {
	Status  string `json:"status"`            // "pass" or "fail"
	Latency string `json:"latency,omitempty"` // e.g., "2ms"
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status       string           `json:"status"` // "healthy" or "degraded"
	Version      string           `json:"version"`
	Participants int              `json:"participants"`
	Checks       map[string]Check `json:"checks"`
	Timestamp    string           `json:"timestamp"`
}

// Health handles the health check endpoint. A missing or unreachable
// collaborator degrades the service but does not fail it: image
// adaptation falls back, everything else keeps working.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]Check)
	status := "healthy"
	statusCode := http.StatusOK

	if h.pinger != nil {
		start := time.Now()
		if err := h.pinger.Ping(ctx); err != nil {
			checks["collaborator"] = Check{Status: "fail", Message: "unreachable"}
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
		} else {
			checks["collaborator"] = Check{Status: "pass", Latency: time.Since(start).String()}
		}
	} else {
		checks["collaborator"] = Check{Status: "fail", Message: "not configured"}
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	resp := HealthResponse{
		Status:       status,
		Version:      version,
		Participants: h.registry.Len(),
		Checks:       checks,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}

	h.JSON(w, statusCode, resp)
}

// RootResponse represents the root endpoint response.
type RootResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Root handles the root endpoint.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, RootResponse{
		Name:    "SenseMesh",
		Version: version,
	})
}
