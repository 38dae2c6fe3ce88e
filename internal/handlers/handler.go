package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/shashshekh8-jpg/sense-mesh/internal/adapt"
	"github.com/shashshekh8-jpg/sense-mesh/internal/hub"
	"github.com/shashshekh8-jpg/sense-mesh/internal/registry"
)

// Pinger is the health-check view of the external collaborator.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	hub      *hub.Hub
	registry *registry.SessionRegistry
	engine   *adapt.Engine
	pinger   Pinger
	validate *validator.Validate
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a new Handler. pinger may be nil when no
// collaborator is configured.
func NewHandler(h *hub.Hub, reg *registry.SessionRegistry, engine *adapt.Engine, pinger Pinger, log zerolog.Logger) *Handler {
	return &Handler{
		hub:      h,
		registry: reg,
		engine:   engine,
		pinger:   pinger,
		validate: validator.New(),
		log:      log,
		upgrader: websocket.Upgrader{
			// Permissive by design: clients connect from anywhere and
			// there is no origin-based trust model.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}
