package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sensemesh_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sensemesh_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Connection metrics
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sensemesh_active_connections",
			Help: "Currently open websocket connections",
		},
	)

	ParticipantsJoined = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sensemesh_participants_joined_total",
			Help: "Total participants that completed a join handshake",
		},
	)

	// Relay metrics
	MessagesRelayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sensemesh_messages_relayed_total",
			Help: "Total send events by outcome",
		},
		[]string{"outcome"}, // "delivered", "dropped", "rejected"
	)

	Adaptations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sensemesh_adaptations_total",
			Help: "Total adaptation decisions by rule",
		},
		[]string{"rule"}, // "transcribe", "describe", "describe_fallback", "auto_read", "passthrough"
	)

	Hazards = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sensemesh_hazards_total",
			Help: "Total hazard events by outcome",
		},
		[]string{"outcome"}, // "fanout", "coalesced"
	)

	// Collaborator metrics
	CollaboratorDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sensemesh_collaborator_duration_seconds",
			Help:    "Description service request duration",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	CollaboratorFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sensemesh_collaborator_failures_total",
			Help: "Total failed description service calls",
		},
	)
)
