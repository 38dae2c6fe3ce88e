package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/shashshekh8-jpg/sense-mesh/internal/adapt"
	"github.com/shashshekh8-jpg/sense-mesh/internal/api"
	"github.com/shashshekh8-jpg/sense-mesh/internal/config"
	"github.com/shashshekh8-jpg/sense-mesh/internal/handlers"
	"github.com/shashshekh8-jpg/sense-mesh/internal/hub"
	"github.com/shashshekh8-jpg/sense-mesh/internal/registry"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	// Wire the adaptation collaborators. Without a collaborator URL the
	// engine serves the fixed fallback for image content.
	var describer adapt.Describer
	var pinger handlers.Pinger
	if cfg.CollaboratorURL != "" {
		collaborator := adapt.NewHTTPCollaborator(cfg.CollaboratorURL, cfg.AdaptTimeout)
		describer = collaborator
		pinger = collaborator
		logger.Info().Str("url", cfg.CollaboratorURL).Msg("description service configured")
	} else {
		logger.Warn().Msg("AI_SERVICE_URL not set, image adaptation will use the fallback")
	}

	engine := adapt.NewEngine(describer, &adapt.StubCollaborator{}, cfg.AdaptTimeout, logger)

	// Session state lives only in memory and only for this process.
	reg := registry.New()
	relay := hub.New(reg, cfg.SendBuffer, cfg.HazardWindow, logger)

	// Create router
	h := handlers.NewHandler(relay, reg, engine, pinger, logger)
	router := api.NewRouter(logger, h)

	// Create server
	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 0, // websocket connections are long-lived
		IdleTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Msg("starting SenseMesh relay")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down relay...")

	// Close live connections so their read loops unwind, then drain the
	// HTTP server with a 30 second bound.
	relay.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("relay stopped")
}
