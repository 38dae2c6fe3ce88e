package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Empty(t, cfg.CollaboratorURL)
	assert.Equal(t, 4*time.Second, cfg.AdaptTimeout)
	assert.Zero(t, cfg.HazardWindow)
	assert.Equal(t, 32, cfg.SendBuffer)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("AI_SERVICE_URL", "http://ai.internal:8000")
	t.Setenv("ADAPT_TIMEOUT", "2s")
	t.Setenv("HAZARD_WINDOW", "500ms")
	t.Setenv("SEND_BUFFER", "64")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "http://ai.internal:8000", cfg.CollaboratorURL)
	assert.Equal(t, 2*time.Second, cfg.AdaptTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.HazardWindow)
	assert.Equal(t, 64, cfg.SendBuffer)
}

func TestBadValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("ADAPT_TIMEOUT", "soon")
	t.Setenv("SEND_BUFFER", "-3")

	cfg := Load()

	assert.Equal(t, 4*time.Second, cfg.AdaptTimeout)
	assert.Equal(t, 32, cfg.SendBuffer)
}
