package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the relay hub.
type Config struct {
	Port string
	Env  string

	// CollaboratorURL is the base URL of the external description service.
	// Empty disables the live client; image adaptation then always takes
	// the fallback path.
	CollaboratorURL string

	// AdaptTimeout bounds a single collaborator call. On expiry the
	// engine falls back, it never retries.
	AdaptTimeout time.Duration

	// HazardWindow coalesces repeated hazards from the same origin and
	// type. Zero disables coalescing (fire-and-forget).
	HazardWindow time.Duration

	// SendBuffer is the per-connection outbound event buffer. A client
	// that falls this far behind is disconnected.
	SendBuffer int
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	return &Config{
		Port:            getEnv("PORT", "5000"),
		Env:             getEnv("ENV", "development"),
		CollaboratorURL: os.Getenv("AI_SERVICE_URL"),
		AdaptTimeout:    getDuration("ADAPT_TIMEOUT", 4*time.Second),
		HazardWindow:    getDuration("HAZARD_WINDOW", 0),
		SendBuffer:      getInt("SEND_BUFFER", 32),
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
