// Package config provides application configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server configuration
	ListenAddr string

	// Simulation engine
	EngineBaseURL string
	EngineTimeout time.Duration

	// Audio / pacing
	AudioBaseURL string
	AudioEnabled bool
	AudioTimeout time.Duration
	EventDelay   time.Duration
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		EngineBaseURL: getEnv("ENGINE_BASE_URL", "http://localhost:8000"),
		EngineTimeout: getDuration("ENGINE_TIMEOUT_SEC", 10*time.Second),
		AudioBaseURL:  getEnv("AUDIO_BASE_URL", "http://localhost:8000"),
		AudioEnabled:  getBool("AUDIO_ENABLED", true),
		AudioTimeout:  getDuration("AUDIO_TIMEOUT_SEC", 10*time.Second),
		EventDelay:    getMillis("EVENT_DELAY_MS", 1500*time.Millisecond),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}

func getMillis(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms < 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}
