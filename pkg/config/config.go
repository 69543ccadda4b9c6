// Package config loads process-wide configuration from the environment.
// The returned Config is constructed once at startup and passed explicitly
// to the components that need it; nothing reads ambient globals afterwards.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultHTTPPort       = "8080"
	DefaultConnectionName = "oppdesarrollo_postgres"
	DefaultLLMModel       = "gemini-2.5-pro"
	DefaultDBTimeout      = 5 * time.Second
	DefaultLLMTimeout     = 45 * time.Second
)

// Config holds everything the process reads from the environment.
type Config struct {
	// HTTP server binding.
	HTTPPort string
	// Directory with the static dashboard files; empty disables serving them.
	DashboardDir string

	// Orchestrator (Airflow) REST API. Empty BaseURL disables the
	// orchestrator lookup entirely; resolution then uses the environment.
	OrchestratorBaseURL  string
	OrchestratorUser     string
	OrchestratorPassword string
	// Name of the stored connection definition to prefer.
	ConnectionName string

	// LLM settings. An empty APIKey disables the chat capability; the data
	// endpoints keep working.
	LLMAPIKey  string
	LLMModel   string
	LLMBaseURL string
	LLMTimeout time.Duration

	// Per-query database deadline.
	DBTimeout time.Duration
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	dbTimeout, err := durationEnv("DB_TIMEOUT", DefaultDBTimeout)
	if err != nil {
		return nil, err
	}
	llmTimeout, err := durationEnv("LLM_TIMEOUT", DefaultLLMTimeout)
	if err != nil {
		return nil, err
	}

	return &Config{
		HTTPPort:     getEnvOrDefault("HTTP_PORT", DefaultHTTPPort),
		DashboardDir: os.Getenv("DASHBOARD_DIR"),

		OrchestratorBaseURL:  os.Getenv("AIRFLOW_BASE_URL"),
		OrchestratorUser:     os.Getenv("AIRFLOW_API_USER"),
		OrchestratorPassword: os.Getenv("AIRFLOW_API_PASSWORD"),
		ConnectionName:       getEnvOrDefault("POSTGRES_CONN_ID", DefaultConnectionName),

		LLMAPIKey:  os.Getenv("LLM_API_KEY"),
		LLMModel:   getEnvOrDefault("LLM_MODEL", DefaultLLMModel),
		LLMBaseURL: os.Getenv("LLM_BASE_URL"),
		LLMTimeout: llmTimeout,

		DBTimeout: dbTimeout,
	}, nil
}

// ChatEnabled reports whether the chat capability is configured.
func (c *Config) ChatEnabled() bool {
	return c.LLMAPIKey != ""
}

func durationEnv(key string, defaultVal time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal, nil
	}
	// Accept plain seconds for operator convenience.
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
