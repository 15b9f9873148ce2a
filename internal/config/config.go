// Package config loads process configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every knob the two binaries read.
type Config struct {
	AccountURL     string
	APIToken       string
	AgentRef       string
	ScoringModel   string
	DatabaseURL    string
	RequestTimeout time.Duration
	Workers        int
	OriginTag      string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() *Config {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	return &Config{
		AccountURL:     getEnv("EXECBRIEF_ACCOUNT_URL", ""),
		APIToken:       getEnv("EXECBRIEF_API_TOKEN", ""),
		AgentRef:       getEnv("EXECBRIEF_AGENT", "executive_review_agent"),
		ScoringModel:   getEnv("EXECBRIEF_SCORING_MODEL", "scorer-large"),
		DatabaseURL:    getEnv("EXECBRIEF_DATABASE_URL", ""),
		RequestTimeout: getDuration("EXECBRIEF_REQUEST_TIMEOUT", 60*time.Second),
		Workers:        getInt("EXECBRIEF_WORKERS", 1),
		OriginTag:      getEnv("EXECBRIEF_ORIGIN", "execbrief"),
	}
}

// Validate checks the fields the batch run cannot proceed without. The judge
// CLI has a narrower requirement and calls ValidateScoring instead.
func (c *Config) Validate() error {
	if c.AccountURL == "" {
		return fmt.Errorf("EXECBRIEF_ACCOUNT_URL is required")
	}
	if c.APIToken == "" {
		return fmt.Errorf("EXECBRIEF_API_TOKEN is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("EXECBRIEF_DATABASE_URL is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("EXECBRIEF_WORKERS must be at least 1, got %d", c.Workers)
	}
	return nil
}

// ValidateScoring checks the fields the judge CLI needs.
func (c *Config) ValidateScoring() error {
	if c.AccountURL == "" {
		return fmt.Errorf("EXECBRIEF_ACCOUNT_URL is required")
	}
	if c.ScoringModel == "" {
		return fmt.Errorf("EXECBRIEF_SCORING_MODEL is required")
	}
	return nil
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
	if err != nil {
		return defaultValue
	}
	return n
}
