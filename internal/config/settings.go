package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Settings holds runtime settings read from the environment
type Settings struct {
	LogLevel       string
	LogFormat      string
	Workers        int // 0 means one per CPU, less one
	Simulations    int
	HTTPAddr       string
	RequestTimeout time.Duration
	HistoricalCSV  string // optional dataset replacing the built-in one
}

// LoadSettings reads Settings from the environment. Files are loaded with godotenv
// first; missing files are ignored and existing variables are never overridden.
func LoadSettings(envFiles ...string) *Settings {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else {
		for _, f := range envFiles {
			_ = godotenv.Load(f)
		}
	}

	return &Settings{
		LogLevel:       getEnv("FIRE_LOG_LEVEL", "info"),
		LogFormat:      getEnv("FIRE_LOG_FORMAT", "text"),
		Workers:        getEnvInt("FIRE_WORKERS", 0),
		Simulations:    getEnvInt("FIRE_SIMULATIONS", DefaultNumSimulations),
		HTTPAddr:       getEnv("FIRE_HTTP_ADDR", ":8080"),
		RequestTimeout: getEnvDuration("FIRE_REQUEST_TIMEOUT", 60*time.Second),
		HistoricalCSV:  getEnv("FIRE_HISTORICAL_CSV", ""),
	}
}

// Validate validates the settings and returns an error listing every problem
func (s *Settings) Validate() error {
	var errors []string

	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s'", s.LogLevel))
	}
	switch strings.ToLower(s.LogFormat) {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be text or json", s.LogFormat))
	}
	if s.Workers < 0 {
		errors = append(errors, fmt.Sprintf("invalid workers %d: cannot be negative", s.Workers))
	}
	if s.Simulations < 1 || s.Simulations > MaxNumSimulations {
		errors = append(errors, fmt.Sprintf("invalid simulations %d: must be between 1 and %d", s.Simulations, MaxNumSimulations))
	}
	if s.HTTPAddr == "" {
		errors = append(errors, "HTTP address cannot be empty")
	}
	if s.RequestTimeout <= 0 {
		errors = append(errors, "request timeout must be positive")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
