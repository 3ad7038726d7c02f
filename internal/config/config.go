package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config contains runtime configuration required by the service.
type Config struct {
	DBURL      string
	APIKey     string
	CORSOrigin string
	HTTPAddr   string
	LogLevel   string
	LogFormat  string

	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset. DB_URL may be empty; the caller then falls back to the
// in-memory collection.
func Load() (Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}

	requestTimeout, err := parseDuration("REQUEST_TIMEOUT", 5*time.Second)
	if err != nil {
		return Config{}, err
	}

	apiKey := strings.TrimSpace(os.Getenv("API_KEY"))
	// Local dev fallback so the service runs out-of-the-box.
	if apiKey == "" {
		apiKey = "dev-api-key-123"
	}

	return Config{
		DBURL:           strings.TrimSpace(os.Getenv("DB_URL")),
		APIKey:          apiKey,
		CORSOrigin:      envOrDefault("CORS_ORIGIN", "https://www.wildvisionhunt.com"),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		RequestTimeout:  requestTimeout,
	}, nil
}

func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration", key)
	}
	return d, nil
}
