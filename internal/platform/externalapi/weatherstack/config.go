// Package weatherstack provides a client for the weatherstack current-weather API.
package weatherstack

import (
	"os"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL is used when WEATHER_BASE_URL is unset.
	DefaultBaseURL = "http://api.weatherstack.com"
	// DefaultRateLimit is the number of calls allowed per minute when WEATHER_RATE_LIMIT is unset.
	DefaultRateLimit = 60
)

// Config holds configuration for the weatherstack client.
type Config struct {
	APIKey    string        // access_key query parameter
	BaseURL   string        // e.g. "http://api.weatherstack.com"
	Timeout   time.Duration // HTTP request timeout
	RateLimit int           // calls per minute
}

// Enabled reports whether an API key is configured.
func (c Config) Enabled() bool {
	return c.APIKey != ""
}

// LoadConfig loads weatherstack configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		APIKey:    os.Getenv("WEATHER_API_KEY"),
		BaseURL:   os.Getenv("WEATHER_BASE_URL"),
		Timeout:   10 * time.Second,
		RateLimit: DefaultRateLimit,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if n, err := strconv.Atoi(os.Getenv("WEATHER_RATE_LIMIT")); err == nil && n > 0 {
		cfg.RateLimit = n
	}
	return cfg
}
