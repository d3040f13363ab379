// Package config loads and validates the server configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"journal_backend/internal/platform/db"
	"journal_backend/internal/platform/externalapi/weatherstack"
	"journal_backend/internal/platform/redis"
)

const (
	BackendSQL   = "sql"
	BackendRedis = "redis"
)

// Config is the full server configuration.
type Config struct {
	HTTPAddr              string        `validate:"required"`
	StoreBackend          string        `validate:"oneof=sql redis"`
	JWTSecret             string        `validate:"required,min=16"`
	JWTTTL                time.Duration `validate:"gt=0"`
	BcryptCost            int           `validate:"min=4,max=31"`
	IntegrityScanInterval time.Duration `validate:"gte=0"`
	LogLevel              string        `validate:"oneof=debug info warn error"`
	WeatherCity           string
	WeatherCacheTTL       time.Duration `validate:"gte=0"`
	TxMaxRetries          uint64        `validate:"lte=10"`

	DB      db.Config
	Redis   redis.Config
	Weather weatherstack.Config
}

// Load reads envFile when it exists, then the environment, and validates the result.
func Load(envFile string) (Config, error) {
	cfg, err := read(envFile)
	if err != nil {
		return Config{}, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadStore is Load for the command line tools, which never issue tokens and so
// do not need JWT_SECRET.
func LoadStore(envFile string) (Config, error) {
	cfg, err := read(envFile)
	if err != nil {
		return Config{}, err
	}
	if err := validator.New().StructExcept(cfg, "JWTSecret", "JWTTTL"); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func read(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("load %s: %w", envFile, err)
			}
			slog.Info(".env not found; using system environment variables", "path", envFile)
		}
	}

	var errs []error
	cfg := Config{
		HTTPAddr:              getenv("HTTP_ADDR", ":8080"),
		StoreBackend:          strings.ToLower(getenv("STORE_BACKEND", BackendSQL)),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		JWTTTL:                duration("JWT_TTL", time.Hour, &errs),
		BcryptCost:            integer("BCRYPT_COST", 10, &errs),
		IntegrityScanInterval: duration("INTEGRITY_SCAN_INTERVAL", 15*time.Minute, &errs),
		LogLevel:              strings.ToLower(getenv("LOG_LEVEL", "info")),
		WeatherCity:           os.Getenv("WEATHER_CITY"),
		WeatherCacheTTL:       duration("WEATHER_CACHE_TTL", 10*time.Minute, &errs),
		TxMaxRetries:          uint64(integer("TX_MAX_RETRIES", 3, &errs)),
		DB:                    db.LoadConfigFromEnv(),
		Redis:                 redis.LoadConfigFromEnv(),
		Weather:               weatherstack.LoadConfig(),
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SlogLevel converts LogLevel.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func duration(key string, def time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func integer(key string, def int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		*errs = append(*errs, fmt.Errorf("%s: not a non-negative integer: %q", key, v))
		return def
	}
	return n
}
