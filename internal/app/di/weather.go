package di

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"journal_backend/internal/feature/greeting/usecase"
	"journal_backend/internal/platform/cache"
	"journal_backend/internal/platform/externalapi/weatherstack"
	infrahttp "journal_backend/internal/platform/http"
	"journal_backend/internal/shared/ratelimiter"
)

// NewWeatherRepository creates the rate-limited, cached weatherstack client.
// It returns nil when no API key is configured; the greeting then omits the weather.
func NewWeatherRepository(cfg weatherstack.Config, rdb *redis.Client, ttl time.Duration) usecase.WeatherRepository {
	if !cfg.Enabled() {
		slog.Info("WEATHER_API_KEY not set; greeting without weather")
		return nil
	}
	client := weatherstack.NewClient(
		cfg,
		infrahttp.NewHTTPClient(cfg.Timeout),
		ratelimiter.NewRateLimiter(cfg.RateLimit, time.Minute),
	)
	return cache.NewCachingWeatherRepository(rdb, ttl, client, "weather")
}
