// Package cache provides caching decorators for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"journal_backend/internal/feature/greeting/domain/entity"
	"journal_backend/internal/feature/greeting/usecase"
)

// CachingWeatherRepository decorates a WeatherRepository with Redis caching.
// Cache failures are never surfaced; the inner repository is the source of truth.
type CachingWeatherRepository struct {
	inner     usecase.WeatherRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.WeatherRepository = (*CachingWeatherRepository)(nil)

// NewCachingWeatherRepository decorates a WeatherRepository with Redis caching.
// If ttl is 0, it defaults to 10 minutes. If namespace is empty, it uses "weather".
// A nil rdb disables caching.
func NewCachingWeatherRepository(rdb *redis.Client, ttl time.Duration, inner usecase.WeatherRepository, namespace string) *CachingWeatherRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if namespace == "" {
		namespace = "weather"
	}
	return &CachingWeatherRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Current returns the cached observation for location, falling back to the inner repository.
func (c *CachingWeatherRepository) Current(ctx context.Context, location string) (entity.Weather, error) {
	if c.rdb == nil {
		return c.inner.Current(ctx, location)
	}

	key := c.cacheKey(location)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.Weather
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// corrupted entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.Current(ctx, location)
	if err != nil {
		return entity.Weather{}, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

// Invalidate drops the cached observation for location.
func (c *CachingWeatherRepository) Invalidate(ctx context.Context, location string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, c.cacheKey(location)).Err()
}

func (c *CachingWeatherRepository) cacheKey(location string) string {
	return fmt.Sprintf("%s:current:%s", c.namespace, safe(strings.ToLower(location)))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
