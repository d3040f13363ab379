package weatherstack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"journal_backend/internal/feature/greeting/domain/entity"
	"journal_backend/internal/feature/greeting/usecase"
	"journal_backend/internal/platform/externalapi/weatherstack/dto"
	"journal_backend/internal/shared/ratelimiter"
)

// ErrNoObservation is returned when the API answers without current conditions.
var ErrNoObservation = errors.New("weatherstack: no current observation")

// Client is a WeatherRepository backed by the weatherstack API.
type Client struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.Waiter
	now     func() time.Time
}

var _ usecase.WeatherRepository = (*Client)(nil)

// NewClient creates a Client. limiter may be nil to disable rate limiting.
func NewClient(cfg Config, client *http.Client, limiter ratelimiter.Waiter) *Client {
	return &Client{cfg: cfg, client: client, limiter: limiter, now: time.Now}
}

// Current fetches current conditions for location.
func (c *Client) Current(ctx context.Context, location string) (entity.Weather, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return entity.Weather{}, err
		}
	}

	q := url.Values{}
	q.Set("access_key", c.cfg.APIKey)
	q.Set("query", location)
	u := fmt.Sprintf("%s/current?%s", c.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return entity.Weather{}, err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return entity.Weather{}, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return entity.Weather{}, fmt.Errorf("weatherstack http %d", res.StatusCode)
	}

	var body dto.CurrentResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return entity.Weather{}, err
	}
	if body.Error != nil || (body.Success != nil && !*body.Success) {
		info := "unknown error"
		if body.Error != nil {
			info = fmt.Sprintf("%s (%d): %s", body.Error.Type, body.Error.Code, body.Error.Info)
		}
		return entity.Weather{}, fmt.Errorf("weatherstack: %s", info)
	}
	if body.Current == nil {
		return entity.Weather{}, ErrNoObservation
	}

	name := body.Location.Name
	if name == "" {
		name = location
	}
	return entity.Weather{
		Location:   name,
		FeelsLike:  body.Current.FeelsLike,
		ObservedAt: c.now().UTC(),
	}, nil
}
