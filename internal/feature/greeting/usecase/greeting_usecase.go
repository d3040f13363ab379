// Package usecase builds the per-user greeting.
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"journal_backend/internal/feature/greeting/domain/entity"
)

// WeatherRepository looks up current weather for a location.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type WeatherRepository interface {
	Current(ctx context.Context, location string) (entity.Weather, error)
}

type greetingUsecase struct {
	weather  WeatherRepository
	location string
}

// NewGreetingUsecase creates a greeting usecase. A nil weather repository or an
// empty location disables the weather part of the greeting.
func NewGreetingUsecase(weather WeatherRepository, location string) *greetingUsecase {
	return &greetingUsecase{weather: weather, location: location}
}

// Greet returns "Hi <username>, Weather feels like <n>", or "Hi <username>" when
// the weather cannot be looked up. A weather failure never fails the greeting.
func (g *greetingUsecase) Greet(ctx context.Context, username string) string {
	base := "Hi " + username
	if g.weather == nil || g.location == "" {
		return base
	}
	w, err := g.weather.Current(ctx, g.location)
	if err != nil {
		slog.Warn("weather lookup failed", "location", g.location, "error", err)
		return base
	}
	return fmt.Sprintf("%s, Weather feels like %d", base, w.FeelsLike)
}
