// Package entity defines the weather observation used by the greeting.
package entity

import "time"

// Weather is the current observation for a location.
type Weather struct {
	Location   string    `json:"location"`
	FeelsLike  int       `json:"feels_like"`
	ObservedAt time.Time `json:"observed_at"`
}
