// Package dto defines data transfer objects for weatherstack API responses.
package dto

// CurrentResponse is the body of GET /current. On failure the API answers 200
// with Success=false and Error set.
type CurrentResponse struct {
	Success *bool `json:"success,omitempty"`
	Error   *struct {
		Code int    `json:"code"`
		Type string `json:"type"`
		Info string `json:"info"`
	} `json:"error,omitempty"`
	Location struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"location"`
	Current *struct {
		ObservationTime string `json:"observation_time"`
		Temperature     int    `json:"temperature"`
		FeelsLike       int    `json:"feelslike"`
	} `json:"current"`
}
