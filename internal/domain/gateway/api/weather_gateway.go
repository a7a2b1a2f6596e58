package api

import (
	"context"
	"time"

	"weather-api/internal/domain/model/external"
)

// WeatherGateway defines the interface for OpenWeatherMap calls. Every method
// performs exactly one upstream request and returns *apperror.Error on failure.
type WeatherGateway interface {
	// CurrentWeather gets the current conditions of a city, metric units
	CurrentWeather(ctx context.Context, city string) (*external.CurrentWeatherDTO, error)

	// Forecast gets the 5 day / 3 hour forecast of a city, metric units
	Forecast(ctx context.Context, city string) (*external.ForecastDTO, error)

	// Geocode searches for cities by name
	// limit: maximum number of matches (1-5)
	Geocode(ctx context.Context, query string, limit int) ([]external.GeocodingDTO, error)
}

// UpstreamRecorder observes every upstream call
type UpstreamRecorder interface {
	ObserveUpstream(operation string, outcome string, elapsed time.Duration)
}

// GatewayConfig carries the OpenWeatherMap endpoints and credentials
type GatewayConfig struct {
	APIKey  string
	BaseURL string
	GeoURL  string
	Timeout time.Duration
}
