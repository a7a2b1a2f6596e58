package weather

import (
	"context"

	"weather-api/internal/domain/model"
)

type UseCase interface {
	// CurrentWeather returns the current conditions of a city
	CurrentWeather(ctx context.Context, city string) (*model.CurrentWeatherResponse, error)

	// Forecast returns up to five daily summaries of the 3-hour forecast of a city
	Forecast(ctx context.Context, city string) (*model.ForecastResponse, error)

	// SearchCities returns the geocoding matches of query, at most limit
	SearchCities(ctx context.Context, query string, limit int) (*model.CitySearchResponse, error)
}
