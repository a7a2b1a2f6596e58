package weather

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"weather-api/internal/domain/apperror"
	"weather-api/internal/domain/gateway/api"
	"weather-api/internal/domain/model"
	"weather-api/internal/domain/model/external"
	"weather-api/pkg/log"
	"weather-api/pkg/msg"
)

type weatherUseCase struct {
	apiGateway api.WeatherGateway
	dateZone   DateZone
}

func NewWeatherUseCase(apiGateway api.WeatherGateway, dateZone DateZone) UseCase {
	return &weatherUseCase{
		apiGateway: apiGateway,
		dateZone:   dateZone,
	}
}

// CurrentWeather returns the current conditions of a city
func (uc *weatherUseCase) CurrentWeather(ctx context.Context, city string) (*model.CurrentWeatherResponse, error) {
	if city == "" {
		return nil, apperror.Validation("city is required")
	}

	dto, err := uc.apiGateway.CurrentWeather(ctx, city)
	if err != nil {
		logFailure("current_weather", city, err)
		return nil, err
	}

	log.Info(msg.GetMessage("weather.current-ok", city), zap.String("city", city))
	return toCurrentWeather(dto), nil
}

// Forecast returns up to five daily summaries of the 3-hour forecast of a city
func (uc *weatherUseCase) Forecast(ctx context.Context, city string) (*model.ForecastResponse, error) {
	if city == "" {
		return nil, apperror.Validation("city is required")
	}

	dto, err := uc.apiGateway.Forecast(ctx, city)
	if err != nil {
		logFailure("forecast", city, err)
		return nil, err
	}

	forecastCity := deref(dto.City)
	days := AggregateDays(dto.List, uc.dateZone.location(forecastCity.Timezone))

	log.Info(msg.GetMessage("weather.forecast-ok", len(days), city),
		zap.String("city", city),
		zap.Int("samples", len(dto.List)),
		zap.Int("days", len(days)),
	)
	return &model.ForecastResponse{
		CityName: deref(forecastCity.Name),
		Country:  deref(forecastCity.Country),
		Forecast: days,
	}, nil
}

// SearchCities returns the geocoding matches of query, order preserved
func (uc *weatherUseCase) SearchCities(ctx context.Context, query string, limit int) (*model.CitySearchResponse, error) {
	if query == "" {
		return nil, apperror.Validation("q is required")
	}
	if limit < 1 {
		return nil, apperror.Validation(fmt.Sprintf("limit must be positive, got %d", limit))
	}

	matches, err := uc.apiGateway.Geocode(ctx, query, limit)
	if err != nil {
		logFailure("search_cities", query, err)
		return nil, err
	}

	results := make([]model.CitySearchResult, 0, len(matches))
	for _, match := range matches {
		results = append(results, toCitySearchResult(match))
	}

	log.Info(msg.GetMessage("weather.search-ok", len(results), query), zap.String("query", query))
	return &model.CitySearchResponse{Results: results}, nil
}

func logFailure(operation, subject string, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) && appErr.Kind == apperror.KindNotFound {
		log.Warn(msg.GetMessage("weather.not-found", subject), zap.String("operation", operation))
		return
	}
	log.Error(msg.GetMessage("weather.upstream-fail", operation, apperror.Message(err)),
		zap.String("operation", operation),
		zap.String("subject", subject),
		zap.String("kind", apperror.KindOf(err).String()),
		zap.Error(err),
	)
}

func toCurrentWeather(dto *external.CurrentWeatherDTO) *model.CurrentWeatherResponse {
	condition := primaryCondition(dto.Weather)
	readings := deref(dto.Main)
	return &model.CurrentWeatherResponse{
		CityName:    deref(dto.Name),
		Country:     deref(deref(dto.Sys).Country),
		Temperature: readings.Temp,
		FeelsLike:   readings.FeelsLike,
		Description: condition.Description,
		Icon:        condition.Icon,
		Humidity:    readings.Humidity,
		WindSpeed:   deref(dto.Wind).Speed,
		Pressure:    readings.Pressure,
		TempMin:     readings.TempMin,
		TempMax:     readings.TempMax,
	}
}

func toCitySearchResult(dto external.GeocodingDTO) model.CitySearchResult {
	return model.CitySearchResult{
		Name:    dto.Name,
		Country: dto.Country,
		State:   dto.State,
		Lat:     deref(dto.Lat),
		Lon:     deref(dto.Lon),
	}
}

// deref returns the zero value for fields the gateway already checked for presence
func deref[T any](value *T) T {
	if value == nil {
		var zero T
		return zero
	}
	return *value
}
