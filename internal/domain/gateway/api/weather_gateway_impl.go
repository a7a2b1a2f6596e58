package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	nethttp "net/http"
	"strconv"
	"time"

	"weather-api/internal/domain/apperror"
	"weather-api/internal/domain/model/external"
	"weather-api/pkg/http"
)

const (
	OperationCurrentWeather = "current_weather"
	OperationForecast       = "forecast"
	OperationGeocode        = "geocode"
)

// weatherGatewayImpl implements the WeatherGateway interface
type weatherGatewayImpl struct {
	apiKey   string
	timeout  time.Duration
	dataAPI  *http.Client
	geoAPI   *http.Client
	recorder UpstreamRecorder
}

// NewWeatherGateway creates a new instance of WeatherGateway with HTTP clients for the data and geocoding APIs
func NewWeatherGateway(cfg GatewayConfig, clientOptions http.ClientOptions, recorder UpstreamRecorder) WeatherGateway {
	if clientOptions.ReadTimeout == 0 {
		clientOptions.ReadTimeout = cfg.Timeout
	}
	if clientOptions.DefaultHeaders == nil {
		clientOptions.DefaultHeaders = map[string]string{"Accept": "application/json"}
	}

	return &weatherGatewayImpl{
		apiKey:   cfg.APIKey,
		timeout:  cfg.Timeout,
		dataAPI:  http.NewHttpClient(cfg.BaseURL, clientOptions),
		geoAPI:   http.NewHttpClient(cfg.GeoURL, clientOptions),
		recorder: recorder,
	}
}

// CurrentWeather gets the current conditions of a city
func (w *weatherGatewayImpl) CurrentWeather(ctx context.Context, city string) (*external.CurrentWeatherDTO, error) {
	ctx, cancel := w.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	successResp, _, status, err := w.dataAPI.Request().
		WithContext(ctx).
		WithMethod(http.GET).
		WithPath("/weather").
		WithQueryParams(w.cityQuery(city)).
		WithSuccessResp(&external.CurrentWeatherDTO{}).
		WithErrorResp(&external.APIErrorResponse{}).
		Execute()

	if err != nil {
		err = classify(err, status, apperror.NotFound(city), "fetch weather data")
		w.observe(OperationCurrentWeather, err, start)
		return nil, err
	}

	response := successResp.(*external.CurrentWeatherDTO)
	if err := response.Validate(); err != nil {
		err = apperror.Unexpected(err)
		w.observe(OperationCurrentWeather, err, start)
		return nil, err
	}

	w.observe(OperationCurrentWeather, nil, start)
	return response, nil
}

// Forecast gets the 3-hour forecast samples of a city
func (w *weatherGatewayImpl) Forecast(ctx context.Context, city string) (*external.ForecastDTO, error) {
	ctx, cancel := w.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	successResp, _, status, err := w.dataAPI.Request().
		WithContext(ctx).
		WithMethod(http.GET).
		WithPath("/forecast").
		WithQueryParams(w.cityQuery(city)).
		WithSuccessResp(&external.ForecastDTO{}).
		WithErrorResp(&external.APIErrorResponse{}).
		Execute()

	if err != nil {
		err = classify(err, status, apperror.NotFound(city), "fetch forecast data")
		w.observe(OperationForecast, err, start)
		return nil, err
	}

	response := successResp.(*external.ForecastDTO)
	if err := response.Validate(); err != nil {
		err = apperror.Unexpected(err)
		w.observe(OperationForecast, err, start)
		return nil, err
	}

	w.observe(OperationForecast, nil, start)
	return response, nil
}

// Geocode searches for cities by name
func (w *weatherGatewayImpl) Geocode(ctx context.Context, query string, limit int) ([]external.GeocodingDTO, error) {
	ctx, cancel := w.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	successResp, _, status, err := w.geoAPI.Request().
		WithContext(ctx).
		WithMethod(http.GET).
		WithPath("/direct").
		WithQueryParams(map[string]string{
			"q":     query,
			"limit": strconv.Itoa(limit),
			"appid": w.apiKey,
		}).
		WithSuccessResp(&[]external.GeocodingDTO{}).
		WithErrorResp(&external.APIErrorResponse{}).
		Execute()

	if err != nil {
		// geocoding answers an empty list for unknown names, a 404 is a provider failure
		err = classify(err, status, nil, "search cities")
		w.observe(OperationGeocode, err, start)
		return nil, err
	}

	response := *successResp.(*[]external.GeocodingDTO)
	for i := range response {
		if err := response[i].Validate(); err != nil {
			err = apperror.Unexpected(fmt.Errorf("geocoding entry %d %w", i, err))
			w.observe(OperationGeocode, err, start)
			return nil, err
		}
	}

	w.observe(OperationGeocode, nil, start)
	return response, nil
}

func (w *weatherGatewayImpl) cityQuery(city string) map[string]string {
	return map[string]string{
		"q":     city,
		"appid": w.apiKey,
		"units": "metric",
	}
}

func (w *weatherGatewayImpl) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if w.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, w.timeout)
}

func (w *weatherGatewayImpl) observe(operation string, err error, start time.Time) {
	if w.recorder == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = apperror.KindOf(err).String()
	}
	w.recorder.ObserveUpstream(operation, outcome, time.Since(start))
}

// classify maps a failed upstream call to the domain taxonomy. notFound is
// returned for a 404 when the operation treats it as an unknown city.
func classify(err error, status int, notFound *apperror.Error, what string) error {
	if isTimeout(err) {
		return apperror.Timeout(err)
	}

	var statusErr *http.StatusError
	if !errors.As(err, &statusErr) {
		return apperror.Unexpected(err)
	}

	switch {
	case status == nethttp.StatusNotFound && notFound != nil:
		return notFound
	case status == nethttp.StatusUnauthorized:
		return apperror.Auth()
	default:
		return apperror.Upstream(what, status)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
