package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"weather-api/internal/domain/usecase/weather"
)

type WeatherController struct {
	api     *echo.Group
	useCase weather.UseCase
}

func NewWeatherController(api *echo.Group, useCase weather.UseCase) *WeatherController {
	return &WeatherController{api: api, useCase: useCase}
}

// InitWeatherRoutes initializes weather routes
func (controller *WeatherController) InitWeatherRoutes(middlewares ...echo.MiddlewareFunc) {
	controller.api.GET("/weather/:city", controller.CurrentWeather, middlewares...)
	controller.api.GET("/weather/:city/forecast", controller.Forecast, middlewares...)
}

// CurrentWeather godoc
// @Summary Get current weather
// @Description Current conditions of a city in metric units
// @Tags weather
// @Produce json
// @Param city path string true "City name, optionally with country code (e.g. London,GB)"
// @Success 200 {object} model.CurrentWeatherResponse
// @Failure 404 {object} model.ErrorResponse "City not found"
// @Failure 429 {object} model.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /weather/{city} [get]
func (controller *WeatherController) CurrentWeather(c echo.Context) error {
	response, err := controller.useCase.CurrentWeather(c.Request().Context(), c.Param("city"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, response)
}

// Forecast godoc
// @Summary Get 5-day forecast
// @Description Daily summaries of the 3-hour forecast, at most five days, ascending by date
// @Tags weather
// @Produce json
// @Param city path string true "City name"
// @Success 200 {object} model.ForecastResponse
// @Failure 404 {object} model.ErrorResponse "City not found"
// @Failure 429 {object} model.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /weather/{city}/forecast [get]
func (controller *WeatherController) Forecast(c echo.Context) error {
	response, err := controller.useCase.Forecast(c.Request().Context(), c.Param("city"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, response)
}
