package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"weather-api/internal/domain/apperror"
	"weather-api/internal/domain/usecase/weather"
	"weather-api/pkg/util/numberutils"
)

const (
	// MaxSearchLimit is the largest limit the geocoding API honours
	MaxSearchLimit     = 5
	DefaultSearchLimit = 5
)

type CityController struct {
	api     *echo.Group
	useCase weather.UseCase
}

func NewCityController(api *echo.Group, useCase weather.UseCase) *CityController {
	return &CityController{api: api, useCase: useCase}
}

// InitCityRoutes initializes city search routes
func (controller *CityController) InitCityRoutes(middlewares ...echo.MiddlewareFunc) {
	controller.api.GET("/cities/search", controller.SearchCities, middlewares...)
}

// SearchCities godoc
// @Summary Search cities
// @Description Geocoding search by city name
// @Tags cities
// @Produce json
// @Param q query string true "City name to search" minlength(1)
// @Param limit query int false "Maximum number of results" minimum(1) maximum(5) default(5)
// @Success 200 {object} model.CitySearchResponse
// @Failure 400 {object} model.ErrorResponse "Validation error"
// @Failure 429 {object} model.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /cities/search [get]
func (controller *CityController) SearchCities(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return respondError(c, apperror.Validation("query parameter 'q' is required and must not be empty"))
	}

	limit, err := numberutils.ToIntWithDefault(c.QueryParam("limit"), DefaultSearchLimit, 1, MaxSearchLimit)
	if err != nil {
		return respondError(c, apperror.Validation("query parameter 'limit' must be an integer between 1 and 5: "+err.Error()))
	}

	response, err := controller.useCase.SearchCities(c.Request().Context(), query, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, response)
}
