package external

import (
	"encoding/json"
	"errors"
	"fmt"
)

// WeatherConditionDTO is one entry of the "weather" array
type WeatherConditionDTO struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// MainDTO holds the thermodynamic readings of a sample
type MainDTO struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  int     `json:"pressure"`
	Humidity  int     `json:"humidity"`
}

// WindDTO holds the wind readings of a sample
type WindDTO struct {
	Speed float64 `json:"speed"`
	Deg   int     `json:"deg"`
}

type SysDTO struct {
	Country *string `json:"country"`
}

// CurrentWeatherDTO represents the response of data/2.5/weather. Blocks the
// response is built from are pointers so a missing one is detected.
type CurrentWeatherDTO struct {
	Name     *string               `json:"name"`
	Dt       int64                 `json:"dt"`
	Main     *MainDTO              `json:"main"`
	Weather  []WeatherConditionDTO `json:"weather"`
	Wind     *WindDTO              `json:"wind"`
	Sys      *SysDTO               `json:"sys"`
	Timezone int                   `json:"timezone"`
}

// Validate reports the first required field the provider left out
func (dto *CurrentWeatherDTO) Validate() error {
	switch {
	case dto.Name == nil:
		return errors.New("weather payload without name")
	case dto.Sys == nil || dto.Sys.Country == nil:
		return errors.New("weather payload without sys.country")
	case dto.Main == nil:
		return errors.New("weather payload without main")
	case dto.Wind == nil:
		return errors.New("weather payload without wind")
	case len(dto.Weather) == 0:
		return errors.New("weather payload without conditions")
	}
	return nil
}

// ForecastSampleDTO is one 3-hour sample of data/2.5/forecast
type ForecastSampleDTO struct {
	Dt      int64                 `json:"dt"`
	Main    *MainDTO              `json:"main"`
	Weather []WeatherConditionDTO `json:"weather"`
	Wind    *WindDTO              `json:"wind"`
	DtTxt   string                `json:"dt_txt"`
}

func (dto *ForecastSampleDTO) Validate() error {
	switch {
	case dto.Dt == 0:
		return errors.New("without dt")
	case dto.Main == nil:
		return errors.New("without main")
	case dto.Wind == nil:
		return errors.New("without wind")
	case len(dto.Weather) == 0:
		return errors.New("without conditions")
	}
	return nil
}

// ForecastCityDTO is the city block of data/2.5/forecast
type ForecastCityDTO struct {
	ID       int     `json:"id"`
	Name     *string `json:"name"`
	Country  *string `json:"country"`
	Timezone int     `json:"timezone"`
}

// ForecastDTO represents the response of data/2.5/forecast. An empty list is
// valid, a missing one is not.
type ForecastDTO struct {
	Cnt  int                 `json:"cnt"`
	List []ForecastSampleDTO `json:"list"`
	City *ForecastCityDTO    `json:"city"`
}

func (dto *ForecastDTO) Validate() error {
	switch {
	case dto.List == nil:
		return errors.New("forecast payload without list")
	case dto.City == nil:
		return errors.New("forecast payload without city")
	case dto.City.Name == nil || dto.City.Country == nil:
		return errors.New("forecast payload without city name or country")
	}
	for i := range dto.List {
		if err := dto.List[i].Validate(); err != nil {
			return fmt.Errorf("forecast sample %d %w", i, err)
		}
	}
	return nil
}

// GeocodingDTO is one entry of geo/1.0/direct. Coordinates are pointers so a
// missing value can be told apart from zero.
type GeocodingDTO struct {
	Name    string   `json:"name"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
	Country string   `json:"country"`
	State   *string  `json:"state"`
}

func (dto *GeocodingDTO) Validate() error {
	if dto.Lat == nil || dto.Lon == nil {
		return errors.New("without coordinates")
	}
	if *dto.Lat < -90 || *dto.Lat > 90 || *dto.Lon < -180 || *dto.Lon > 180 {
		return fmt.Errorf("out of range: %v,%v", *dto.Lat, *dto.Lon)
	}
	return nil
}

// APIErrorResponse represents error responses from OpenWeatherMap. cod is a
// string on some endpoints and a number on others.
type APIErrorResponse struct {
	Cod     json.RawMessage `json:"cod"`
	Message string          `json:"message"`
}
