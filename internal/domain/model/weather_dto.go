package model

// CurrentWeatherResponse represents the current conditions of a city, temperatures in Celsius
type CurrentWeatherResponse struct {
	CityName    string  `json:"city_name"`
	Country     string  `json:"country"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Pressure    int     `json:"pressure"`
	TempMin     float64 `json:"temp_min"`
	TempMax     float64 `json:"temp_max"`
}

// ForecastItem represents the daily summary of the 3-hour samples of one calendar date
type ForecastItem struct {
	Date        string  `json:"date"`
	DayOfWeek   string  `json:"day_of_week"`
	TempMin     float64 `json:"temp_min"`
	TempMax     float64 `json:"temp_max"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
}

// ForecastResponse represents up to five daily summaries, ascending by date
type ForecastResponse struct {
	CityName string         `json:"city_name"`
	Country  string         `json:"country"`
	Forecast []ForecastItem `json:"forecast"`
}

// CitySearchResult represents a single geocoding match
type CitySearchResult struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	State   *string `json:"state"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// CitySearchResponse represents the ordered geocoding matches
type CitySearchResponse struct {
	Results []CitySearchResult `json:"results"`
}

// ErrorResponse is the body of every non-2xx answer
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}
