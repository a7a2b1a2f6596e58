package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-api/configs"
)

func fakeOpenWeather(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		q := r.URL.Query().Get("q")
		switch {
		case r.URL.Query().Get("appid") != "test-key":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
		case q == "Slowville":
			time.Sleep(300 * time.Millisecond)
			_, _ = w.Write([]byte(`{}`))
		case q == "Shapeless":
			_, _ = w.Write([]byte(`{"unexpected":"shape"}`))
		case r.URL.Path == "/geo/1.0/direct":
			_, _ = w.Write([]byte(`[{"name":"London","lat":51.5,"lon":-0.12,"country":"GB","state":"England"}]`))
		case q == "Atlantis":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
		case r.URL.Path == "/data/2.5/weather":
			_, _ = w.Write([]byte(`{"name":"London","sys":{"country":"GB"},"main":{"temp":15.2,"feels_like":14.1,"temp_min":13,"temp_max":17.4,"pressure":1012,"humidity":72},"weather":[{"description":"broken clouds","icon":"04d"}],"wind":{"speed":4.6}}`))
		case r.URL.Path == "/data/2.5/forecast":
			_, _ = w.Write([]byte(`{"list":[
				{"dt":1705309200,"main":{"temp":10,"humidity":70},"weather":[{"description":"rain","icon":"10d"}],"wind":{"speed":2}},
				{"dt":1705320000,"main":{"temp":12,"humidity":71},"weather":[{"description":"rain","icon":"10d"}],"wind":{"speed":4}},
				{"dt":1705406400,"main":{"temp":3,"humidity":50},"weather":[{"description":"snow","icon":"13d"}],"wind":{"speed":1}}
			],"city":{"name":"London","country":"GB","timezone":0}}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func testConfig(upstream string) *configs.AppConfig {
	return &configs.AppConfig{
		Name:        "Weather Dashboard API",
		Version:     "1.0.0",
		LogLevel:    "INFO",
		Server:      configs.ServerConfig{Port: 8000, ContextPath: "/api"},
		CORSOrigins: []string{"http://localhost:5173"},
		OpenWeather: configs.OpenWeatherConfig{
			APIKey:           "test-key",
			BaseURL:          upstream + "/data/2.5",
			GeoURL:           upstream + "/geo/1.0",
			Timeout:          100 * time.Millisecond,
			ForecastDateZone: configs.ZoneUTC,
		},
		RateLimit: configs.RateLimitConfig{PerMinute: 60, Store: configs.StoreMemory, Namespace: "weather_api"},
		Metrics:   configs.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func get(e *echo.Echo, target string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = "192.0.2.10:5000"
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func buildServer(t *testing.T, cfg *configs.AppConfig) *echo.Echo {
	t.Helper()
	e, cleanup, err := newServer(cfg)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return e
}

func TestServer_Endpoints(t *testing.T) {
	upstream := fakeOpenWeather(t)
	e := buildServer(t, testConfig(upstream.URL))

	rec := get(e, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"Weather Dashboard API","version":"1.0.0"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	rec = get(e, "/api/weather/London")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"city_name":"London","country":"GB","temperature":15.2,"feels_like":14.1,
		"description":"broken clouds","icon":"04d","humidity":72,"wind_speed":4.6,"pressure":1012,
		"temp_min":13,"temp_max":17.4}`, rec.Body.String())
	assert.Equal(t, "60", rec.Header().Get("X-RateLimit-Limit"))

	rec = get(e, "/api/weather/London/forecast")
	assert.Equal(t, http.StatusOK, rec.Code)
	var forecast struct {
		Forecast []struct {
			Date     string  `json:"date"`
			Humidity int     `json:"humidity"`
			TempMax  float64 `json:"temp_max"`
		} `json:"forecast"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &forecast))
	require.Len(t, forecast.Forecast, 2)
	assert.Equal(t, "2024-01-15", forecast.Forecast[0].Date)
	assert.Equal(t, 70, forecast.Forecast[0].Humidity)
	assert.Equal(t, 12.0, forecast.Forecast[0].TempMax)
	assert.Equal(t, "2024-01-16", forecast.Forecast[1].Date)

	rec = get(e, "/api/cities/search?q=London&limit=1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"results":[{"name":"London","country":"GB","state":"England","lat":51.5,"lon":-0.12}]}`, rec.Body.String())
}

func TestServer_ErrorMapping(t *testing.T) {
	upstream := fakeOpenWeather(t)
	e := buildServer(t, testConfig(upstream.URL))

	rec := get(e, "/api/weather/Atlantis")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"City not found","detail":"City 'Atlantis' not found. Please check the city name."}`, rec.Body.String())

	rec = get(e, "/api/weather/Slowville/forecast")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())

	rec = get(e, "/api/cities/search?q=")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, target := range []string{"/api/weather/Shapeless", "/api/weather/Shapeless/forecast"} {
		rec = get(e, target)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, target)
		assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String(), target)
	}

	rec = get(e, "/api/nothing-here")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())
}

func TestServer_InvalidKeyIsServerError(t *testing.T) {
	upstream := fakeOpenWeather(t)
	cfg := testConfig(upstream.URL)
	cfg.OpenWeather.APIKey = "wrong"
	e := buildServer(t, cfg)

	rec := get(e, "/api/weather/London")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestServer_RateLimitWithRedis(t *testing.T) {
	upstream := fakeOpenWeather(t)
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := testConfig(upstream.URL)
	cfg.RateLimit = configs.RateLimitConfig{PerMinute: 2, Store: configs.StoreRedis, Namespace: "weather_api"}
	cfg.Redis = configs.RedisConfig{Host: mr.Host(), Port: port}
	e := buildServer(t, cfg)

	assert.Equal(t, http.StatusOK, get(e, "/api/weather/London").Code)
	assert.Equal(t, http.StatusOK, get(e, "/api/cities/search?q=London").Code)

	rec := get(e, "/api/weather/London")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"Rate limit exceeded","detail":"2 per 1 minute"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// health is never limited
	assert.Equal(t, http.StatusOK, get(e, "/api/health").Code)

	mr.FastForward(time.Minute)
	assert.Equal(t, http.StatusOK, get(e, "/api/weather/London").Code)
}

func TestServer_RateLimitIgnoresForwardedHeaders(t *testing.T) {
	upstream := fakeOpenWeather(t)
	cfg := testConfig(upstream.URL)
	cfg.RateLimit.PerMinute = 2
	e := buildServer(t, cfg)

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		ip := "10.0.0." + strconv.Itoa(i)
		codes = append(codes, get(e, "/api/weather/London", echo.HeaderXForwardedFor, ip, echo.HeaderXRealIP, ip).Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestServer_RateLimitBehindTrustedProxy(t *testing.T) {
	upstream := fakeOpenWeather(t)
	cfg := testConfig(upstream.URL)
	cfg.RateLimit.PerMinute = 1
	proxies, err := configs.ParseTrustedProxies("192.0.2.0/24")
	require.NoError(t, err)
	cfg.Server.TrustedProxies = proxies
	e := buildServer(t, cfg)

	assert.Equal(t, http.StatusOK, get(e, "/api/weather/London", echo.HeaderXForwardedFor, "198.51.100.1").Code)
	assert.Equal(t, http.StatusOK, get(e, "/api/weather/London", echo.HeaderXForwardedFor, "198.51.100.2").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(e, "/api/weather/London", echo.HeaderXForwardedFor, "198.51.100.1").Code)

	// a hop the proxy appended after a spoofed entry still identifies the client
	assert.Equal(t, http.StatusTooManyRequests,
		get(e, "/api/weather/London", echo.HeaderXForwardedFor, "203.0.113.9, 198.51.100.2").Code)
}

func TestServer_MetricsAndCORS(t *testing.T) {
	upstream := fakeOpenWeather(t)
	e := buildServer(t, testConfig(upstream.URL))

	get(e, "/api/weather/London")

	rec := get(e, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `weather_api_upstream_requests_total{operation="current_weather",outcome="success"} 1`))
	assert.True(t, strings.Contains(body, `route="/api/weather/:city"`))

	rec = get(e, "/api/health", echo.HeaderOrigin, "http://localhost:5173")
	assert.Equal(t, "http://localhost:5173", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))

	rec = get(e, "/api/health", echo.HeaderOrigin, "http://evil.test")
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}
