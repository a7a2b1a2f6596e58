package main

import (
	"context"
	"fmt"
	"net"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"weather-api/configs"
	"weather-api/internal/application/controller"
	"weather-api/internal/application/middleware"
	"weather-api/internal/domain/gateway/api"
	"weather-api/internal/domain/usecase/health"
	"weather-api/internal/domain/usecase/weather"
	"weather-api/internal/infra/metrics"
	"weather-api/internal/infra/ratelimit"
	"weather-api/pkg/http"
	"weather-api/pkg/log"
	"weather-api/pkg/msg"
	"weather-api/pkg/redis"
)

// newServer wires every component out of cfg. The returned cleanup releases
// the resources the server holds besides the listener.
func newServer(cfg *configs.AppConfig) (*echo.Echo, func(), error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.Debug
	e.HTTPErrorHandler = controller.HTTPErrorHandler
	e.IPExtractor = ipExtractor(cfg.Server.TrustedProxies)

	m := metrics.NewMetrics("weather_api")
	quiet := middleware.QuietPathSkipper(cfg.Server.ContextPath, cfg.Metrics.Path)
	if !cfg.Metrics.Enabled {
		quiet = middleware.QuietPathSkipper(cfg.Server.ContextPath, "")
	}

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))
	middleware.SetupRequestLogger(e, quiet)
	if cfg.Metrics.Enabled {
		e.Use(m.Middleware(quiet))
		e.GET(cfg.Metrics.Path, echo.WrapHandler(m.Handler()))
	}

	// Init RateLimit store
	store, cleanup, err := newRateLimitStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	limited := middleware.RateLimit(middleware.RateLimitConfig{
		Store:     store,
		PerMinute: cfg.RateLimit.PerMinute,
		Observer:  m,
	})

	// Init Gateway
	weatherGateway := api.NewWeatherGateway(api.GatewayConfig{
		APIKey:  cfg.OpenWeather.APIKey,
		BaseURL: cfg.OpenWeather.BaseURL,
		GeoURL:  cfg.OpenWeather.GeoURL,
		Timeout: cfg.OpenWeather.Timeout,
	}, http.ClientOptions{Logger: http.ZapLogger{}}, m)

	// Init UseCase
	healthUseCase := health.NewHealthUseCase(cfg.Name, cfg.Version)
	weatherUseCase := weather.NewWeatherUseCase(weatherGateway, weather.DateZone(cfg.OpenWeather.ForecastDateZone))

	// Init Controller
	group := e.Group(cfg.Server.ContextPath)
	controller.NewHealthController(group, healthUseCase).InitHealthRoutes()
	controller.NewWeatherController(group, weatherUseCase).InitWeatherRoutes(limited)
	controller.NewCityController(group, weatherUseCase).InitCityRoutes(limited)

	return e, cleanup, nil
}

// ipExtractor keys clients on the socket peer unless the peer is a trusted
// proxy, in which case the nearest untrusted X-Forwarded-For hop is the client.
func ipExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	options := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, ipRange := range trusted {
		options = append(options, echo.TrustIPRange(ipRange))
	}
	return echo.ExtractIPFromXFFHeader(options...)
}

func newRateLimitStore(cfg *configs.AppConfig) (ratelimit.Store, func(), error) {
	if cfg.RateLimit.Store != configs.StoreRedis {
		return ratelimit.NewMemoryStore(cfg.RateLimit.PerMinute, ratelimit.Window), func() {}, nil
	}

	client, err := redis.NewClient(redis.NewRedisConfig().
		WithHost(cfg.Redis.Host).
		WithPort(cfg.Redis.Port).
		WithPassword(cfg.Redis.Password).
		WithDatabase(cfg.Redis.Database))
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), client.GetConfig().DialTimeout)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		log.Warn(msg.GetMessage("app.redis-unreachable", addr, err), zap.String("addr", addr), zap.Error(err))
	}

	limiter, err := redis.NewRateLimiter(client, "requests", redis.NewRateLimiterOptions().
		WithMaxTransactionsPerMinute(cfg.RateLimit.PerMinute).
		WithWindow(ratelimit.Window).
		WithNamespace(cfg.RateLimit.Namespace))
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	return ratelimit.NewRedisStore(limiter), func() { _ = client.Close() }, nil
}
