package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"weather-api/pkg/log"
	"weather-api/pkg/msg"
)

// QuietPathSkipper skips liveness and scrape requests, which would otherwise flood the logs
func QuietPathSkipper(contextPath string, metricsPath string) func(c echo.Context) bool {
	healthPath := strings.TrimRight(contextPath, "/") + "/health"
	return func(c echo.Context) bool {
		path := c.Request().URL.Path
		if path == healthPath {
			return true
		}
		return metricsPath != "" && path == metricsPath
	}
}

// SetupRequestLogger registers the request logging middleware with custom log output.
func SetupRequestLogger(e *echo.Echo, skipper func(c echo.Context) bool) {
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRequestID: true,
		LogRemoteIP:  true,
		Skipper:      skipper,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.Error == nil {
				log.Info(msg.GetMessage("app.req-end", v.Method, v.URI, v.Status, v.Latency, v.RequestID),
					zap.String("method", v.Method),
					zap.String("uri", v.URI),
					zap.Int("status", v.Status),
					zap.Duration("latency", v.Latency),
					zap.String("request_id", v.RequestID),
					zap.String("remote_ip", v.RemoteIP),
				)
			} else {
				log.Error(msg.GetMessage("app.req-fail", v.Method, v.URI, v.Status, v.Latency, v.RequestID, v.Error),
					zap.String("method", v.Method),
					zap.String("uri", v.URI),
					zap.Int("status", v.Status),
					zap.Duration("latency", v.Latency),
					zap.String("request_id", v.RequestID),
					zap.String("remote_ip", v.RemoteIP),
					zap.Error(v.Error),
				)
			}
			return nil
		},
	}))
}
