package http

import (
	"go.uber.org/zap"

	"weather-api/pkg/log"
)

// HTTPLogger interface defines methods for logging HTTP requests and responses
type HTTPLogger interface {
	// LogRequest is called before the request is sent with all request data formed
	LogRequest(method, url string, headers map[string]string)

	// LogResponseSuccess is called immediately after receiving a successful response (non-error HTTP status)
	LogResponseSuccess(method, url string, httpStatus int, latency int64)

	// LogResponseError is called immediately after receiving an error response (error HTTP status) or a transport failure
	LogResponseError(method, url string, httpStatus int, responseBody string, latency int64, err error)
}

// ZapLogger writes outbound traffic to the application log at debug level.
type ZapLogger struct{}

func (ZapLogger) LogRequest(method, url string, _ map[string]string) {
	log.Debug("outbound request",
		zap.String("method", method),
		zap.String("url", url),
	)
}

func (ZapLogger) LogResponseSuccess(method, url string, httpStatus int, latency int64) {
	log.Debug("outbound response",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", httpStatus),
		zap.Int64("latency_ms", latency),
	)
}

func (ZapLogger) LogResponseError(method, url string, httpStatus int, responseBody string, latency int64, err error) {
	log.Debug("outbound response failed",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", httpStatus),
		zap.String("response_body", responseBody),
		zap.Int64("latency_ms", latency),
		zap.Error(err),
	)
}
