package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"weather-api/internal/application/controller"
	"weather-api/internal/domain/apperror"
	"weather-api/internal/infra/ratelimit"
	"weather-api/pkg/log"
	"weather-api/pkg/msg"
)

const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)

// RateLimitObserver is notified of refused requests and store failures
type RateLimitObserver interface {
	ObserveRateLimited()
	ObserveRateLimitFailure()
}

type RateLimitConfig struct {
	Store     ratelimit.Store
	PerMinute int
	Observer  RateLimitObserver
	// Now defaults to time.Now
	Now func() time.Time
}

// RateLimit counts every request against the caller's IP window. A store
// failure lets the request through.
func RateLimit(config RateLimitConfig) echo.MiddlewareFunc {
	if config.Now == nil {
		config.Now = time.Now
	}
	exceeded := fmt.Sprintf("%d per 1 minute", config.PerMinute)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()

			decision, err := config.Store.Hit(c.Request().Context(), key)
			if err != nil {
				log.Error(msg.GetMessage("app.rate-limit-store", key, err.Error()), zap.Error(err))
				if config.Observer != nil {
					config.Observer.ObserveRateLimitFailure()
				}
				return next(c)
			}

			header := c.Response().Header()
			header.Set(HeaderRateLimitLimit, strconv.Itoa(decision.Limit))
			header.Set(HeaderRateLimitRemaining, strconv.Itoa(decision.Remaining))
			header.Set(HeaderRateLimitReset, strconv.FormatInt(decision.ResetAt.Unix(), 10))

			if !decision.Allowed {
				if config.Observer != nil {
					config.Observer.ObserveRateLimited()
				}
				header.Set(echo.HeaderRetryAfter, strconv.Itoa(decision.RetryAfter(config.Now())))
				err := apperror.RateLimited(exceeded)
				return c.JSON(controller.StatusOf(err.Kind), controller.ErrorBody(err))
			}

			return next(c)
		}
	}
}
