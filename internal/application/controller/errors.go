package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"weather-api/internal/domain/apperror"
	"weather-api/internal/domain/model"
	"weather-api/pkg/log"
	"weather-api/pkg/msg"
)

const (
	LabelNotFound    = "City not found"
	LabelInternal    = "Internal server error"
	LabelValidation  = "Validation error"
	LabelRateLimited = "Rate limit exceeded"
)

// StatusOf maps a domain error kind to its HTTP status
func StatusOf(kind apperror.Kind) int {
	switch kind {
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindRateLimited:
		return http.StatusTooManyRequests
	case apperror.KindAuth, apperror.KindUpstream, apperror.KindTimeout, apperror.KindUnexpected:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody builds the response body of a domain error. Server-side failures
// never leak their cause to the client.
func ErrorBody(err error) model.ErrorResponse {
	switch apperror.KindOf(err) {
	case apperror.KindNotFound:
		return model.ErrorResponse{Error: LabelNotFound, Detail: apperror.Message(err)}
	case apperror.KindValidation:
		return model.ErrorResponse{Error: LabelValidation, Detail: apperror.Message(err)}
	case apperror.KindRateLimited:
		return model.ErrorResponse{Error: LabelRateLimited, Detail: apperror.Message(err)}
	default:
		return model.ErrorResponse{Error: LabelInternal}
	}
}

// respondError writes err as an ErrorResponse, logging every 500 with its cause
func respondError(c echo.Context, err error) error {
	status := StatusOf(apperror.KindOf(err))
	if status >= http.StatusInternalServerError {
		log.Error(msg.GetMessage("app.unhandled", c.Request().Method, c.Request().URL.Path, err.Error()),
			zap.String("kind", apperror.KindOf(err).String()),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.Error(err),
		)
	}
	return c.JSON(status, ErrorBody(err))
}

// HTTPErrorHandler renders errors escaping the handlers, echo's routing
// errors included, with the same ErrorResponse body.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			var appErr *apperror.Error
			if errors.As(he.Internal, &appErr) {
				_ = respondError(c, appErr)
				return
			}
		}

		body := model.ErrorResponse{Error: http.StatusText(he.Code)}
		if he.Code >= http.StatusInternalServerError {
			body.Error = LabelInternal
			log.Error(msg.GetMessage("app.unhandled", c.Request().Method, c.Request().URL.Path, err.Error()), zap.Error(err))
		} else if detail := fmt.Sprint(he.Message); detail != body.Error {
			body.Detail = detail
		}
		if body.Error == "" {
			body.Error = LabelInternal
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(he.Code)
			return
		}
		_ = c.JSON(he.Code, body)
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(StatusOf(apperror.KindOf(err)))
		return
	}
	_ = respondError(c, err)
}
