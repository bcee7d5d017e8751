package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cursomc/commerce-api/internal/api/metrics"
	"github.com/cursomc/commerce-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain errors
// to status codes, logs unexpected errors without leaking them, and renders
// {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil && he.Code >= http.StatusInternalServerError {
			log.Error().Err(he.Internal).Str("path", c.Path()).Msg("http error")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	if errors.Is(err, domain.ErrInvalidCredentials) {
		return http.StatusUnauthorized, "invalid credentials"
	}

	switch kind := domain.KindOf(err); kind {
	case domain.KindUnauthenticated, domain.KindForbidden:
		// Both causes look the same to the client.
		metrics.AuthzDenialsTotal.WithLabelValues(string(kind)).Inc()
		log.Warn().
			Str("cause", string(kind)).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("access denied")
		return http.StatusForbidden, "access denied"
	case domain.KindNotFound:
		return http.StatusNotFound, "customer not found"
	case domain.KindHasDependents:
		metrics.CustomerDeleteBlockedTotal.Inc()
		return http.StatusConflict, "customer has related orders and cannot be deleted"
	case domain.KindUnsupportedImageFormat:
		return http.StatusUnsupportedMediaType, "unsupported image format"
	case domain.KindInvalidSortDirection:
		return http.StatusBadRequest, err.Error()
	case domain.KindValidation:
		return http.StatusUnprocessableEntity, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
