package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lottopool/lottopool/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// NewHTTPErrorHandler maps domain errors to status codes and renders them as
// {"error": "..."}. Unexpected errors are logged and reported as 500 without
// their details.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, errorResponse{Error: ve.Message, Field: ve.Field}
	}

	switch {
	case errors.Is(err, domain.ErrGroupNotFound):
		return http.StatusNotFound, errorResponse{Error: "group not found"}
	case errors.Is(err, domain.ErrPoolNotFound):
		return http.StatusNotFound, errorResponse{Error: "pool not found"}
	case errors.Is(err, domain.ErrTicketNotFound):
		return http.StatusNotFound, errorResponse{Error: "ticket not found"}
	case errors.Is(err, domain.ErrParticipantMissing):
		return http.StatusNotFound, errorResponse{Error: "participant not in pool"}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: "record not found"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrNoSession):
		return http.StatusUnauthorized, errorResponse{Error: "no active session"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, errorResponse{Error: "user already exists"}
	}

	if kind := domain.RemoteKind(err); kind == domain.KindUnavailable || kind == domain.KindUnauthorized {
		log.Warn().Err(err).Str("path", c.Path()).Msg("remote store unavailable")
		return http.StatusBadGateway, errorResponse{Error: "remote store unavailable"}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
