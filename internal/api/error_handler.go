package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrRequestNotFound):
		return http.StatusNotFound, "request not found"
	case errors.Is(err, domain.ErrOfferNotFound):
		return http.StatusNotFound, "offer not found"
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound, "verification record not found"
	case errors.Is(err, domain.ErrNotificationNotFound):
		return http.StatusNotFound, "notification not found"
	case errors.Is(err, domain.ErrPaymentNotFound):
		return http.StatusNotFound, "payment not found"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"

	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrChannelLocked):
		return http.StatusForbidden, "chat is not available for this request"

	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrRequestNotNegotiable):
		return http.StatusUnprocessableEntity, "request no longer accepts offers"
	case errors.Is(err, domain.ErrRatingNotUnlocked):
		return http.StatusUnprocessableEntity, "rating is only available after completion"

	case errors.Is(err, domain.ErrRequestAlreadyAccepted):
		return http.StatusConflict, "request already has an accepted offer"
	case errors.Is(err, domain.ErrOfferNotPending):
		return http.StatusConflict, "offer is no longer pending"
	case errors.Is(err, domain.ErrAlreadyAdjudicated):
		return http.StatusConflict, "record already adjudicated"
	case errors.Is(err, domain.ErrAlreadyRated):
		return http.StatusConflict, "request already rated"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "concurrent update, retry"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"

	case errors.Is(err, domain.ErrIncompleteSubmission):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
