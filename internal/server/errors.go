package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"study-assistant/internal/models"
)

const (
	msgGeneration  = "The language model request failed. Please try again."
	msgPersistence = "The session could not be saved."
	msgInternal    = "Internal server error."
)

// respondError maps err onto a status code. Remote and storage failures are logged in full
// but only a generic message reaches the client.
func respondError(c echo.Context, err error) error {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("uri", c.Request().RequestURI).Int("status", status).Msg("Request failed")
	}
	return c.JSON(status, ReturnType{Message: msg})
}

func classify(err error) (int, string) {
	var httpErr *echo.HTTPError
	switch {
	case errors.Is(err, errUnknownSession):
		return http.StatusNotFound, "unknown session, create one with POST /api/sessions"
	case models.IsValidation(err):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &httpErr) && httpErr.Code < http.StatusInternalServerError:
		return httpErr.Code, "invalid request body"
	case models.IsGeneration(err):
		return http.StatusBadGateway, msgGeneration
	case models.IsPersistence(err):
		return http.StatusInternalServerError, msgPersistence
	default:
		return http.StatusInternalServerError, msgInternal
	}
}
