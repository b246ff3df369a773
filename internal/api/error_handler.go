package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rashad-agri/marketplace/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusRule maps a domain sentinel to a status. An empty message echoes the
// error text, which carries the offending value.
type statusRule struct {
	target error
	code   int
	msg    string
}

// First match wins.
var statusRules = []statusRule{
	{domain.ErrNotFound, http.StatusNotFound, "record not found"},
	{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
	{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
	{domain.ErrNotAuthenticated, http.StatusUnauthorized, "not authenticated"},
	{domain.ErrInvalidToken, http.StatusUnauthorized, "not authenticated"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
	{domain.ErrUserExists, http.StatusConflict, "user already exists"},
	{domain.ErrInvalidStatus, http.StatusUnprocessableEntity, ""},
	{domain.ErrInvalidInput, http.StatusBadRequest, ""},
}

// NewHTTPErrorHandler renders every error as {"error": "..."}. Echo errors
// keep their code, domain sentinels are mapped by statusRules and anything
// else is logged and reported as a 500 without details.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, msg := resolveError(err)
		if code == http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("unhandled error")
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message)
	}
	for _, r := range statusRules {
		if !errors.Is(err, r.target) {
			continue
		}
		if r.msg == "" {
			return r.code, err.Error()
		}
		return r.code, r.msg
	}
	return http.StatusInternalServerError, "internal server error"
}
