package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rashad-agri/marketplace/internal/core/domain"
)

func TestResolveError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"echo error", echo.NewHTTPError(http.StatusNotFound, "unknown page"), http.StatusNotFound, "unknown page"},
		{"wrapped not found", fmt.Errorf("get products: %w", domain.ErrNotFound), http.StatusNotFound, "record not found"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{"invalid token", domain.ErrInvalidToken, http.StatusUnauthorized, "not authenticated"},
		{"duplicate user", fmt.Errorf("insert auth_users: %w", domain.ErrUserExists), http.StatusConflict, "user already exists"},
		{"invalid status keeps text", fmt.Errorf("%w: lost", domain.ErrInvalidStatus), http.StatusUnprocessableEntity, fmt.Errorf("%w: lost", domain.ErrInvalidStatus).Error()},
		{"unexpected", errors.New("socket closed"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, msg := resolveError(tc.err)
			assert.Equal(t, tc.code, code)
			assert.Equal(t, tc.msg, msg)
		})
	}
}

func TestHTTPErrorHandler_WritesEnvelope(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/orders", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrNotAuthenticated, c)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not authenticated", body.Error)
}
