package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rashad-agri/marketplace/internal/api/middleware"
	"github.com/rashad-agri/marketplace/internal/core/domain"
	"github.com/rashad-agri/marketplace/internal/core/service"
)

// HeaderCurrentPage carries the page a form or API call was made from.
const HeaderCurrentPage = "X-Current-Page"

// ctxSession returns the session attached by the Session middleware.
func ctxSession(c echo.Context) (*service.Session, error) {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
	}
	return s, nil
}

// navigation attaches a Navigation for the calling page to the request
// context. fallback is used when the caller does not name a known page.
func navigation(c echo.Context, fallback domain.Route) (context.Context, *service.Navigation) {
	current := fallback
	if h := c.Request().Header.Get(HeaderCurrentPage); h != "" {
		if r, ok := domain.ParseRoute(h); ok {
			current = r
		}
	}
	return service.WithNavigation(c.Request().Context(), current)
}

// identity returns the signed-in user id and role of s.
func identity(s *service.Session) (string, domain.Role, error) {
	id := s.Manager.Identity()
	if id == nil {
		return "", "", domain.ErrNotAuthenticated
	}
	return id.ID, s.Manager.Role(), nil
}
