package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rashad-agri/marketplace/internal/core/domain"
)

// RequireAuth rejects requests whose session is not signed in.
func RequireAuth() echo.MiddlewareFunc {
	return RBAC()
}

// RBAC enforces role-based access control on the session's profile role. With
// no roles it only requires a signed-in session.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, ok := SessionFrom(c)
			if !ok || !s.Manager.IsAuthenticated() {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
			}
			if len(allowed) == 0 {
				return next(c)
			}
			if _, ok := allowed[s.Manager.Role()]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
