package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/rashad-agri/marketplace/internal/core/domain"
	"github.com/rashad-agri/marketplace/internal/core/service"
	"github.com/rashad-agri/marketplace/internal/core/service/servicetest"
)

func newSession(t *testing.T, role domain.Role) *service.Session {
	t.Helper()
	b := servicetest.NewBackend()
	if role != "" {
		b.SignedIn("u1", role)
	}
	s, err := b.Session(context.Background(), "s1")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	t.Cleanup(s.Manager.Close)
	return s
}

func runRBAC(t *testing.T, s *service.Session, mw echo.MiddlewareFunc) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if s != nil {
		SetSession(c, s)
	}

	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, called
}

func TestRBAC_Allows(t *testing.T) {
	rec, called := runRBAC(t, newSession(t, domain.RoleFarmer), RBAC(domain.RoleFarmer, domain.RoleTrader))
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_ForbidsOtherRoles(t *testing.T) {
	rec, called := runRBAC(t, newSession(t, domain.RoleSupplier), RBAC(domain.RoleFarmer))
	if called {
		t.Fatalf("should not reach next handler")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRBAC_RejectsGuests(t *testing.T) {
	rec, called := runRBAC(t, newSession(t, ""), RBAC(domain.RoleFarmer))
	if called {
		t.Fatalf("should not reach next handler")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRBAC_RejectsMissingSession(t *testing.T) {
	rec, _ := runRBAC(t, nil, RequireAuth())
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuth_AnyRole(t *testing.T) {
	_, called := runRBAC(t, newSession(t, domain.RoleExpert), RequireAuth())
	if !called {
		t.Fatalf("next handler not called")
	}
}
