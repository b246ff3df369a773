package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/rashad-agri/marketplace/internal/core/domain"
	"github.com/rashad-agri/marketplace/internal/core/service"
)

type AuthHandler struct {
	forms *service.FormController
}

func NewAuthHandler(forms *service.FormController) *AuthHandler {
	return &AuthHandler{forms: forms}
}

// Login signs the session in.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      service.LoginForm  true  "Login credentials"
// @Success      200   {object}  formResponse
// @Failure      400   {object}  formResponse
// @Failure      422   {object}  formResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	var form service.LoginForm
	if err := c.Bind(&form); err != nil {
		return invalidPayload(c)
	}

	ctx, nav := navigation(c, domain.RouteLogin)
	return respondForm(c, h.forms.Login(ctx, s, form), nav)
}

// Register creates a new account. The session stays signed out.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      service.RegisterForm  true  "User registration details"
// @Success      200   {object}  formResponse
// @Failure      400   {object}  formResponse
// @Failure      422   {object}  formResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	var form service.RegisterForm
	if err := c.Bind(&form); err != nil {
		return invalidPayload(c)
	}

	ctx, nav := navigation(c, domain.RouteRegister)
	return respondForm(c, h.forms.Register(ctx, s, form), nav)
}

// Logout signs the session out.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  formResponse
// @Failure      400  {object}  formResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	ctx, nav := navigation(c, domain.RouteLanding)
	return respondForm(c, h.forms.Logout(ctx, s), nav)
}
