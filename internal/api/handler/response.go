package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rashad-agri/marketplace/internal/core/domain"
	"github.com/rashad-agri/marketplace/internal/core/ports"
	"github.com/rashad-agri/marketplace/internal/core/service"
)

// formResponse is a form outcome plus the page change it requested.
type formResponse struct {
	service.FormResult
	Redirect domain.Route `json:"redirect,omitempty"`
}

// respondForm renders res. Rejected forms are 422, failed submissions 400.
func respondForm(c echo.Context, res service.FormResult, nav *service.Navigation) error {
	out := formResponse{FormResult: res}
	if to, ok := nav.Redirect(); ok {
		out.Redirect = to
	}

	status := http.StatusOK
	switch {
	case res.OK:
	case res.Error == "":
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusBadRequest
	}
	return c.JSON(status, out)
}

// respondResult renders an adapter result. Access refusals go to the error
// handler; other failures are a bad gateway with the envelope intact.
func respondResult[T any](c echo.Context, res ports.Result[T]) error {
	if !res.Success {
		if err := res.Err(); errors.Is(err, domain.ErrForbidden) || errors.Is(err, domain.ErrNotAuthenticated) {
			return err
		}
		return c.JSON(http.StatusBadGateway, res)
	}
	return c.JSON(http.StatusOK, res)
}

func invalidPayload(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
}
