package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rashad-agri/marketplace/internal/core/domain"
	"github.com/rashad-agri/marketplace/internal/core/service"
	"github.com/rashad-agri/marketplace/internal/core/view"
)

type PageHandler struct {
	pages *service.PageLoader
}

func NewPageHandler(pages *service.PageLoader) *PageHandler {
	return &PageHandler{pages: pages}
}

type pageQuery struct {
	Term string `query:"term"`
	domain.ProductFilters
}

type sessionResponse struct {
	SessionID     string          `json:"session_id"`
	State         string          `json:"state"`
	Authenticated bool            `json:"authenticated"`
	Profile       *domain.Profile `json:"profile,omitempty"`
	Chrome        view.Chrome     `json:"chrome"`
}

// Page returns the view model of a page.
//
// @Summary      Load a page
// @Tags         pages
// @Produce      json
// @Param        page          path   string  true   "Page name, e.g. marketplace or farmer-dashboard.html"
// @Param        term          query  string  false  "Marketplace search term"
// @Param        category      query  string  false  "Product category"
// @Param        product_type  query  string  false  "Product type"
// @Param        state         query  string  false  "Seller state"
// @Param        min_price     query  number  false  "Minimum price"
// @Param        max_price     query  number  false  "Maximum price"
// @Success      200  {object}  view.Page
// @Failure      404  {object}  map[string]string
// @Router       /pages/{page} [get]
func (h *PageHandler) Page(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	route, ok := domain.ParseRoute(c.Param("page"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown page")
	}

	var q pageQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return invalidPayload(c)
	}

	ctx, _ := service.WithNavigation(c.Request().Context(), route)
	page := h.pages.Load(ctx, s, route, service.PageParams{Term: q.Term, Filters: q.ProductFilters})
	return c.JSON(http.StatusOK, page)
}

// Session describes the caller's session.
//
// @Summary      Current session
// @Tags         pages
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *PageHandler) Session(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{
		SessionID:     s.ID,
		State:         s.Manager.State().String(),
		Authenticated: s.Manager.IsAuthenticated(),
		Profile:       s.Manager.Profile(),
		Chrome:        s.Chrome.Snapshot(),
	})
}
