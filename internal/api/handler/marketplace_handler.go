package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rashad-agri/marketplace/internal/core/domain"
	"github.com/rashad-agri/marketplace/internal/core/service"
	"github.com/rashad-agri/marketplace/internal/core/view"
)

// MarketplaceHandler exposes the backend client operations of the caller's
// session as a JSON API. Every response carries the client's Result envelope.
type MarketplaceHandler struct {
	forms *service.FormController
}

func NewMarketplaceHandler(forms *service.FormController) *MarketplaceHandler {
	return &MarketplaceHandler{forms: forms}
}

type statusRequest struct {
	Status domain.OrderStatus `json:"status" validate:"required"`
}

// ListProducts returns products matching the filters, newest first.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        category      query  string  false  "Product category"
// @Param        product_type  query  string  false  "Product type"
// @Param        state         query  string  false  "Seller state"
// @Param        seller_id     query  string  false  "Seller id"
// @Param        min_price     query  number  false  "Minimum price"
// @Param        max_price     query  number  false  "Maximum price"
// @Param        limit         query  int     false  "Maximum number of products"
// @Success      200  {object}  map[string]any
// @Failure      502  {object}  map[string]any
// @Router       /api/products [get]
func (h *MarketplaceHandler) ListProducts(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	var f domain.ProductFilters
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &f); err != nil {
		return invalidPayload(c)
	}
	return respondResult(c, s.Client.GetProducts(c.Request().Context(), f))
}

// SearchProducts matches term against product names and descriptions.
//
// @Summary      Search products
// @Tags         products
// @Produce      json
// @Param        term  query  string  true  "Search term"
// @Success      200  {object}  map[string]any
// @Failure      502  {object}  map[string]any
// @Router       /api/products/search [get]
func (h *MarketplaceHandler) SearchProducts(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	var q pageQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return invalidPayload(c)
	}
	return respondResult(c, s.Client.SearchProducts(c.Request().Context(), q.Term, q.ProductFilters))
}

// GetProduct returns one product.
//
// @Summary      Get product
// @Tags         products
// @Produce      json
// @Param        id   path  string  true  "Product id"
// @Success      200  {object}  map[string]any
// @Failure      502  {object}  map[string]any
// @Router       /api/products/{id} [get]
func (h *MarketplaceHandler) GetProduct(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	return respondResult(c, s.Client.GetProductByID(c.Request().Context(), c.Param("id")))
}

// CreateOrder submits the order modal.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body      service.OrderForm  true  "Order"
// @Success      200   {object}  formResponse
// @Failure      422   {object}  formResponse
// @Router       /api/orders [post]
func (h *MarketplaceHandler) CreateOrder(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	var form service.OrderForm
	if err := c.Bind(&form); err != nil {
		return invalidPayload(c)
	}
	ctx, nav := navigation(c, domain.RouteMarketplace)
	return respondForm(c, h.forms.Order(ctx, s, form), nav)
}

// ListOrders returns the orders visible to the caller's role.
//
// @Summary      List my orders
// @Tags         orders
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]string
// @Router       /api/orders [get]
func (h *MarketplaceHandler) ListOrders(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	uid, role, err := identity(s)
	if err != nil {
		return err
	}
	return respondResult(c, s.Client.GetUserOrders(c.Request().Context(), uid, role))
}

// UpdateOrderStatus moves an order to a new status.
//
// @Summary      Update order status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id    path  string         true  "Order id"
// @Param        body  body  statusRequest  true  "New status"
// @Success      200  {object}  map[string]any
// @Failure      422  {object}  map[string]string
// @Router       /api/orders/{id}/status [patch]
func (h *MarketplaceHandler) UpdateOrderStatus(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !req.Status.Valid() {
		return domain.ErrInvalidStatus
	}
	return respondResult(c, s.Client.UpdateOrderStatus(c.Request().Context(), c.Param("id"), req.Status))
}

// ListExperts returns the active experts, best rated first.
//
// @Summary      List experts
// @Tags         experts
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /api/experts [get]
func (h *MarketplaceHandler) ListExperts(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	return respondResult(c, s.Client.GetExperts(c.Request().Context()))
}

// BookConsultation submits the booking modal.
//
// @Summary      Book a consultation
// @Tags         experts
// @Accept       json
// @Produce      json
// @Param        body  body      service.BookingForm  true  "Booking"
// @Success      200   {object}  formResponse
// @Failure      422   {object}  formResponse
// @Router       /api/consultations [post]
func (h *MarketplaceHandler) BookConsultation(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	var form service.BookingForm
	if err := c.Bind(&form); err != nil {
		return invalidPayload(c)
	}
	ctx, nav := navigation(c, domain.RouteExpertConsultation)
	return respondForm(c, h.forms.Book(ctx, s, form), nav)
}

// Weather returns the latest forecast for a region, or the default forecast.
//
// @Summary      Regional weather
// @Tags         farming
// @Produce      json
// @Param        region  path  string  true  "Region (state) name"
// @Success      200  {object}  view.WeatherWidget
// @Router       /api/weather/{region} [get]
func (h *MarketplaceHandler) Weather(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	res := s.Client.GetWeatherData(c.Request().Context(), c.Param("region"))
	return c.JSON(http.StatusOK, view.NewWeatherWidget(res))
}

// ListPlans returns the farming plans of the calling farmer.
//
// @Summary      My farming plans
// @Tags         farming
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /api/plans [get]
func (h *MarketplaceHandler) ListPlans(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	uid, _, err := identity(s)
	if err != nil {
		return err
	}
	return respondResult(c, s.Client.GetFarmerPlans(c.Request().Context(), uid))
}

// Stats returns the dashboard statistics of the caller's role.
//
// @Summary      Dashboard statistics
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  view.StatsPanel
// @Router       /api/stats [get]
func (h *MarketplaceHandler) Stats(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	uid, role, err := identity(s)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view.NewStatsPanel(s.Client.GetDashboardStats(c.Request().Context(), uid, role)))
}

// SendMessage submits the chat modal.
//
// @Summary      Send a message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        body  body      service.MessageForm  true  "Message"
// @Success      200   {object}  formResponse
// @Failure      422   {object}  formResponse
// @Router       /api/messages [post]
func (h *MarketplaceHandler) SendMessage(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	var form service.MessageForm
	if err := c.Bind(&form); err != nil {
		return invalidPayload(c)
	}
	ctx, nav := navigation(c, domain.RouteMarketplace)
	return respondForm(c, h.forms.Message(ctx, s, form), nav)
}

// Conversation returns the messages exchanged with a peer, oldest first.
//
// @Summary      Conversation with a peer
// @Tags         messages
// @Produce      json
// @Param        peer  path  string  true  "Peer user id"
// @Success      200  {object}  map[string]any
// @Router       /api/messages/{peer} [get]
func (h *MarketplaceHandler) Conversation(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	uid, _, err := identity(s)
	if err != nil {
		return err
	}
	res := s.Client.GetMessages(c.Request().Context(), uid, c.Param("peer"))
	return c.JSON(http.StatusOK, view.NewSection(res, view.NoMessagesMessage, view.MessageItems(uid)))
}

// UpdateProfile edits the caller's profile.
//
// @Summary      Update my profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body  domain.ProfileChanges  true  "Changed fields"
// @Success      200  {object}  map[string]any
// @Failure      502  {object}  map[string]any
// @Router       /api/profile [patch]
func (h *MarketplaceHandler) UpdateProfile(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	uid, _, err := identity(s)
	if err != nil {
		return err
	}
	var changes domain.ProfileChanges
	if err := c.Bind(&changes); err != nil {
		return invalidPayload(c)
	}
	trimAll(&changes)
	return respondResult(c, s.Client.UpdateUserProfile(c.Request().Context(), uid, changes))
}

func trimAll(ch *domain.ProfileChanges) {
	for _, f := range []*string{ch.FirstName, ch.LastName, ch.Phone, ch.State} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

// AdminAccess reports whether the caller is an administrator.
//
// @Summary      Admin access check
// @Tags         profile
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /api/admin/access [get]
func (h *MarketplaceHandler) AdminAccess(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	return respondResult(c, s.Client.CheckAdminAccess(c.Request().Context()))
}
