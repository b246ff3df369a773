package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/rashad-agri/marketplace/docs"
	"github.com/rashad-agri/marketplace/internal/api/handler"
	"github.com/rashad-agri/marketplace/internal/api/middleware"
	"github.com/rashad-agri/marketplace/internal/core/domain"
	"github.com/rashad-agri/marketplace/internal/core/service"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Sessions  middleware.SessionSource
	Session   middleware.SessionOptions
	Forms     *service.FormController
	Pages     *service.PageLoader
	Validator *validator.Validate
	Readiness []handler.Dependency
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator(d.Validator)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("rashad"))

	// --- Operational endpoints (no session) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Readiness...)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Session-scoped routes ---
	sess := e.Group("", middleware.Session(d.Sessions, d.Session))

	authHandler := handler.NewAuthHandler(d.Forms)
	sess.POST("/auth/login", authHandler.Login)
	sess.POST("/auth/register", authHandler.Register)
	sess.POST("/auth/logout", authHandler.Logout)

	pageHandler := handler.NewPageHandler(d.Pages)
	sess.GET("/session", pageHandler.Session)
	sess.GET("/pages/:page", pageHandler.Page)

	mk := handler.NewMarketplaceHandler(d.Forms)
	api := sess.Group("/api")
	api.GET("/products", mk.ListProducts)
	api.GET("/products/search", mk.SearchProducts)
	api.GET("/products/:id", mk.GetProduct)
	api.GET("/experts", mk.ListExperts)
	api.GET("/weather/:region", mk.Weather)
	// Forms answer guests with a login prompt themselves.
	api.POST("/orders", mk.CreateOrder)
	api.POST("/consultations", mk.BookConsultation)
	api.POST("/messages", mk.SendMessage)

	requireAuth := middleware.RequireAuth()
	sellers := middleware.RBAC(domain.RoleFarmer, domain.RoleSupplier, domain.RoleTrader)
	api.GET("/orders", mk.ListOrders, requireAuth)
	api.PATCH("/orders/:id/status", mk.UpdateOrderStatus, sellers)
	api.GET("/stats", mk.Stats, requireAuth)
	api.GET("/plans", mk.ListPlans, middleware.RBAC(domain.RoleFarmer))
	api.GET("/messages/:peer", mk.Conversation, requireAuth)
	api.PATCH("/profile", mk.UpdateProfile, requireAuth)
	api.GET("/admin/access", mk.AdminAccess, requireAuth)

	return e
}
