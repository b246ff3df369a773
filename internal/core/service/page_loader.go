package service

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rashad-agri/marketplace/internal/core/domain"
	"github.com/rashad-agri/marketplace/internal/core/ports"
	"github.com/rashad-agri/marketplace/internal/core/view"
)

const (
	featuredProducts = 6
	marketPreview    = 8
)

// PageParams are the query parameters a page load may use.
type PageParams struct {
	Term    string
	Filters domain.ProductFilters
}

// PageLoader builds the view model of a page for a session.
type PageLoader struct {
	log zerolog.Logger
}

func NewPageLoader(log zerolog.Logger) *PageLoader {
	return &PageLoader{log: log.With().Str("component", "page_loader").Logger()}
}

// Load resolves route for the session and runs exactly one loader. Pages the
// session may not see come back as a redirect without content. The guard and
// the loader see the same identity and profile.
func (l *PageLoader) Load(ctx context.Context, s *Session, route domain.Route, params PageParams) view.Page {
	page := view.Page{Route: route}
	ident, profile := s.Manager.Snapshot()
	var role domain.Role
	if profile != nil {
		role = profile.Role
	}
	if to, ok := guard(ident != nil, role, route); ok {
		l.log.Debug().Str("session_id", s.ID).Str("route", string(route)).Str("redirect", string(to)).Msg("page redirected")
		page.Redirect = to
		page.Chrome = s.Chrome.Snapshot()
		return page
	}

	c := s.Client
	switch route {
	case domain.RouteLanding:
		page.Content = l.landing(ctx, c)
	case domain.RouteMarketplace:
		page.Content = l.marketplace(ctx, c, params)
	case domain.RouteFarmerDashboard:
		page.Content = l.farmerDashboard(ctx, c, profile)
	case domain.RouteSupplierDashboard:
		page.Content = l.supplierDashboard(ctx, c, profile)
	case domain.RouteTraderDashboard:
		page.Content = l.traderDashboard(ctx, c, profile)
	case domain.RouteExpertConsultation:
		page.Content = view.ExpertsContent{
			Experts: view.NewSection(c.GetExperts(ctx), view.NoExpertsMessage, view.NewExpertCard),
		}
	case domain.RouteLogin, domain.RouteRegister:
		page.Content = view.FormContent{Form: formName(route), Roles: view.RoleOptions()}
	default:
		page.Redirect = domain.RouteLanding
	}
	page.Chrome = s.Chrome.Snapshot()
	return page
}

// guard returns the redirect for a page the session may not see. Dashboards
// pass only when role matches, which implies a profile.
func guard(authed bool, role domain.Role, route domain.Route) (domain.Route, bool) {
	switch route {
	case domain.RouteLogin, domain.RouteRegister:
		if authed {
			return domain.RedirectAfterAuth(route, role)
		}
	case domain.RouteExpertConsultation:
		if !authed {
			return domain.RouteLogin, true
		}
	default:
		owner, isDashboard := domain.RequiredRole(route)
		if !isDashboard {
			return "", false
		}
		if !authed {
			return domain.RouteLogin, true
		}
		if owner != role {
			return domain.DashboardFor(role), true
		}
	}
	return "", false
}

func formName(r domain.Route) string {
	if r == domain.RouteRegister {
		return "register"
	}
	return "login"
}

func (l *PageLoader) landing(ctx context.Context, c ports.MarketplaceClient) view.LandingContent {
	res := c.GetProducts(ctx, domain.ProductFilters{Limit: featuredProducts})
	return view.LandingContent{Featured: view.NewSection(res, view.NoProductsMessage, view.NewProductCard)}
}

func (l *PageLoader) marketplace(ctx context.Context, c ports.MarketplaceClient, p PageParams) view.MarketplaceContent {
	var res ports.Result[[]domain.Product]
	if p.Term != "" {
		res = c.SearchProducts(ctx, p.Term, p.Filters)
	} else {
		res = c.GetProducts(ctx, p.Filters)
	}
	return view.MarketplaceContent{
		Term:     p.Term,
		Filters:  p.Filters,
		Products: view.NewSection(res, view.NoProductsMessage, view.NewProductCard),
	}
}

func (l *PageLoader) farmerDashboard(ctx context.Context, c ports.MarketplaceClient, p *domain.Profile) view.FarmerDashboard {
	id, region := p.ID, p.State
	if region == "" {
		region = domain.DefaultState
	}

	var (
		g       errgroup.Group
		stats   ports.Result[domain.DashboardStats]
		weather ports.Result[domain.WeatherData]
		plans   ports.Result[[]domain.FarmingPlan]
		orders  ports.Result[[]domain.Order]
	)
	g.Go(func() error { stats = c.GetDashboardStats(ctx, id, domain.RoleFarmer); return nil })
	g.Go(func() error { weather = c.GetWeatherData(ctx, region); return nil })
	g.Go(func() error { plans = c.GetFarmerPlans(ctx, id); return nil })
	g.Go(func() error { orders = c.GetUserOrders(ctx, id, domain.RoleFarmer); return nil })
	_ = g.Wait()

	return view.FarmerDashboard{
		Greeting: view.Greeting(p),
		Stats:    view.NewStatsPanel(stats),
		Weather:  view.NewWeatherWidget(weather),
		Plans:    view.NewSection(plans, view.NoPlansMessage, view.NewPlanItem),
		Orders:   view.NewSection(orders, view.NoOrdersMessage, view.NewOrderRow),
	}
}

func (l *PageLoader) supplierDashboard(ctx context.Context, c ports.MarketplaceClient, p *domain.Profile) view.SupplierDashboard {
	var (
		g        errgroup.Group
		stats    ports.Result[domain.DashboardStats]
		products ports.Result[[]domain.Product]
		orders   ports.Result[[]domain.Order]
	)
	g.Go(func() error { stats = c.GetDashboardStats(ctx, p.ID, domain.RoleSupplier); return nil })
	g.Go(func() error { products = c.GetProducts(ctx, domain.ProductFilters{SellerID: p.ID}); return nil })
	g.Go(func() error { orders = c.GetUserOrders(ctx, p.ID, domain.RoleSupplier); return nil })
	_ = g.Wait()

	return view.SupplierDashboard{
		Greeting: view.Greeting(p),
		Stats:    view.NewStatsPanel(stats),
		Products: view.NewSection(products, view.NoProductsMessage, view.NewProductCard),
		Orders:   view.NewSection(orders, view.NoOrdersMessage, view.NewOrderRow),
	}
}

func (l *PageLoader) traderDashboard(ctx context.Context, c ports.MarketplaceClient, p *domain.Profile) view.TraderDashboard {
	var (
		g      errgroup.Group
		stats  ports.Result[domain.DashboardStats]
		orders ports.Result[[]domain.Order]
		market ports.Result[[]domain.Product]
	)
	g.Go(func() error { stats = c.GetDashboardStats(ctx, p.ID, domain.RoleTrader); return nil })
	g.Go(func() error { orders = c.GetUserOrders(ctx, p.ID, domain.RoleTrader); return nil })
	g.Go(func() error { market = c.GetProducts(ctx, domain.ProductFilters{Limit: marketPreview}); return nil })
	_ = g.Wait()

	return view.TraderDashboard{
		Greeting: view.Greeting(p),
		Stats:    view.NewStatsPanel(stats),
		Orders:   view.NewSection(orders, view.NoOrdersMessage, view.NewOrderRow),
		Market:   view.NewSection(market, view.NoProductsMessage, view.NewProductCard),
	}
}
