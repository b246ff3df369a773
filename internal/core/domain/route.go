package domain

import "strings"

// Route identifies a page by its fixed filename.
type Route string

const (
	RouteLanding            Route = "index.html"
	RouteLogin              Route = "login.html"
	RouteRegister           Route = "register.html"
	RouteMarketplace        Route = "marketplace.html"
	RouteFarmerDashboard    Route = "farmer-dashboard.html"
	RouteSupplierDashboard  Route = "supplier-dashboard.html"
	RouteTraderDashboard    Route = "trader-dashboard.html"
	RouteExpertConsultation Route = "expert-consultation.html"
)

var knownRoutes = map[Route]struct{}{
	RouteLanding:            {},
	RouteLogin:              {},
	RouteRegister:           {},
	RouteMarketplace:        {},
	RouteFarmerDashboard:    {},
	RouteSupplierDashboard:  {},
	RouteTraderDashboard:    {},
	RouteExpertConsultation: {},
}

// ParseRoute takes the last path segment of p and matches it against the known
// pages. The ".html" suffix is optional and an empty path is the landing page.
func ParseRoute(p string) (Route, bool) {
	p = strings.Trim(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	if p == "" {
		return RouteLanding, true
	}
	if !strings.HasSuffix(p, ".html") {
		p += ".html"
	}
	r := Route(p)
	_, ok := knownRoutes[r]
	return r, ok
}

// dashboards maps every role that owns a dashboard to its dashboard name.
// Link filtering matches on these names, without the .html suffix.
var dashboards = map[Role]string{
	RoleFarmer:   "farmer-dashboard",
	RoleSupplier: "supplier-dashboard",
	RoleTrader:   "trader-dashboard",
}

// DashboardFor returns the dashboard route of role, or the landing page for
// roles without one.
func DashboardFor(role Role) Route {
	if name, ok := dashboards[role]; ok {
		return Route(name + ".html")
	}
	return RouteLanding
}

// RedirectAfterAuth returns where a freshly authenticated user goes. Only the
// login and registration pages trigger a redirect.
func RedirectAfterAuth(current Route, role Role) (Route, bool) {
	if current != RouteLogin && current != RouteRegister {
		return "", false
	}
	return DashboardFor(role), true
}

var (
	publicRoutes = []Route{RouteLanding, RouteMarketplace, RouteExpertConsultation}
	guestRoutes  = []Route{RouteLanding, RouteLogin, RouteRegister, RouteMarketplace, RouteExpertConsultation}
)

// AllowedRoutes is the fixed allow-list of pages visible to role. The empty
// role is the guest.
func AllowedRoutes(role Role) []Route {
	if role == "" {
		return append([]Route(nil), guestRoutes...)
	}
	out := append([]Route(nil), publicRoutes...)
	if name, ok := dashboards[role]; ok {
		out = append(out, Route(name+".html"))
	}
	return out
}

// CanAccess reports whether route is in the allow-list of role.
func CanAccess(role Role, route Route) bool {
	for _, r := range AllowedRoutes(role) {
		if r == route {
			return true
		}
	}
	return false
}

// RequiredRole returns the role that owns a dashboard route.
func RequiredRole(route Route) (Role, bool) {
	for role, name := range dashboards {
		if Route(name+".html") == route {
			return role, true
		}
	}
	return "", false
}

// Link is a sidebar navigation entry.
type Link struct {
	Href  string `json:"href"`
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
}

// LinkVisible reports whether a sidebar link should be shown to role: a link
// is hidden when its target names the dashboard of a different role.
func LinkVisible(role Role, href string) bool {
	for owner, name := range dashboards {
		if strings.Contains(href, name) && owner != role {
			return false
		}
	}
	return true
}

// VisibleLinks filters links by LinkVisible, preserving order.
func VisibleLinks(role Role, links []Link) []Link {
	out := make([]Link, 0, len(links))
	for _, l := range links {
		if LinkVisible(role, l.Href) {
			out = append(out, l)
		}
	}
	return out
}

// DefaultSidebar is the dashboard sidebar shared by every page.
var DefaultSidebar = []Link{
	{Href: string(RouteLanding), Label: "الرئيسية", Icon: "fa-home"},
	{Href: string(RouteFarmerDashboard), Label: "لوحة المزارع", Icon: "fa-seedling"},
	{Href: string(RouteSupplierDashboard), Label: "لوحة المورد", Icon: "fa-truck"},
	{Href: string(RouteTraderDashboard), Label: "لوحة التاجر", Icon: "fa-store"},
	{Href: string(RouteMarketplace), Label: "السوق", Icon: "fa-shopping-basket"},
	{Href: string(RouteExpertConsultation), Label: "استشارات الخبراء", Icon: "fa-user-tie"},
}
