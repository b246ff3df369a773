package view

import "github.com/rashad-agri/marketplace/internal/core/domain"

// Page is the response of a page load. A non-empty Redirect means the
// browser must go there instead of rendering Content.
type Page struct {
	Route    domain.Route `json:"route"`
	Redirect domain.Route `json:"redirect,omitempty"`
	Chrome   Chrome       `json:"chrome"`
	Content  any          `json:"content,omitempty"`
}

type LandingContent struct {
	Featured Section[ProductCard] `json:"featured"`
}

type MarketplaceContent struct {
	Term     string                `json:"term,omitempty"`
	Filters  domain.ProductFilters `json:"filters"`
	Products Section[ProductCard]  `json:"products"`
}

type FarmerDashboard struct {
	Greeting string            `json:"greeting"`
	Stats    StatsPanel        `json:"stats"`
	Weather  WeatherWidget     `json:"weather"`
	Plans    Section[PlanItem] `json:"plans"`
	Orders   Section[OrderRow] `json:"orders"`
}

type SupplierDashboard struct {
	Greeting string               `json:"greeting"`
	Stats    StatsPanel           `json:"stats"`
	Products Section[ProductCard] `json:"products"`
	Orders   Section[OrderRow]    `json:"orders"`
}

type TraderDashboard struct {
	Greeting string               `json:"greeting"`
	Stats    StatsPanel           `json:"stats"`
	Orders   Section[OrderRow]    `json:"orders"`
	Market   Section[ProductCard] `json:"market"`
}

type ExpertsContent struct {
	Experts Section[ExpertCard] `json:"experts"`
}

// FormContent is the body of the login and register pages.
type FormContent struct {
	Form  string       `json:"form"`
	Roles []RoleOption `json:"roles"`
}

// RoleOption is one choice of the user type select.
type RoleOption struct {
	Value domain.Role `json:"value"`
	Label string      `json:"label"`
}

// RoleOptions lists the selectable roles in display order.
func RoleOptions() []RoleOption {
	roles := []domain.Role{domain.RoleFarmer, domain.RoleSupplier, domain.RoleTrader, domain.RoleExpert}
	out := make([]RoleOption, 0, len(roles))
	for _, r := range roles {
		out = append(out, RoleOption{Value: r, Label: r.Label()})
	}
	return out
}

// Greeting welcomes the profile owner by first name.
func Greeting(p *domain.Profile) string {
	name := domain.GenericUserLabel
	if p != nil && p.FirstName != "" {
		name = p.FirstName
	}
	return "مرحباً، " + name
}
