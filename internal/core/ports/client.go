package ports

import (
	"context"

	"github.com/rashad-agri/marketplace/internal/core/domain"
)

// AccountClient is the authentication half of the backend client.
type AccountClient interface {
	SignUp(ctx context.Context, email, password string, meta domain.IdentityMetadata) Result[*domain.Identity]
	SignIn(ctx context.Context, email, password string) Result[*domain.AuthSession]
	SignOut(ctx context.Context) Result[struct{}]
	GetCurrentUser(ctx context.Context) Result[*domain.Identity]
	GetUserProfile(ctx context.Context, id string) Result[*domain.Profile]
	CreateRoleProfile(ctx context.Context, id string, role domain.Role) Result[struct{}]
	UpdateUserProfile(ctx context.Context, id string, changes domain.ProfileChanges) Result[*domain.Profile]
	CheckAdminAccess(ctx context.Context) Result[bool]
	OnAuthStateChange(ctx context.Context) (<-chan domain.AuthEvent, error)
}

// MarketplaceClient is the data half of the backend client.
type MarketplaceClient interface {
	GetProducts(ctx context.Context, filters domain.ProductFilters) Result[[]domain.Product]
	GetProductByID(ctx context.Context, id string) Result[*domain.Product]
	SearchProducts(ctx context.Context, term string, filters domain.ProductFilters) Result[[]domain.Product]
	CreateOrder(ctx context.Context, in domain.NewOrder) Result[*domain.Order]
	GetUserOrders(ctx context.Context, userID string, role domain.Role) Result[[]domain.Order]
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) Result[*domain.Order]
	GetExperts(ctx context.Context) Result[[]domain.Expert]
	BookConsultation(ctx context.Context, in domain.NewConsultation) Result[*domain.Consultation]
	GetWeatherData(ctx context.Context, region string) Result[domain.WeatherData]
	GetFarmerPlans(ctx context.Context, farmerID string) Result[[]domain.FarmingPlan]
	GetDashboardStats(ctx context.Context, userID string, role domain.Role) Result[domain.DashboardStats]
	SendMessage(ctx context.Context, in domain.NewMessage) Result[*domain.Message]
	GetMessages(ctx context.Context, userID, peerID string) Result[[]domain.Message]
}

// Client is the full backend client used by a session.
type Client interface {
	AccountClient
	MarketplaceClient
}
