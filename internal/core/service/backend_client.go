package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rashad-agri/marketplace/internal/core/domain"
	"github.com/rashad-agri/marketplace/internal/core/ports"
)

// BackendClient wraps the hosted backend of one session. Every operation
// returns a ports.Result; transport errors and panics never escape.
type BackendClient struct {
	auth     ports.AuthBackend
	data     ports.DataBackend
	timeout  time.Duration
	observer ports.CallObserver
	log      zerolog.Logger
}

var _ ports.Client = (*BackendClient)(nil)

// NewBackendClient builds a client. A zero timeout leaves the caller's
// deadline untouched and a nil observer disables call metrics.
func NewBackendClient(auth ports.AuthBackend, data ports.DataBackend, timeout time.Duration, observer ports.CallObserver, log zerolog.Logger) *BackendClient {
	return &BackendClient{
		auth:     auth,
		data:     data,
		timeout:  timeout,
		observer: observer,
		log:      log.With().Str("component", "backend_client").Logger(),
	}
}

// call runs fn under the client timeout and folds its outcome into a Result.
func call[T any](ctx context.Context, c *BackendClient, op string, fn func(ctx context.Context) (T, error)) (res ports.Result[T]) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Str("op", op).Interface("panic", r).Msg("backend call panicked")
			res = ports.Fail[T](fmt.Errorf("%s: %v", op, r))
		}
		if c.observer != nil {
			c.observer.ObserveCall(op, res.Success, time.Since(start))
		}
	}()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	data, err := fn(ctx)
	if err != nil {
		c.log.Debug().Err(err).Str("op", op).Msg("backend call failed")
		return ports.Fail[T](err)
	}
	return ports.OK(data)
}

// ── Authentication ───────────────────────────────────────────────────────────

func (c *BackendClient) SignUp(ctx context.Context, email, password string, meta domain.IdentityMetadata) ports.Result[*domain.Identity] {
	return call(ctx, c, "sign_up", func(ctx context.Context) (*domain.Identity, error) {
		return c.auth.SignUp(ctx, strings.TrimSpace(email), password, meta)
	})
}

func (c *BackendClient) SignIn(ctx context.Context, email, password string) ports.Result[*domain.AuthSession] {
	return call(ctx, c, "sign_in", func(ctx context.Context) (*domain.AuthSession, error) {
		return c.auth.SignIn(ctx, strings.TrimSpace(email), password)
	})
}

func (c *BackendClient) SignOut(ctx context.Context) ports.Result[struct{}] {
	return call(ctx, c, "sign_out", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.auth.SignOut(ctx)
	})
}

// GetCurrentUser succeeds with nil data when nobody is signed in.
func (c *BackendClient) GetCurrentUser(ctx context.Context) ports.Result[*domain.Identity] {
	return call(ctx, c, "get_current_user", c.auth.GetUser)
}

func (c *BackendClient) GetUserProfile(ctx context.Context, id string) ports.Result[*domain.Profile] {
	return call(ctx, c, "get_user_profile", func(ctx context.Context) (*domain.Profile, error) {
		var p domain.Profile
		if err := c.data.Get(ctx, ports.CollUsers, id, &p); err != nil {
			return nil, err
		}
		return &p, nil
	})
}

// CreateRoleProfile writes the side profile row of role. Roles without one
// succeed without touching the backend.
func (c *BackendClient) CreateRoleProfile(ctx context.Context, id string, role domain.Role) ports.Result[struct{}] {
	return call(ctx, c, "create_role_profile", func(ctx context.Context) (struct{}, error) {
		row, coll, ok := domain.NewRoleProfile(id, role)
		if !ok {
			return struct{}{}, nil
		}
		return struct{}{}, c.data.Insert(ctx, coll, row)
	})
}

// UpdateUserProfile edits the users record and the identity metadata. The
// identity update emits USER_UPDATED to the owner's sessions.
func (c *BackendClient) UpdateUserProfile(ctx context.Context, id string, changes domain.ProfileChanges) ports.Result[*domain.Profile] {
	return call(ctx, c, "update_user_profile", func(ctx context.Context) (*domain.Profile, error) {
		if changes.IsEmpty() {
			return nil, fmt.Errorf("%w: no changes", domain.ErrInvalidInput)
		}
		if err := c.data.Update(ctx, ports.CollUsers, id, profileFields(changes)); err != nil {
			return nil, err
		}
		if _, err := c.auth.UpdateUser(ctx, changes); err != nil {
			return nil, err
		}
		var p domain.Profile
		if err := c.data.Get(ctx, ports.CollUsers, id, &p); err != nil {
			return nil, err
		}
		return &p, nil
	})
}

func profileFields(ch domain.ProfileChanges) map[string]any {
	fields := make(map[string]any)
	set := func(k string, v *string) {
		if v != nil {
			fields[k] = *v
		}
	}
	set("first_name", ch.FirstName)
	set("last_name", ch.LastName)
	set("phone", ch.Phone)
	set("state", ch.State)
	return fields
}

// CheckAdminAccess reports whether the signed-in user is an administrator.
func (c *BackendClient) CheckAdminAccess(ctx context.Context) ports.Result[bool] {
	return call(ctx, c, "check_admin_access", func(ctx context.Context) (bool, error) {
		id, err := c.auth.GetUser(ctx)
		if err != nil {
			return false, err
		}
		if id == nil {
			return false, domain.ErrNotAuthenticated
		}
		var p domain.Profile
		if err := c.data.Get(ctx, ports.CollUsers, id.ID, &p); err != nil {
			return false, err
		}
		return p.IsAdmin, nil
	})
}

// OnAuthStateChange subscribes to auth events of the session.
func (c *BackendClient) OnAuthStateChange(ctx context.Context) (<-chan domain.AuthEvent, error) {
	return c.auth.OnAuthStateChange(ctx)
}

// ── Products ─────────────────────────────────────────────────────────────────

// present reports whether a filter value was supplied.
func present(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != domain.FilterAll
}

// productQuery translates filters into a query. Only supplied filters become
// conditions.
func productQuery(f domain.ProductFilters) *ports.Query {
	q := ports.From(ports.CollProducts)
	if present(f.Category) {
		q.Eq("category", f.Category)
	}
	if present(f.ProductType) {
		q.Eq("product_type", f.ProductType)
	}
	if present(f.State) {
		q.Eq("state", f.State)
	}
	if present(f.SellerID) {
		q.Eq("seller_id", f.SellerID)
	}
	if f.MinPrice > 0 {
		q.Where("price", ports.OpGte, f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q.Where("price", ports.OpLte, f.MaxPrice)
	}
	if f.Limit > 0 {
		q.Take(f.Limit)
	}
	return q.Join(ports.CollUsers, "seller_id", "_id", "seller").Order("created_at", true)
}

func (c *BackendClient) GetProducts(ctx context.Context, filters domain.ProductFilters) ports.Result[[]domain.Product] {
	return call(ctx, c, "get_products", func(ctx context.Context) ([]domain.Product, error) {
		return c.selectProducts(ctx, productQuery(filters))
	})
}

// SearchProducts matches term against name and description, then applies filters.
func (c *BackendClient) SearchProducts(ctx context.Context, term string, filters domain.ProductFilters) ports.Result[[]domain.Product] {
	return call(ctx, c, "search_products", func(ctx context.Context) ([]domain.Product, error) {
		q := productQuery(filters)
		if term = strings.TrimSpace(term); term != "" {
			q.Or(
				ports.Condition{Field: "name", Op: ports.OpILike, Value: term},
				ports.Condition{Field: "description", Op: ports.OpILike, Value: term},
			)
		}
		return c.selectProducts(ctx, q)
	})
}

func (c *BackendClient) selectProducts(ctx context.Context, q *ports.Query) ([]domain.Product, error) {
	products := []domain.Product{}
	if err := c.data.Select(ctx, *q, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *BackendClient) GetProductByID(ctx context.Context, id string) ports.Result[*domain.Product] {
	return call(ctx, c, "get_product_by_id", func(ctx context.Context) (*domain.Product, error) {
		var p domain.Product
		if err := c.data.Get(ctx, ports.CollProducts, id, &p); err != nil {
			return nil, err
		}
		return &p, nil
	})
}

// ── Orders ───────────────────────────────────────────────────────────────────

// CreateOrder prices the order from the product and stores it as pending.
func (c *BackendClient) CreateOrder(ctx context.Context, in domain.NewOrder) ports.Result[*domain.Order] {
	return call(ctx, c, "create_order", func(ctx context.Context) (*domain.Order, error) {
		if in.ProductID == "" || in.BuyerID == "" || in.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product, buyer and a positive quantity are required", domain.ErrInvalidInput)
		}
		var p domain.Product
		if err := c.data.Get(ctx, ports.CollProducts, in.ProductID, &p); err != nil {
			return nil, err
		}
		now := time.Now().UTC()
		o := &domain.Order{
			ID:         uuid.NewString(),
			ProductID:  p.ID,
			BuyerID:    in.BuyerID,
			SellerID:   p.SellerID,
			Quantity:   in.Quantity,
			TotalPrice: p.Price * in.Quantity,
			Status:     domain.OrderPending,
			Notes:      in.Notes,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := c.data.Insert(ctx, ports.CollOrders, o); err != nil {
			return nil, err
		}
		return o, nil
	})
}

// ordersQuery selects the orders a user takes part in for role: traders buy,
// suppliers sell, farmers do both, everyone else buys.
func ordersQuery(userID string, role domain.Role) *ports.Query {
	q := ports.From(ports.CollOrders)
	switch role {
	case domain.RoleSupplier:
		q.Eq("seller_id", userID)
	case domain.RoleFarmer:
		q.Or(
			ports.Condition{Field: "buyer_id", Op: ports.OpEq, Value: userID},
			ports.Condition{Field: "seller_id", Op: ports.OpEq, Value: userID},
		)
	default:
		q.Eq("buyer_id", userID)
	}
	return q
}

func (c *BackendClient) GetUserOrders(ctx context.Context, userID string, role domain.Role) ports.Result[[]domain.Order] {
	return call(ctx, c, "get_user_orders", func(ctx context.Context) ([]domain.Order, error) {
		q := ordersQuery(userID, role).
			Join(ports.CollProducts, "product_id", "_id", "product").
			Order("created_at", true)
		orders := []domain.Order{}
		if err := c.data.Select(ctx, *q, &orders); err != nil {
			return nil, err
		}
		return orders, nil
	})
}

// UpdateOrderStatus rejects unknown statuses before reaching the backend.
// Only the seller of the order may change it.
func (c *BackendClient) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) ports.Result[*domain.Order] {
	return call(ctx, c, "update_order_status", func(ctx context.Context) (*domain.Order, error) {
		if !status.Valid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
		}
		caller, err := c.auth.GetUser(ctx)
		if err != nil {
			return nil, err
		}
		if caller == nil {
			return nil, domain.ErrNotAuthenticated
		}

		var o domain.Order
		if err := c.data.Get(ctx, ports.CollOrders, id, &o); err != nil {
			return nil, err
		}
		if o.SellerID != caller.ID {
			return nil, fmt.Errorf("%w: order %s belongs to another seller", domain.ErrForbidden, id)
		}

		now := time.Now().UTC()
		fields := map[string]any{"status": string(status), "updated_at": now}
		if err := c.data.Update(ctx, ports.CollOrders, id, fields); err != nil {
			return nil, err
		}
		o.Status, o.UpdatedAt = status, now
		return &o, nil
	})
}

// ── Experts & consultations ──────────────────────────────────────────────────

// GetExperts lists active experts, best rated first.
func (c *BackendClient) GetExperts(ctx context.Context) ports.Result[[]domain.Expert] {
	return call(ctx, c, "get_experts", func(ctx context.Context) ([]domain.Expert, error) {
		q := ports.From(ports.CollUsers).
			Eq("user_type", string(domain.RoleExpert)).
			Eq("is_active", true).
			Join(ports.CollExpertProfiles, "_id", "user_id", "expert_profile").
			Order("expert_profile.rating", true)
		experts := []domain.Expert{}
		if err := c.data.Select(ctx, *q, &experts); err != nil {
			return nil, err
		}
		return experts, nil
	})
}

func (c *BackendClient) BookConsultation(ctx context.Context, in domain.NewConsultation) ports.Result[*domain.Consultation] {
	return call(ctx, c, "book_consultation", func(ctx context.Context) (*domain.Consultation, error) {
		if in.ExpertID == "" || in.RequesterID == "" || in.ScheduledAt.IsZero() {
			return nil, fmt.Errorf("%w: expert, requester and schedule are required", domain.ErrInvalidInput)
		}
		cons := &domain.Consultation{
			ID:              uuid.NewString(),
			ExpertID:        in.ExpertID,
			RequesterID:     in.RequesterID,
			Type:            in.Type,
			ScheduledAt:     in.ScheduledAt.UTC(),
			DurationMinutes: in.DurationMinutes,
			Notes:           in.Notes,
			Status:          "pending",
			CreatedAt:       time.Now().UTC(),
		}
		if err := c.data.Insert(ctx, ports.CollConsultations, cons); err != nil {
			return nil, err
		}
		return cons, nil
	})
}

// ── Weather & plans ──────────────────────────────────────────────────────────

// GetWeatherData returns the latest forecast of region, or the fixed fallback
// record when none is stored.
func (c *BackendClient) GetWeatherData(ctx context.Context, region string) ports.Result[domain.WeatherData] {
	return call(ctx, c, "get_weather_data", func(ctx context.Context) (domain.WeatherData, error) {
		q := ports.From(ports.CollWeather).Eq("region", region).Order("forecast_date", true).Take(1)
		var rows []domain.WeatherData
		err := c.data.Select(ctx, *q, &rows)
		switch {
		case errors.Is(err, domain.ErrNotFound):
		case err != nil:
			return domain.WeatherData{}, err
		case len(rows) > 0:
			return rows[0], nil
		}
		return domain.FallbackWeather(region), nil
	})
}

func (c *BackendClient) GetFarmerPlans(ctx context.Context, farmerID string) ports.Result[[]domain.FarmingPlan] {
	return call(ctx, c, "get_farmer_plans", func(ctx context.Context) ([]domain.FarmingPlan, error) {
		q := ports.From(ports.CollFarmingPlans).Eq("farmer_id", farmerID).Order("planting_date", false)
		plans := []domain.FarmingPlan{}
		if err := c.data.Select(ctx, *q, &plans); err != nil {
			return nil, err
		}
		return plans, nil
	})
}

// ── Dashboard ────────────────────────────────────────────────────────────────

// GetDashboardStats computes the headline counters of role.
func (c *BackendClient) GetDashboardStats(ctx context.Context, userID string, role domain.Role) ports.Result[domain.DashboardStats] {
	return call(ctx, c, "get_dashboard_stats", func(ctx context.Context) (domain.DashboardStats, error) {
		s := domain.DashboardStats{Role: role}
		var err error
		count := func(dst *int64, q *ports.Query) {
			if err == nil {
				*dst, err = c.data.Count(ctx, *q)
			}
		}

		sells := role == domain.RoleFarmer || role == domain.RoleSupplier
		if sells {
			count(&s.Products, ports.From(ports.CollProducts).Eq("seller_id", userID))
		}
		if role != domain.RoleExpert {
			count(&s.Orders, ordersQuery(userID, role))
			count(&s.PendingOrders, ordersQuery(userID, role).Eq("status", string(domain.OrderPending)))
		}
		switch role {
		case domain.RoleFarmer:
			count(&s.Plans, ports.From(ports.CollFarmingPlans).Eq("farmer_id", userID))
			count(&s.Consultations, ports.From(ports.CollConsultations).Eq("requester_id", userID))
		case domain.RoleTrader:
			count(&s.Consultations, ports.From(ports.CollConsultations).Eq("requester_id", userID))
		case domain.RoleExpert:
			count(&s.Consultations, ports.From(ports.CollConsultations).Eq("expert_id", userID))
		}
		if err != nil {
			return domain.DashboardStats{}, err
		}

		if sells {
			q := ports.From(ports.CollOrders).Eq("seller_id", userID).Eq("status", string(domain.OrderDelivered))
			if s.Revenue, err = c.data.Sum(ctx, *q, "total_price"); err != nil {
				return domain.DashboardStats{}, err
			}
		}
		return s, nil
	})
}

// ── Messages ─────────────────────────────────────────────────────────────────

func (c *BackendClient) SendMessage(ctx context.Context, in domain.NewMessage) ports.Result[*domain.Message] {
	return call(ctx, c, "send_message", func(ctx context.Context) (*domain.Message, error) {
		content := strings.TrimSpace(in.Content)
		if in.SenderID == "" || in.ReceiverID == "" || content == "" {
			return nil, fmt.Errorf("%w: sender, receiver and content are required", domain.ErrInvalidInput)
		}
		m := &domain.Message{
			ID:         uuid.NewString(),
			SenderID:   in.SenderID,
			ReceiverID: in.ReceiverID,
			ProductID:  in.ProductID,
			Content:    content,
			CreatedAt:  time.Now().UTC(),
		}
		if err := c.data.Insert(ctx, ports.CollMessages, m); err != nil {
			return nil, err
		}
		return m, nil
	})
}

// GetMessages returns the conversation between two users, oldest first.
func (c *BackendClient) GetMessages(ctx context.Context, userID, peerID string) ports.Result[[]domain.Message] {
	return call(ctx, c, "get_messages", func(ctx context.Context) ([]domain.Message, error) {
		var sent, received []domain.Message
		q := ports.From(ports.CollMessages).Eq("sender_id", userID).Eq("receiver_id", peerID)
		if err := c.data.Select(ctx, *q, &sent); err != nil {
			return nil, err
		}
		q = ports.From(ports.CollMessages).Eq("sender_id", peerID).Eq("receiver_id", userID)
		if err := c.data.Select(ctx, *q, &received); err != nil {
			return nil, err
		}
		all := append(sent, received...)
		sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
		if all == nil {
			all = []domain.Message{}
		}
		return all, nil
	})
}
