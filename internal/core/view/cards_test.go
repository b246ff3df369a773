package view

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/rashad-agri/marketplace/internal/core/domain"
	"github.com/rashad-agri/marketplace/internal/core/ports"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "1,500 جنيه", FormatPrice(1500))
	assert.Equal(t, "12.50 جنيه", FormatPrice(12.5))
	assert.Equal(t, "0", FormatNumber(0))
	assert.Empty(t, FormatDate(time.Time{}))
}

func TestNewSection_States(t *testing.T) {
	conv := func(p domain.Product) ProductCard { return NewProductCard(p) }

	empty := NewSection(ports.OK([]domain.Product{}), NoProductsMessage, conv)
	assert.True(t, empty.Empty)
	assert.Equal(t, NoProductsMessage, empty.Message)
	assert.Empty(t, empty.Error)
	assert.NotNil(t, empty.Items)

	failed := NewSection(ports.Fail[[]domain.Product](errors.New("timeout")), NoProductsMessage, conv)
	assert.False(t, failed.Empty)
	assert.Equal(t, "timeout", failed.Error)
	assert.Equal(t, LoadFailedMessage, failed.Message)

	full := NewSection(ports.OK([]domain.Product{{ID: "p1", Name: "ذرة"}}), NoProductsMessage, conv)
	assert.False(t, full.Empty)
	assert.Len(t, full.Items, 1)
}

func TestNewProductCard_WithSeller(t *testing.T) {
	p := domain.Product{
		ID:          "p1",
		Name:        "طماطم",
		Category:    "vegetables",
		Price:       2500,
		Unit:        "كيلو",
		Quantity:    100,
		IsAvailable: true,
		SellerID:    "s1",
		Seller:      &domain.SellerSummary{FirstName: "محمد", LastName: "علي", Phone: "0912", State: "الجزيرة"},
	}

	want := ProductCard{
		ID:          "p1",
		Name:        "طماطم",
		Category:    "vegetables",
		Price:       "2,500 جنيه",
		Unit:        "كيلو",
		Quantity:    "100",
		State:       "الجزيرة",
		SellerID:    "s1",
		SellerName:  "محمد علي",
		SellerPhone: "0912",
		Available:   true,
	}
	if diff := cmp.Diff(want, NewProductCard(p)); diff != "" {
		t.Fatalf("card mismatch (-want +got):\n%s", diff)
	}
}

func TestNewOrderRow(t *testing.T) {
	o := domain.Order{
		ID:         "o1",
		Quantity:   3,
		TotalPrice: 4500,
		Status:     domain.OrderShipped,
		CreatedAt:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Product:    &domain.Product{Name: "قمح"},
	}

	got := NewOrderRow(o)

	assert.Equal(t, "قمح", got.ProductName)
	assert.Equal(t, "4,500 جنيه", got.Total)
	assert.Equal(t, "تم الشحن", got.StatusLabel)
	assert.Equal(t, "status-shipped", got.StatusClass)
	assert.Equal(t, "2024-03-01", got.Date)
}

func TestNewExpertCard(t *testing.T) {
	bare := NewExpertCard(domain.Expert{Profile: domain.Profile{ID: "e1", FirstName: "هند"}})
	assert.Equal(t, "-", bare.Rating)
	assert.Equal(t, "ه", bare.Initial)

	full := NewExpertCard(domain.Expert{
		Profile: domain.Profile{ID: "e2", FirstName: "عمر", LastName: "حسن"},
		Details: &domain.ExpertProfile{Specialization: "تربة", YearsExperience: 12, Rating: 4.75, HourlyRate: 3000},
	})
	assert.Equal(t, "تربة", full.Specialization)
	assert.Equal(t, "12 سنوات خبرة", full.Experience)
	assert.Equal(t, "4.8", full.Rating)
	assert.Equal(t, "3,000 جنيه", full.HourlyRate)
}

func TestNewWeatherWidget_Fallback(t *testing.T) {
	got := NewWeatherWidget(ports.OK(domain.FallbackWeather("الخرطوم")))

	want := WeatherWidget{
		Region:      "الخرطوم",
		Temperature: "35°C",
		Humidity:    "40%",
		Wind:        "15 كم/س",
		Rainfall:    "0 مم",
		Condition:   "مشمس",
		Icon:        "fa-sun",
		Fallback:    true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("weather mismatch (-want +got):\n%s", diff)
	}
}

func TestNewStatsPanel(t *testing.T) {
	panel := NewStatsPanel(ports.OK(domain.DashboardStats{Role: domain.RoleSupplier, Products: 4, Orders: 1200, PendingOrders: 2, Revenue: 10000}))

	keys := make([]string, 0, len(panel.Cards))
	for _, c := range panel.Cards {
		keys = append(keys, c.Key)
	}
	assert.Equal(t, []string{"products", "orders", "pending_orders", "revenue"}, keys)
	assert.Equal(t, "1,200", panel.Cards[1].Value)
	assert.Equal(t, "10,000 جنيه", panel.Cards[3].Value)

	failed := NewStatsPanel(ports.Fail[domain.DashboardStats](errors.New("down")))
	assert.Equal(t, "down", failed.Error)
	assert.Empty(t, failed.Cards)
}

func TestGreeting(t *testing.T) {
	assert.Equal(t, "مرحباً، أمل", Greeting(&domain.Profile{FirstName: "أمل"}))
	assert.Equal(t, "مرحباً، "+domain.GenericUserLabel, Greeting(nil))
}
