package view

import (
	"github.com/rashad-agri/marketplace/internal/core/domain"
	"github.com/rashad-agri/marketplace/internal/core/ports"
)

// WeatherWidget is the dashboard weather box.
type WeatherWidget struct {
	Region      string `json:"region"`
	Temperature string `json:"temperature"`
	Humidity    string `json:"humidity"`
	Wind        string `json:"wind"`
	Rainfall    string `json:"rainfall"`
	Condition   string `json:"condition"`
	Icon        string `json:"icon"`
	Fallback    bool   `json:"fallback,omitempty"`
	Error       string `json:"error,omitempty"`
}

var weatherIcons = map[string]string{
	"مشمس": "fa-sun",
	"غائم": "fa-cloud",
	"ممطر": "fa-cloud-rain",
	"عاصف": "fa-wind",
	"مغبر": "fa-smog",
}

// NewWeatherWidget formats a weather result.
func NewWeatherWidget(res ports.Result[domain.WeatherData]) WeatherWidget {
	if !res.Success {
		return WeatherWidget{Error: res.Error, Condition: LoadFailedMessage, Icon: "fa-cloud-sun"}
	}
	w := res.Data
	icon, ok := weatherIcons[w.Condition]
	if !ok {
		icon = "fa-cloud-sun"
	}
	return WeatherWidget{
		Region:      w.Region,
		Temperature: FormatNumber(w.Temperature) + "°C",
		Humidity:    FormatNumber(w.Humidity) + "%",
		Wind:        FormatNumber(w.WindSpeed) + " كم/س",
		Rainfall:    FormatNumber(w.Rainfall) + " مم",
		Condition:   w.Condition,
		Icon:        icon,
		Fallback:    w.Fallback,
	}
}

// StatCard is one headline counter.
type StatCard struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
	Icon  string `json:"icon"`
}

// StatsPanel is the row of counters at the top of a dashboard.
type StatsPanel struct {
	Cards []StatCard `json:"cards"`
	Error string     `json:"error,omitempty"`
}

// NewStatsPanel picks the counters relevant to the stats role.
func NewStatsPanel(res ports.Result[domain.DashboardStats]) StatsPanel {
	if !res.Success {
		return StatsPanel{Cards: []StatCard{}, Error: res.Error}
	}
	s := res.Data
	count := func(key, label, icon string, v int64) StatCard {
		return StatCard{Key: key, Label: label, Value: FormatNumber(float64(v)), Icon: icon}
	}
	revenue := StatCard{Key: "revenue", Label: "الإيرادات", Value: FormatPrice(s.Revenue), Icon: "fa-coins"}

	var cards []StatCard
	switch s.Role {
	case domain.RoleFarmer:
		cards = []StatCard{
			count("products", "منتجاتي", "fa-seedling", s.Products),
			count("orders", "الطلبات", "fa-shopping-cart", s.Orders),
			count("plans", "الخطط الزراعية", "fa-calendar", s.Plans),
			revenue,
		}
	case domain.RoleSupplier:
		cards = []StatCard{
			count("products", "منتجاتي", "fa-box", s.Products),
			count("orders", "الطلبات", "fa-shopping-cart", s.Orders),
			count("pending_orders", "طلبات قيد الانتظار", "fa-clock", s.PendingOrders),
			revenue,
		}
	case domain.RoleTrader:
		cards = []StatCard{
			count("orders", "مشترياتي", "fa-shopping-cart", s.Orders),
			count("pending_orders", "طلبات قيد الانتظار", "fa-clock", s.PendingOrders),
			count("consultations", "الاستشارات", "fa-user-tie", s.Consultations),
		}
	default:
		cards = []StatCard{
			count("consultations", "الاستشارات", "fa-user-tie", s.Consultations),
		}
	}
	return StatsPanel{Cards: cards}
}

// AlertKind is the severity of a transient alert.
type AlertKind string

const (
	AlertSuccess AlertKind = "success"
	AlertError   AlertKind = "error"
	AlertInfo    AlertKind = "info"
	AlertWarning AlertKind = "warning"
)

// Alert is a transient message shown after a form action.
type Alert struct {
	Kind    AlertKind `json:"type"`
	Message string    `json:"message"`
}

// ErrorAlert is shorthand for an error alert.
func ErrorAlert(msg string) *Alert { return &Alert{Kind: AlertError, Message: msg} }

// SuccessAlert is shorthand for a success alert.
func SuccessAlert(msg string) *Alert { return &Alert{Kind: AlertSuccess, Message: msg} }
