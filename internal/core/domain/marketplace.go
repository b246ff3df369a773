package domain

import "time"

// FilterAll is the sentinel select value meaning "no filter".
const FilterAll = "all"

// Product is a listing offered by a farmer or supplier.
type Product struct {
	ID          string         `json:"id"           bson:"_id"`
	SellerID    string         `json:"seller_id"    bson:"seller_id"`
	Name        string         `json:"name"         bson:"name"`
	Description string         `json:"description"  bson:"description"`
	Category    string         `json:"category"     bson:"category"`
	ProductType string         `json:"product_type" bson:"product_type"`
	Price       float64        `json:"price"        bson:"price"`
	Unit        string         `json:"unit"         bson:"unit"`
	Quantity    float64        `json:"quantity"     bson:"quantity"`
	State       string         `json:"state"        bson:"state"`
	ImageURL    string         `json:"image_url"    bson:"image_url"`
	IsAvailable bool           `json:"is_available" bson:"is_available"`
	CreatedAt   time.Time      `json:"created_at"   bson:"created_at"`
	Seller      *SellerSummary `json:"seller,omitempty" bson:"seller,omitempty"`
}

// SellerSummary is the joined subset of the seller's profile shown on cards.
type SellerSummary struct {
	FirstName string `json:"first_name" bson:"first_name"`
	LastName  string `json:"last_name"  bson:"last_name"`
	Phone     string `json:"phone"      bson:"phone"`
	State     string `json:"state"      bson:"state"`
}

// ProductFilters are the marketplace filter form values. Empty strings, the
// "all" sentinel and zero prices mean "not filtered".
type ProductFilters struct {
	Category    string  `json:"category"     query:"category"`
	ProductType string  `json:"product_type" query:"product_type"`
	State       string  `json:"state"        query:"state"`
	SellerID    string  `json:"seller_id"    query:"seller_id"`
	MinPrice    float64 `json:"min_price"    query:"min_price"`
	MaxPrice    float64 `json:"max_price"    query:"max_price"`
	Limit       int     `json:"limit"        query:"limit"`
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

var orderStatusLabels = map[OrderStatus]string{
	OrderPending:   "قيد الانتظار",
	OrderConfirmed: "مؤكد",
	OrderShipped:   "تم الشحن",
	OrderDelivered: "تم التسليم",
	OrderCancelled: "ملغي",
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := orderStatusLabels[s]
	return ok
}

// Label returns the display label of s.
func (s OrderStatus) Label() string {
	if l, ok := orderStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Order is a purchase of a product.
type Order struct {
	ID         string      `json:"id"          bson:"_id"`
	ProductID  string      `json:"product_id"  bson:"product_id"`
	BuyerID    string      `json:"buyer_id"    bson:"buyer_id"`
	SellerID   string      `json:"seller_id"   bson:"seller_id"`
	Quantity   float64     `json:"quantity"    bson:"quantity"`
	TotalPrice float64     `json:"total_price" bson:"total_price"`
	Status     OrderStatus `json:"status"      bson:"status"`
	Notes      string      `json:"notes"       bson:"notes"`
	CreatedAt  time.Time   `json:"created_at"  bson:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"  bson:"updated_at"`
	Product    *Product    `json:"product,omitempty" bson:"product,omitempty"`
}

// NewOrder is the input of CreateOrder.
type NewOrder struct {
	ProductID string  `json:"product_id"`
	BuyerID   string  `json:"buyer_id"`
	Quantity  float64 `json:"quantity"`
	Notes     string  `json:"notes"`
}

// Expert is an expert's profile joined with its expert_profiles row.
type Expert struct {
	Profile `bson:",inline"`

	Details *ExpertProfile `json:"expert_profile,omitempty" bson:"expert_profile,omitempty"`
}

// ExpertProfile is the expert side profile.
type ExpertProfile struct {
	UserID          string  `json:"user_id"          bson:"user_id"`
	Specialization  string  `json:"specialization"   bson:"specialization"`
	YearsExperience int     `json:"years_experience" bson:"years_experience"`
	Rating          float64 `json:"rating"           bson:"rating"`
	HourlyRate      float64 `json:"hourly_rate"      bson:"hourly_rate"`
	Bio             string  `json:"bio"              bson:"bio"`
}

// RoleProfile is the per-role side row written at registration. Only the
// fields relevant to Role are populated.
type RoleProfile struct {
	UserID       string  `json:"user_id"                 bson:"user_id"`
	FarmArea     float64 `json:"farm_area,omitempty"     bson:"farm_area,omitempty"`
	SoilType     string  `json:"soil_type,omitempty"     bson:"soil_type,omitempty"`
	WaterSource  string  `json:"water_source,omitempty"  bson:"water_source,omitempty"`
	CompanyName  string  `json:"company_name,omitempty"  bson:"company_name,omitempty"`
	SupplierType string  `json:"supplier_type,omitempty" bson:"supplier_type,omitempty"`
	TradeType    string  `json:"trade_type,omitempty"    bson:"trade_type,omitempty"`
}

// NewRoleProfile returns the initial side row for role and its collection
// name. Roles without a side profile return ok == false.
func NewRoleProfile(userID string, role Role) (RoleProfile, string, bool) {
	switch role {
	case RoleFarmer:
		return RoleProfile{UserID: userID}, "farmer_profiles", true
	case RoleSupplier:
		return RoleProfile{UserID: userID, SupplierType: "other"}, "supplier_profiles", true
	case RoleTrader:
		return RoleProfile{UserID: userID, TradeType: "wholesale"}, "trader_profiles", true
	}
	return RoleProfile{}, "", false
}

// Consultation is a booked session with an expert.
type Consultation struct {
	ID              string    `json:"id"               bson:"_id"`
	ExpertID        string    `json:"expert_id"        bson:"expert_id"`
	RequesterID     string    `json:"requester_id"     bson:"requester_id"`
	Type            string    `json:"consultation_type" bson:"consultation_type"`
	ScheduledAt     time.Time `json:"scheduled_at"     bson:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes" bson:"duration_minutes"`
	Notes           string    `json:"notes"            bson:"notes"`
	Status          string    `json:"status"           bson:"status"`
	CreatedAt       time.Time `json:"created_at"       bson:"created_at"`
}

// NewConsultation is the input of BookConsultation.
type NewConsultation struct {
	ExpertID        string    `json:"expert_id"`
	RequesterID     string    `json:"requester_id"`
	Type            string    `json:"consultation_type"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           string    `json:"notes"`
}

// WeatherData is a regional forecast.
type WeatherData struct {
	Region       string    `json:"region"        bson:"region"`
	Temperature  float64   `json:"temperature"   bson:"temperature"`
	Humidity     float64   `json:"humidity"      bson:"humidity"`
	WindSpeed    float64   `json:"wind_speed"    bson:"wind_speed"`
	Rainfall     float64   `json:"rainfall"      bson:"rainfall"`
	Condition    string    `json:"condition"     bson:"condition"`
	ForecastDate time.Time `json:"forecast_date" bson:"forecast_date"`
	Fallback     bool      `json:"fallback"      bson:"-"`
}

// FallbackWeather is returned when a region has no stored forecast.
func FallbackWeather(region string) WeatherData {
	return WeatherData{
		Region:      region,
		Temperature: 35,
		Humidity:    40,
		WindSpeed:   15,
		Rainfall:    0,
		Condition:   "مشمس",
		Fallback:    true,
	}
}

// FarmingPlan is a farmer's seasonal crop plan.
type FarmingPlan struct {
	ID           string    `json:"id"            bson:"_id"`
	FarmerID     string    `json:"farmer_id"     bson:"farmer_id"`
	CropType     string    `json:"crop_type"     bson:"crop_type"`
	AreaFeddan   float64   `json:"area"          bson:"area"`
	PlantingDate time.Time `json:"planting_date" bson:"planting_date"`
	HarvestDate  time.Time `json:"harvest_date"  bson:"harvest_date"`
	Status       string    `json:"status"        bson:"status"`
	Notes        string    `json:"notes"         bson:"notes"`
	CreatedAt    time.Time `json:"created_at"    bson:"created_at"`
}

// Message is a chat message between two users, optionally about a product.
type Message struct {
	ID         string    `json:"id"          bson:"_id"`
	SenderID   string    `json:"sender_id"   bson:"sender_id"`
	ReceiverID string    `json:"receiver_id" bson:"receiver_id"`
	ProductID  string    `json:"product_id"  bson:"product_id,omitempty"`
	Content    string    `json:"content"     bson:"content"`
	Read       bool      `json:"is_read"     bson:"is_read"`
	CreatedAt  time.Time `json:"created_at"  bson:"created_at"`
}

// NewMessage is the input of SendMessage.
type NewMessage struct {
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	ProductID  string `json:"product_id"`
	Content    string `json:"content"`
}

// DashboardStats are the headline counters of a role dashboard.
type DashboardStats struct {
	Role          Role    `json:"role"`
	Products      int64   `json:"products"`
	Orders        int64   `json:"orders"`
	PendingOrders int64   `json:"pending_orders"`
	Plans         int64   `json:"plans"`
	Consultations int64   `json:"consultations"`
	Revenue       float64 `json:"revenue"`
}
