package ports

// Backend collection names.
const (
	CollUsers          = "users"
	CollProducts       = "products"
	CollOrders         = "orders"
	CollMessages       = "messages"
	CollConsultations  = "consultations"
	CollFarmingPlans   = "farming_plans"
	CollWeather        = "weather_data"
	CollExpertProfiles = "expert_profiles"
)
