package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rashad-agri/marketplace/internal/core/ports"
)

// indexPlan lists the indexes each collection needs for the backend queries.
var indexPlan = map[string][]mongo.IndexModel{
	authCollection: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	ports.CollUsers: {
		{Keys: bson.D{{Key: "user_type", Value: 1}, {Key: "is_active", Value: 1}}},
	},
	ports.CollProducts: {
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "seller_id", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "state", Value: 1}}},
	},
	ports.CollOrders: {
		{Keys: bson.D{{Key: "buyer_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "seller_id", Value: 1}, {Key: "status", Value: 1}}},
	},
	ports.CollMessages: {
		{Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "receiver_id", Value: 1}}},
	},
	ports.CollConsultations: {
		{Keys: bson.D{{Key: "requester_id", Value: 1}}},
		{Keys: bson.D{{Key: "expert_id", Value: 1}}},
	},
	ports.CollFarmingPlans: {
		{Keys: bson.D{{Key: "farmer_id", Value: 1}, {Key: "planting_date", Value: 1}}},
	},
	ports.CollWeather: {
		{Keys: bson.D{{Key: "region", Value: 1}, {Key: "forecast_date", Value: -1}}},
	},
	ports.CollExpertProfiles: {
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	"farmer_profiles": {
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	"supplier_profiles": {
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	"trader_profiles": {
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
}

// EnsureIndexes creates the indexes of every collection. It returns the
// number of collections processed.
func EnsureIndexes(ctx context.Context, db *mongo.Database) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	n := 0
	for coll, models := range indexPlan {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return n, fmt.Errorf("ensure indexes on %s: %w", coll, err)
		}
		n++
	}
	return n, nil
}
