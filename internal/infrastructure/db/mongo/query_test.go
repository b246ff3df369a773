package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/rashad-agri/marketplace/internal/core/ports"
)

func TestBuildFilter_Empty(t *testing.T) {
	f, err := buildFilter(*ports.From("products"))
	require.NoError(t, err)
	assert.Equal(t, bson.M{}, f)
}

func TestBuildFilter_SingleCondition(t *testing.T) {
	f, err := buildFilter(*ports.From("products").Eq("category", "grains"))
	require.NoError(t, err)
	assert.Equal(t, bson.M{"category": "grains"}, f)
}

func TestBuildFilter_RangeAndOr(t *testing.T) {
	q := ports.From("products").
		Where("price", ports.OpGte, 10.0).
		Where("price", ports.OpLte, 20.0).
		Or(
			ports.Condition{Field: "name", Op: ports.OpILike, Value: "a.b"},
			ports.Condition{Field: "description", Op: ports.OpILike, Value: "a.b"},
		)

	f, err := buildFilter(*q)
	require.NoError(t, err)

	want := bson.M{"$and": []bson.M{
		{"price": bson.M{"$gte": 10.0}},
		{"price": bson.M{"$lte": 20.0}},
		{"$or": []bson.M{
			{"name": bson.M{"$regex": `a\.b`, "$options": "i"}},
			{"description": bson.M{"$regex": `a\.b`, "$options": "i"}},
		}},
	}}
	assert.Equal(t, want, f)
}

func TestBuildFilter_RejectsBadOperands(t *testing.T) {
	_, err := buildFilter(*ports.From("products").Where("name", ports.OpILike, 3))
	assert.Error(t, err)

	_, err = buildFilter(*ports.From("products").Where("name", "regex", "x"))
	assert.Error(t, err)
}

func TestBuildPipeline_SortsAfterJoins(t *testing.T) {
	q := ports.From("users").
		Eq("user_type", "expert").
		Join("expert_profiles", "_id", "user_id", "expert_profile").
		Order("expert_profile.rating", true).
		Take(5)

	p, err := buildPipeline(*q)
	require.NoError(t, err)
	require.Len(t, p, 5)

	stages := make([]string, 0, len(p))
	for _, st := range p {
		stages = append(stages, st[0].Key)
	}
	assert.Equal(t, []string{"$match", "$lookup", "$unwind", "$sort", "$limit"}, stages)
	assert.Equal(t, bson.D{{Key: "expert_profile.rating", Value: -1}}, p[3][0].Value)
	assert.Equal(t, int64(5), p[4][0].Value)
}

func TestSortSpec_None(t *testing.T) {
	assert.Nil(t, sortSpec(ports.Query{}))
	assert.Equal(t, bson.D{{Key: "planting_date", Value: 1}}, sortSpec(*ports.From("farming_plans").Order("planting_date", false)))
}
