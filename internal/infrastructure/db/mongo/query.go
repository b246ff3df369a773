package mongo

import (
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rashad-agri/marketplace/internal/core/ports"
)

// condition translates a single predicate.
func condition(c ports.Condition) (bson.M, error) {
	switch c.Op {
	case ports.OpEq:
		return bson.M{c.Field: c.Value}, nil
	case ports.OpGte:
		return bson.M{c.Field: bson.M{"$gte": c.Value}}, nil
	case ports.OpLte:
		return bson.M{c.Field: bson.M{"$lte": c.Value}}, nil
	case ports.OpILike:
		s, ok := c.Value.(string)
		if !ok {
			return nil, fmt.Errorf("ilike on %s needs a string, got %T", c.Field, c.Value)
		}
		return bson.M{c.Field: bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}}, nil
	}
	return nil, fmt.Errorf("unsupported operator %q", c.Op)
}

// buildFilter turns the conditions of q into a match document.
func buildFilter(q ports.Query) (bson.M, error) {
	all := make([]bson.M, 0, len(q.Conditions)+1)
	for _, c := range q.Conditions {
		m, err := condition(c)
		if err != nil {
			return nil, err
		}
		all = append(all, m)
	}
	if len(q.AnyOf) > 0 {
		alts := make([]bson.M, 0, len(q.AnyOf))
		for _, c := range q.AnyOf {
			m, err := condition(c)
			if err != nil {
				return nil, err
			}
			alts = append(alts, m)
		}
		all = append(all, bson.M{"$or": alts})
	}

	switch len(all) {
	case 0:
		return bson.M{}, nil
	case 1:
		return all[0], nil
	}
	return bson.M{"$and": all}, nil
}

func sortSpec(q ports.Query) bson.D {
	if q.OrderBy == "" {
		return nil
	}
	dir := 1
	if q.Descending {
		dir = -1
	}
	return bson.D{{Key: q.OrderBy, Value: dir}}
}

// buildPipeline renders q as an aggregation: match, joins, sort, limit.
// Sorting after the joins allows ordering on joined fields.
func buildPipeline(q ports.Query) (mongo.Pipeline, error) {
	filter, err := buildFilter(q)
	if err != nil {
		return nil, err
	}
	p := mongo.Pipeline{{{Key: "$match", Value: filter}}}
	for _, j := range q.Joins {
		p = append(p,
			bson.D{{Key: "$lookup", Value: bson.D{
				{Key: "from", Value: j.From},
				{Key: "localField", Value: j.LocalField},
				{Key: "foreignField", Value: j.ForeignField},
				{Key: "as", Value: j.As},
			}}},
			bson.D{{Key: "$unwind", Value: bson.D{
				{Key: "path", Value: "$" + j.As},
				{Key: "preserveNullAndEmptyArrays", Value: true},
			}}},
		)
	}
	if s := sortSpec(q); s != nil {
		p = append(p, bson.D{{Key: "$sort", Value: s}})
	}
	if q.Limit > 0 {
		p = append(p, bson.D{{Key: "$limit", Value: int64(q.Limit)}})
	}
	return p, nil
}
