package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rashad-agri/marketplace/internal/core/domain"
	"github.com/rashad-agri/marketplace/internal/core/ports"
)

// Store implements ports.DataBackend on a MongoDB database. Records are keyed
// by string ids in _id.
type Store struct {
	db *mongo.Database
}

var _ ports.DataBackend = (*Store)(nil)

func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) Select(ctx context.Context, q ports.Query, out any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	coll := s.db.Collection(q.Collection)
	var (
		cur *mongo.Cursor
		err error
	)
	if len(q.Joins) > 0 {
		pipeline, perr := buildPipeline(q)
		if perr != nil {
			return perr
		}
		cur, err = coll.Aggregate(ctx, pipeline)
	} else {
		filter, ferr := buildFilter(q)
		if ferr != nil {
			return ferr
		}
		opts := options.Find()
		if sort := sortSpec(q); sort != nil {
			opts.SetSort(sort)
		}
		if q.Limit > 0 {
			opts.SetLimit(int64(q.Limit))
		}
		cur, err = coll.Find(ctx, filter, opts)
	}
	if err != nil {
		return fmt.Errorf("select %s: %w", q.Collection, err)
	}
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("select %s: decode: %w", q.Collection, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, collection, id string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get %s: %w", collection, err)
	}
	return nil
}

func (s *Store) Insert(ctx context.Context, collection string, doc any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert %s: %w", collection, domain.ErrUserExists)
		}
		return fmt.Errorf("insert %s: %w", collection, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update %s: %w", collection, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) Count(ctx context.Context, q ports.Query) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := buildFilter(q)
	if err != nil {
		return 0, err
	}
	n, err := s.db.Collection(q.Collection).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", q.Collection, err)
	}
	return n, nil
}

func (s *Store) Sum(ctx context.Context, q ports.Query, field string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := buildFilter(q)
	if err != nil {
		return 0, err
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$" + field}}},
		}}},
	}
	cur, err := s.db.Collection(q.Collection).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("sum %s.%s: %w", q.Collection, field, err)
	}
	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("sum %s.%s: decode: %w", q.Collection, field, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
