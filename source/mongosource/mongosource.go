// Package mongosource pages documents of a MongoDB collection.
package mongosource

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/DukeRupert/pagedlist"
)

// Collection is the part of *mongo.Collection a Source uses.
type Collection interface {
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// Source implements pagedlist.Source, decoding each document into T.
type Source[T any] struct {
	col    Collection
	filter interface{}
	sort   bson.D
}

// New returns a Source over the documents in col matching filter. A nil
// filter matches every document. Pages are only stable when sort is total;
// "_id" is appended as a tie-breaker unless sort already uses it.
func New[T any](col Collection, filter interface{}, sort bson.D) *Source[T] {
	if filter == nil {
		filter = bson.D{}
	}
	return &Source[T]{col: col, filter: filter, sort: withIDTieBreak(sort)}
}

// Count returns the number of matching documents.
func (s *Source[T]) Count(ctx context.Context) (int, error) {
	n, err := s.col.CountDocuments(ctx, s.filter)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return int(n), nil
}

// Fetch returns up to limit documents after skipping offset.
func (s *Source[T]) Fetch(ctx context.Context, offset, limit int) ([]T, error) {
	findOpts := options.Find().
		SetSort(s.sort).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := s.col.Find(ctx, s.filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	defer cursor.Close(ctx)

	out := make([]T, 0, pagedlist.FetchCapacity(limit))
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return out, nil
}

func withIDTieBreak(sort bson.D) bson.D {
	for _, e := range sort {
		if e.Key == "_id" {
			return sort
		}
	}
	out := make(bson.D, 0, len(sort)+1)
	out = append(out, sort...)
	return append(out, bson.E{Key: "_id", Value: 1})
}

var _ pagedlist.Source[struct{}] = (*Source[struct{}])(nil)
