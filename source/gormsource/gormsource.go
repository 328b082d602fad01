// Package gormsource pages GORM models.
package gormsource

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/DukeRupert/pagedlist"
)

// Scope narrows the query, for example with Where or Joins.
type Scope = func(*gorm.DB) *gorm.DB

// Source implements pagedlist.Source for the model T.
type Source[T any] struct {
	db     *gorm.DB
	scopes []Scope
	order  []string
}

// Option configures a Source.
type Option func(*options)

type options struct {
	scopes []Scope
	order  []string
}

// WithScopes applies the scopes to both the count and the fetch query.
func WithScopes(scopes ...Scope) Option {
	return func(o *options) {
		o.scopes = append(o.scopes, scopes...)
	}
}

// WithOrder adds ORDER BY clauses, such as "name ASC". Pages are only stable
// when the order is total.
func WithOrder(order ...string) Option {
	return func(o *options) {
		o.order = append(o.order, order...)
	}
}

// New returns a Source reading T through db.
func New[T any](db *gorm.DB, opts ...Option) *Source[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Source[T]{db: db, scopes: o.scopes, order: o.order}
}

func (s *Source[T]) query(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(new(T)).Scopes(s.scopes...)
}

// Count returns the number of rows matching the scopes.
func (s *Source[T]) Count(ctx context.Context) (int, error) {
	var total int64
	if err := s.query(ctx).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return int(total), nil
}

// Fetch returns up to limit rows after skipping offset.
func (s *Source[T]) Fetch(ctx context.Context, offset, limit int) ([]T, error) {
	q := s.query(ctx)
	for _, o := range s.order {
		q = q.Order(o)
	}

	out := make([]T, 0, pagedlist.FetchCapacity(limit))
	if err := q.Offset(offset).Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	return out, nil
}

var _ pagedlist.Source[struct{}] = (*Source[struct{}])(nil)
