// Package sqlsource pages rows of a single table through database/sql.
//
// Queries use PostgreSQL placeholders ($1, $2, ...) and quoted identifiers,
// and work with any database/sql driver that accepts them (pgx's stdlib
// driver, lib/pq).
package sqlsource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/DukeRupert/pagedlist"
)

// ErrInvalidQuery is returned by New for a query without a table or columns.
var ErrInvalidQuery = errors.New("invalid query")

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Scanner is the part of *sql.Rows a ScanFunc needs.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanFunc reads one row, in Query.Columns order.
type ScanFunc[T any] func(Scanner) (T, error)

// Order is one ORDER BY term.
type Order struct {
	Column string
	Desc   bool
}

// Query describes what to page over.
type Query struct {
	// Table may be schema-qualified ("public.items").
	Table   string
	Columns []string
	// Where is an optional SQL condition using $1..$n for Args.
	Where   string
	Args    []any
	OrderBy []Order
}

// Source implements pagedlist.Source over a SQL table.
type Source[T any] struct {
	db    Querier
	query Query
	scan  ScanFunc[T]
}

// New returns a Source running q against db.
func New[T any](db Querier, q Query, scan ScanFunc[T]) (*Source[T], error) {
	if strings.TrimSpace(q.Table) == "" {
		return nil, fmt.Errorf("%w: table is required", ErrInvalidQuery)
	}
	if len(q.Columns) == 0 {
		return nil, fmt.Errorf("%w: at least one column is required", ErrInvalidQuery)
	}
	if scan == nil {
		return nil, fmt.Errorf("%w: scan function is required", ErrInvalidQuery)
	}
	return &Source[T]{db: db, query: q, scan: scan}, nil
}

// Count returns the number of matching rows.
func (s *Source[T]) Count(ctx context.Context) (int, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, s.CountSQL(), s.query.Args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", s.query.Table, err)
	}
	return int(n), nil
}

// Fetch returns up to limit rows after skipping offset.
func (s *Source[T]) Fetch(ctx context.Context, offset, limit int) ([]T, error) {
	args := append(append([]any(nil), s.query.Args...), limit, offset)

	rows, err := s.db.QueryContext(ctx, s.FetchSQL(), args...)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.query.Table, err)
	}
	defer rows.Close()

	out := make([]T, 0, pagedlist.FetchCapacity(limit))
	for rows.Next() {
		item, err := s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.query.Table, err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.query.Table, err)
	}
	return out, nil
}

// CountSQL is the statement Count runs.
func (s *Source[T]) CountSQL() string {
	return "SELECT COUNT(*) FROM " + quoteTable(s.query.Table) + s.where()
}

// FetchSQL is the statement Fetch runs. LIMIT and OFFSET take the two
// placeholders after Args.
func (s *Source[T]) FetchSQL() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	for i, c := range s.query.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(pq.QuoteIdentifier(c))
	}
	b.WriteString(" FROM ")
	b.WriteString(quoteTable(s.query.Table))
	b.WriteString(s.where())

	if len(s.query.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")
		for i, o := range s.query.OrderBy {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(pq.QuoteIdentifier(o.Column))
			if o.Desc {
				b.WriteString(" DESC")
			} else {
				b.WriteString(" ASC")
			}
		}
	}

	n := len(s.query.Args)
	fmt.Fprintf(&b, " LIMIT $%d OFFSET $%d", n+1, n+2)
	return b.String()
}

func (s *Source[T]) where() string {
	if strings.TrimSpace(s.query.Where) == "" {
		return ""
	}
	return " WHERE " + s.query.Where
}

func quoteTable(table string) string {
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}

var _ pagedlist.Source[struct{}] = (*Source[struct{}])(nil)
