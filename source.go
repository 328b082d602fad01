package pagedlist

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const tracerName = "github.com/DukeRupert/pagedlist"

// maxFetchCapacity bounds the capacity FetchCapacity hands out.
const maxFetchCapacity = 1024

// FetchCapacity is the capacity a Source should reserve for a page of limit
// items. Any positive limit is valid input, so larger pages grow by append.
func FetchCapacity(limit int) int {
	return min(max(limit, 0), maxFetchCapacity)
}

// Source is a sequence that lives somewhere else, such as a database table or
// an object store listing. Implementations must return items in a stable
// order so that consecutive pages neither overlap nor skip items.
type Source[T any] interface {
	// Count returns the total number of items in the sequence.
	Count(ctx context.Context) (int, error)

	// Fetch returns at most limit items starting after the first offset items.
	Fetch(ctx context.Context, offset, limit int) ([]T, error)
}

// FromSource counts src and fetches the requested page concurrently. The
// returned metadata is identical to New for a slice with the same contents.
// Any Count or Fetch failure cancels the other call and is returned wrapped
// in *Error; no partial page is ever returned.
func FromSource[T any](ctx context.Context, src Source[T], pageNumber, pageSize int) (*PagedList[T], error) {
	return fromSource(ctx, "pagedlist.FromSource", src, pageNumber, pageSize, -1)
}

// FromSourceWithTotal is FromSource with a total known in advance, so src is
// only asked for the page itself.
func FromSourceWithTotal[T any](ctx context.Context, src Source[T], pageNumber, pageSize, totalItemCount int) (*PagedList[T], error) {
	const op = "pagedlist.FromSourceWithTotal"

	if err := validateTotal(op, totalItemCount); err != nil {
		return nil, err
	}
	return fromSource(ctx, op, src, pageNumber, pageSize, totalItemCount)
}

func fromSource[T any](ctx context.Context, op string, src Source[T], pageNumber, pageSize, knownTotal int) (*PagedList[T], error) {
	if err := validate(op, pageNumber, pageSize); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, op, trace.WithAttributes(
		attribute.Int("page.number", pageNumber),
		attribute.Int("page.size", pageSize),
	))
	defer span.End()

	if src == nil {
		return slicePage[T](nil, pageNumber, pageSize, 0), nil
	}

	off, ok := offset(pageNumber, pageSize)
	fetch := ok && knownTotal != 0
	if knownTotal > 0 {
		fetch = fetch && off < knownTotal
	}

	total := knownTotal
	var items []T

	g, gctx := errgroup.WithContext(ctx)
	if knownTotal < 0 {
		g.Go(func() error {
			n, err := src.Count(gctx)
			if err != nil {
				return fmt.Errorf("count: %w", err)
			}
			total = n
			return nil
		})
	}
	if fetch {
		g.Go(func() error {
			page, err := src.Fetch(gctx, off, pageSize)
			if err != nil {
				return fmt.Errorf("fetch: %w", err)
			}
			items = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, &Error{Op: op, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if total < 0 {
		err := &Error{Op: op, Value: total, Err: ErrInvalidTotalItemCount}
		span.RecordError(err)
		return nil, err
	}

	meta := Metadata{pageNumber: pageNumber, pageSize: pageSize, totalItemCount: total}
	span.SetAttributes(attribute.Int("page.total_items", total))

	if !meta.inRange() {
		items = nil
	}
	if len(items) > pageSize {
		items = items[:pageSize]
	}
	if items == nil {
		items = make([]T, 0)
	}
	return &PagedList[T]{Metadata: meta, items: items}, nil
}

// SliceSource serves an in-memory slice through the Source interface.
type SliceSource[T any] []T

func (s SliceSource[T]) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(s), nil
}

func (s SliceSource[T]) Fetch(ctx context.Context, offset, limit int) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := min(max(offset, 0), len(s))
	end := start + min(max(limit, 0), len(s)-start)
	out := make([]T, end-start)
	copy(out, s[start:end])
	return out, nil
}
