package metrics

import (
	"context"
	"time"

	"github.com/DukeRupert/pagedlist"
)

// PageServed records one list page response.
func PageServed(source, outcome string) {
	PagesServedTotal.WithLabelValues(source, outcome).Inc()
}

// PagerRendered records whether a pager produced markup.
func PagerRendered(suppressed bool) {
	result := "rendered"
	if suppressed {
		result = "suppressed"
	}
	PagerRendersTotal.WithLabelValues(result).Inc()
}

// Outcome classifies a served page for PageServed.
func Outcome(list pagedlist.Paged, err error) string {
	switch {
	case err != nil && pagedlist.IsValidation(err):
		return "invalid"
	case err != nil:
		return "error"
	case list.TotalItemCount() == 0:
		return "empty"
	case list.PageNumber() > list.PageCount():
		return "out_of_range"
	default:
		return "ok"
	}
}

// instrumented times every call to the wrapped source.
type instrumented[T any] struct {
	name string
	src  pagedlist.Source[T]
}

// Instrument wraps src so its calls are recorded under the given source name.
func Instrument[T any](name string, src pagedlist.Source[T]) pagedlist.Source[T] {
	return &instrumented[T]{name: name, src: src}
}

func (s *instrumented[T]) Count(ctx context.Context) (int, error) {
	start := time.Now()
	n, err := s.src.Count(ctx)
	s.observe("count", start, err)
	return n, err
}

func (s *instrumented[T]) Fetch(ctx context.Context, offset, limit int) ([]T, error) {
	start := time.Now()
	items, err := s.src.Fetch(ctx, offset, limit)
	s.observe("fetch", start, err)
	return items, err
}

func (s *instrumented[T]) observe(op string, start time.Time, err error) {
	SourceCallDuration.WithLabelValues(s.name, op).Observe(time.Since(start).Seconds())
	if err != nil {
		SourceErrorsTotal.WithLabelValues(s.name, op).Inc()
	}
}
