// Package pagedlist splits a sequence into one-based pages and describes the
// page that was taken: how many pages exist, which items it spans, and
// whether neighbouring pages exist.
//
// A page can be computed from a full in-memory slice (New, NewOrdered), from a
// context-aware Source such as a database table (FromSource), or wrapped
// around items that were already fetched elsewhere (NewStatic).
//
//	list, err := pagedlist.New(products, 2, 20)
//	if err != nil {
//	    return err
//	}
//	for _, p := range list.All() {
//	    ...
//	}
//
// Invalid page numbers and sizes are rejected with errors that match
// ErrInvalidPageNumber and ErrInvalidPageSize. A page past the end of the data
// is not an error: it yields no items and every flag is false.
package pagedlist

import (
	"cmp"
	"encoding/json"
	"iter"
	"slices"
)

// PagedList is one page of items plus the Metadata describing it. It is not
// modified after construction.
type PagedList[T any] struct {
	Metadata
	items []T
}

// New takes page pageNumber of pageSize items from source. A nil source is an
// empty sequence.
func New[T any](source []T, pageNumber, pageSize int) (*PagedList[T], error) {
	const op = "pagedlist.New"

	if err := validate(op, pageNumber, pageSize); err != nil {
		return nil, err
	}
	return slicePage(source, pageNumber, pageSize, len(source)), nil
}

// NewWithTotal is New with an externally known total, used verbatim instead
// of len(source). The page is still taken from source, which must therefore
// be the whole sequence. For items that were already limited to one page use
// NewStatic.
func NewWithTotal[T any](source []T, pageNumber, pageSize, totalItemCount int) (*PagedList[T], error) {
	const op = "pagedlist.NewWithTotal"

	if err := validate(op, pageNumber, pageSize); err != nil {
		return nil, err
	}
	if err := validateTotal(op, totalItemCount); err != nil {
		return nil, err
	}
	return slicePage(source, pageNumber, pageSize, totalItemCount), nil
}

// NewStatic wraps a subset that was materialized elsewhere, typically by a
// LIMIT/OFFSET query, with metadata for the given page.
func NewStatic[T any](subset []T, pageNumber, pageSize, totalItemCount int) (*PagedList[T], error) {
	const op = "pagedlist.NewStatic"

	meta, err := NewMetadata(pageNumber, pageSize, totalItemCount)
	if err != nil {
		return nil, relabel(err, op)
	}
	if len(subset) > pageSize {
		return nil, &Error{Op: op, Value: len(subset), Err: ErrSubsetTooLarge}
	}
	return &PagedList[T]{Metadata: meta, items: slices.Clone(subset)}, nil
}

// NewOrdered sorts a copy of source by key, ascending and stable, then takes
// the requested page.
func NewOrdered[T any, K cmp.Ordered](source []T, key func(T) K, pageNumber, pageSize int) (*PagedList[T], error) {
	const op = "pagedlist.NewOrdered"

	if err := validate(op, pageNumber, pageSize); err != nil {
		return nil, err
	}
	sorted := slices.Clone(source)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return cmp.Compare(key(a), key(b))
	})
	return slicePage(sorted, pageNumber, pageSize, len(sorted)), nil
}

// Recast pairs the metadata of an existing page with a different item
// sequence, usually the result of mapping the original items to another type.
func Recast[U any](meta Paged, items []U) (*PagedList[U], error) {
	const op = "pagedlist.Recast"

	m := MetadataOf(meta)
	if len(items) > m.pageSize {
		return nil, &Error{Op: op, Value: len(items), Err: ErrSubsetTooLarge}
	}
	return &PagedList[U]{Metadata: m, items: slices.Clone(items)}, nil
}

// Map applies fn to every item on the page and keeps the metadata.
func Map[T, U any](list *PagedList[T], fn func(T) U) *PagedList[U] {
	out := make([]U, len(list.items))
	for i, item := range list.items {
		out[i] = fn(item)
	}
	return &PagedList[U]{Metadata: list.Metadata, items: out}
}

func slicePage[T any](source []T, pageNumber, pageSize, total int) *PagedList[T] {
	meta := Metadata{pageNumber: pageNumber, pageSize: pageSize, totalItemCount: total}

	var items []T
	if meta.inRange() {
		start := min(meta.Offset(), len(source))
		end := start + min(pageSize, len(source)-start)
		items = slices.Clone(source[start:end])
	}
	if items == nil {
		items = make([]T, 0)
	}
	return &PagedList[T]{Metadata: meta, items: items}
}

func relabel(err error, op string) error {
	if e, ok := err.(*Error); ok {
		return &Error{Op: op, Value: e.Value, Err: e.Err}
	}
	return err
}

// =============================================================================
// Item Access
// =============================================================================

// Items returns a copy of the items on this page.
func (l *PagedList[T]) Items() []T {
	return slices.Clone(l.items)
}

// Len is the number of items on this page.
func (l *PagedList[T]) Len() int {
	return len(l.items)
}

// At returns the i-th item on this page. It panics if i is out of range.
func (l *PagedList[T]) At(i int) T {
	return l.items[i]
}

// All iterates the page's items with their zero-based index on the page.
func (l *PagedList[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, item := range l.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

type pagedListJSON[T any] struct {
	Items    []T      `json:"items"`
	Metadata Metadata `json:"metadata"`
}

func (l *PagedList[T]) MarshalJSON() ([]byte, error) {
	items := l.items
	if items == nil {
		items = make([]T, 0)
	}
	return json.Marshal(pagedListJSON[T]{Items: items, Metadata: l.Metadata})
}

// UnmarshalJSON requires a metadata object; Metadata.UnmarshalJSON validates it.
func (l *PagedList[T]) UnmarshalJSON(data []byte) error {
	const op = "pagedlist.UnmarshalJSON"

	var raw struct {
		Items    []T       `json:"items"`
		Metadata *Metadata `json:"metadata"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Metadata == nil {
		return &Error{Op: op, Err: ErrMissingMetadata}
	}
	if len(raw.Items) > raw.Metadata.pageSize {
		return &Error{Op: op, Value: len(raw.Items), Err: ErrSubsetTooLarge}
	}
	if raw.Items == nil {
		raw.Items = make([]T, 0)
	}
	l.Metadata = *raw.Metadata
	l.items = raw.Items
	return nil
}
