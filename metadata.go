package pagedlist

import (
	"encoding/json"
	"math"
)

// DefaultPageSize is the page size used when a caller does not supply one.
const DefaultPageSize = 10

// Paged is the read-only surface shared by Metadata and PagedList. Renderers
// only need this, never the items themselves.
type Paged interface {
	PageNumber() int
	PageSize() int
	TotalItemCount() int
	PageCount() int
	HasPreviousPage() bool
	HasNextPage() bool
	IsFirstPage() bool
	IsLastPage() bool
	FirstItemOnPage() int
	LastItemOnPage() int
}

// Metadata describes one page of a larger sequence. It is fully determined by
// the page number, page size and total item count; every other value is
// derived on demand.
type Metadata struct {
	pageNumber     int
	pageSize       int
	totalItemCount int
}

// NewMetadata validates and returns the metadata for the given triple.
func NewMetadata(pageNumber, pageSize, totalItemCount int) (Metadata, error) {
	const op = "pagedlist.NewMetadata"

	if err := validate(op, pageNumber, pageSize); err != nil {
		return Metadata{}, err
	}
	if err := validateTotal(op, totalItemCount); err != nil {
		return Metadata{}, err
	}
	return Metadata{pageNumber: pageNumber, pageSize: pageSize, totalItemCount: totalItemCount}, nil
}

// MetadataOf projects any Paged implementation onto a Metadata value. A nil
// argument yields the empty first page at DefaultPageSize.
func MetadataOf(p Paged) Metadata {
	if p == nil {
		return Metadata{pageNumber: 1, pageSize: DefaultPageSize}
	}
	if m, ok := p.(Metadata); ok {
		return m
	}
	return Metadata{pageNumber: p.PageNumber(), pageSize: p.PageSize(), totalItemCount: p.TotalItemCount()}
}

func (m Metadata) PageNumber() int     { return m.pageNumber }
func (m Metadata) PageSize() int       { return m.pageSize }
func (m Metadata) TotalItemCount() int { return m.totalItemCount }

// PageCount is the number of pages needed to hold every item, or 0 when there
// are no items.
func (m Metadata) PageCount() int {
	if m.totalItemCount <= 0 || m.pageSize <= 0 {
		return 0
	}
	return (m.totalItemCount-1)/m.pageSize + 1
}

// inRange guards every flag: a page past the end, or an empty sequence, has
// no neighbours and no items.
func (m Metadata) inRange() bool {
	count := m.PageCount()
	return count > 0 && m.pageNumber <= count
}

func (m Metadata) HasPreviousPage() bool {
	return m.inRange() && m.pageNumber > 1
}

func (m Metadata) HasNextPage() bool {
	return m.inRange() && m.pageNumber < m.PageCount()
}

func (m Metadata) IsFirstPage() bool {
	return m.inRange() && m.pageNumber == 1
}

func (m Metadata) IsLastPage() bool {
	return m.inRange() && m.pageNumber == m.PageCount()
}

// FirstItemOnPage is the one-based position of the first item on this page,
// or 0 when the page holds nothing.
func (m Metadata) FirstItemOnPage() int {
	if !m.inRange() {
		return 0
	}
	return m.Offset() + 1
}

// LastItemOnPage is the one-based position of the last item on this page,
// or 0 when the page holds nothing.
func (m Metadata) LastItemOnPage() int {
	if !m.inRange() {
		return 0
	}
	off := m.Offset()
	return off + min(m.pageSize, m.totalItemCount-off)
}

// Offset is the number of source items that precede this page. It is only
// meaningful for a page that fits in an int; see offset.
func (m Metadata) Offset() int {
	off, _ := offset(m.pageNumber, m.pageSize)
	return off
}

// offset returns (pageNumber-1)*pageSize, or false when the product does not
// fit in an int. Such a page lies past the end of any sequence.
func offset(pageNumber, pageSize int) (int, bool) {
	if pageNumber < 1 || pageSize < 1 {
		return 0, true
	}
	if pageNumber-1 > math.MaxInt/pageSize {
		return math.MaxInt, false
	}
	return (pageNumber - 1) * pageSize, true
}

type metadataJSON struct {
	PageNumber      int  `json:"page_number"`
	PageSize        int  `json:"page_size"`
	TotalItemCount  int  `json:"total_item_count"`
	PageCount       int  `json:"page_count"`
	HasPreviousPage bool `json:"has_previous_page"`
	HasNextPage     bool `json:"has_next_page"`
	IsFirstPage     bool `json:"is_first_page"`
	IsLastPage      bool `json:"is_last_page"`
	FirstItemOnPage int  `json:"first_item_on_page"`
	LastItemOnPage  int  `json:"last_item_on_page"`
}

// MarshalJSON includes every derived value so API clients need no arithmetic.
func (m Metadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(metadataJSON{
		PageNumber:      m.pageNumber,
		PageSize:        m.pageSize,
		TotalItemCount:  m.totalItemCount,
		PageCount:       m.PageCount(),
		HasPreviousPage: m.HasPreviousPage(),
		HasNextPage:     m.HasNextPage(),
		IsFirstPage:     m.IsFirstPage(),
		IsLastPage:      m.IsLastPage(),
		FirstItemOnPage: m.FirstItemOnPage(),
		LastItemOnPage:  m.LastItemOnPage(),
	})
}

// UnmarshalJSON restores the triple and re-validates it; derived fields in the
// input are ignored.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var raw metadataJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewMetadata(raw.PageNumber, raw.PageSize, raw.TotalItemCount)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
