package pagedlist

import (
	"encoding/json"
	"errors"
	"math"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ints(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// =============================================================================
// Metadata
// =============================================================================

func TestMetadata_PageCount(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{5, 2, 3},
		{100, 1, 100},
	}

	for _, tt := range tests {
		m, err := NewMetadata(1, tt.size, tt.total)
		require.NoError(t, err)
		assert.Equal(t, tt.want, m.PageCount(), "total=%d size=%d", tt.total, tt.size)
	}
}

func TestMetadata_Flags(t *testing.T) {
	tests := []struct {
		name                       string
		page, size, total          int
		hasPrev, hasNext           bool
		isFirst, isLast            bool
		firstItem, lastItem        int
	}{
		{"empty", 1, 10, 0, false, false, false, false, 0, 0},
		{"empty beyond", 4, 10, 0, false, false, false, false, 0, 0},
		{"single page", 1, 10, 3, false, false, true, true, 1, 3},
		{"first of three", 1, 2, 5, false, true, true, false, 1, 2},
		{"middle of three", 2, 2, 5, true, true, false, false, 3, 4},
		{"last of three", 3, 2, 5, true, false, false, true, 5, 5},
		{"beyond last", 5, 1, 3, false, false, false, false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMetadata(tt.page, tt.size, tt.total)
			require.NoError(t, err)

			assert.Equal(t, tt.hasPrev, m.HasPreviousPage(), "HasPreviousPage")
			assert.Equal(t, tt.hasNext, m.HasNextPage(), "HasNextPage")
			assert.Equal(t, tt.isFirst, m.IsFirstPage(), "IsFirstPage")
			assert.Equal(t, tt.isLast, m.IsLastPage(), "IsLastPage")
			assert.Equal(t, tt.firstItem, m.FirstItemOnPage(), "FirstItemOnPage")
			assert.Equal(t, tt.lastItem, m.LastItemOnPage(), "LastItemOnPage")
		})
	}
}

func TestMetadata_ExactlyOnePositionInRange(t *testing.T) {
	for total := 0; total <= 25; total++ {
		for size := 1; size <= 6; size++ {
			for page := 1; page <= 8; page++ {
				m, err := NewMetadata(page, size, total)
				require.NoError(t, err)

				count := m.PageCount()
				if page > count {
					assert.False(t, m.IsFirstPage() || m.IsLastPage() || m.HasNextPage() || m.HasPreviousPage(),
						"flags must be false past the end: page=%d size=%d total=%d", page, size, total)
					assert.Zero(t, m.FirstItemOnPage())
					assert.Zero(t, m.LastItemOnPage())
					continue
				}

				interior := m.HasPreviousPage() && m.HasNextPage()
				positions := 0
				if m.IsFirstPage() {
					positions++
				}
				if m.IsLastPage() {
					positions++
				}
				if interior {
					positions++
				}
				// A single page is both first and last.
				if count == 1 {
					assert.Equal(t, 2, positions)
				} else {
					assert.Equal(t, 1, positions, "page=%d size=%d total=%d", page, size, total)
				}
				assert.LessOrEqual(t, m.LastItemOnPage()-m.FirstItemOnPage()+1, size)
			}
		}
	}
}

func TestMetadata_Equality(t *testing.T) {
	a, err := NewMetadata(2, 5, 12)
	require.NoError(t, err)
	list, err := New(ints(12), 2, 5)
	require.NoError(t, err)

	assert.Equal(t, a, list.Metadata)
	assert.True(t, a == MetadataOf(list))
}

func TestMetadataOf_Nil(t *testing.T) {
	m := MetadataOf(nil)
	assert.Equal(t, 1, m.PageNumber())
	assert.Equal(t, DefaultPageSize, m.PageSize())
	assert.Equal(t, 0, m.TotalItemCount())
	assert.Equal(t, 0, m.PageCount())
}

func TestNewMetadata_Validation(t *testing.T) {
	_, err := NewMetadata(0, 10, 5)
	assert.ErrorIs(t, err, ErrInvalidPageNumber)

	_, err = NewMetadata(1, 0, 5)
	assert.ErrorIs(t, err, ErrInvalidPageSize)

	_, err = NewMetadata(1, 10, -1)
	assert.ErrorIs(t, err, ErrInvalidTotalItemCount)
}

func TestMetadata_JSON(t *testing.T) {
	m, err := NewMetadata(2, 2, 5)
	require.NoError(t, err)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"page_number": 2, "page_size": 2, "total_item_count": 5, "page_count": 3,
		"has_previous_page": true, "has_next_page": true,
		"is_first_page": false, "is_last_page": false,
		"first_item_on_page": 3, "last_item_on_page": 4
	}`, string(data))

	var back Metadata
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, m, back)

	err = json.Unmarshal([]byte(`{"page_number":0,"page_size":2,"total_item_count":5}`), &back)
	assert.ErrorIs(t, err, ErrInvalidPageNumber)
}

// =============================================================================
// Construction
// =============================================================================

func TestNew_MiddlePage(t *testing.T) {
	list, err := New([]int{1, 2, 3, 4, 5}, 2, 2)
	require.NoError(t, err)

	if diff := cmp.Diff([]int{3, 4}, list.Items()); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, list.PageCount())
	assert.True(t, list.HasPreviousPage())
	assert.True(t, list.HasNextPage())
	assert.Equal(t, 3, list.FirstItemOnPage())
	assert.Equal(t, 4, list.LastItemOnPage())
}

func TestNew_EmptySource(t *testing.T) {
	for _, source := range [][]int{nil, {}} {
		list, err := New(source, 1, 10)
		require.NoError(t, err)

		assert.Empty(t, list.Items())
		assert.NotNil(t, list.Items())
		assert.Equal(t, 0, list.PageCount())
		assert.False(t, list.HasPreviousPage())
		assert.False(t, list.HasNextPage())
		assert.False(t, list.IsFirstPage())
		assert.False(t, list.IsLastPage())
		assert.Equal(t, 0, list.FirstItemOnPage())
		assert.Equal(t, 0, list.LastItemOnPage())
	}
}

func TestNew_PageBeyondRange(t *testing.T) {
	list, err := New([]int{1, 2, 3}, 5, 1)
	require.NoError(t, err)

	assert.Empty(t, list.Items())
	assert.Equal(t, 3, list.PageCount())
	assert.False(t, list.IsLastPage())
	assert.False(t, list.HasNextPage())
	assert.False(t, list.HasPreviousPage())
}

func TestNew_HugeInputs(t *testing.T) {
	source := []int{1, 2, 3}

	tests := []struct {
		name  string
		build func() (*PagedList[int], error)
		items []int
		count int
	}{
		{"page number overflows offset", func() (*PagedList[int], error) { return New(source, (1<<61)+1, 4) }, nil, 1},
		{"max page number", func() (*PagedList[int], error) { return New(source, math.MaxInt, 2) }, nil, 2},
		{"max page size", func() (*PagedList[int], error) { return New(source, 1, math.MaxInt) }, []int{1, 2, 3}, 1},
		{"with total", func() (*PagedList[int], error) { return NewWithTotal(source, (1<<61)+1, 4, 10) }, nil, 3},
		{"ordered", func() (*PagedList[int], error) {
			return NewOrdered(source, func(i int) int { return -i }, math.MaxInt, math.MaxInt)
		}, nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := tt.build()
			require.NoError(t, err)

			if tt.items == nil {
				assert.Empty(t, list.Items())
			} else {
				assert.Equal(t, tt.items, list.Items())
			}
			assert.Equal(t, tt.count, list.PageCount())
		})
	}

	m, err := NewMetadata(2, math.MaxInt/2+1, math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt/2+2, m.FirstItemOnPage())
	assert.Equal(t, math.MaxInt, m.LastItemOnPage())
	assert.True(t, m.IsLastPage())
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		size     int
		sentinel error
		code     string
	}{
		{"zero page", 0, 10, ErrInvalidPageNumber, CodePageNumberTooSmall},
		{"negative page", -3, 10, ErrInvalidPageNumber, CodePageNumberTooSmall},
		{"zero size", 1, 0, ErrInvalidPageSize, CodePageSizeTooSmall},
		{"negative size", 2, -1, ErrInvalidPageSize, CodePageSizeTooSmall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := New(ints(10), tt.page, tt.size)
			assert.Nil(t, list)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.code, ErrorCode(err))
			assert.True(t, IsValidation(err))

			var e *Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, "pagedlist.New", e.Op)
		})
	}
}

func TestNew_Idempotent(t *testing.T) {
	source := ints(23)
	a, err := New(source, 3, 7)
	require.NoError(t, err)
	b, err := New(source, 3, 7)
	require.NoError(t, err)

	assert.Equal(t, a.Metadata, b.Metadata)
	assert.Equal(t, a.Items(), b.Items())
}

func TestNew_ItemsAreCopies(t *testing.T) {
	source := []int{1, 2, 3}
	list, err := New(source, 1, 3)
	require.NoError(t, err)

	source[0] = 99
	items := list.Items()
	items[1] = 42

	assert.Equal(t, []int{1, 2, 3}, list.Items())
}

func TestNewWithTotal(t *testing.T) {
	list, err := NewWithTotal(ints(10), 2, 3, 100)
	require.NoError(t, err)

	assert.Equal(t, []int{4, 5, 6}, list.Items())
	assert.Equal(t, 100, list.TotalItemCount())
	assert.Equal(t, 34, list.PageCount())

	_, err = NewWithTotal(ints(10), 1, 3, -1)
	assert.ErrorIs(t, err, ErrInvalidTotalItemCount)
	assert.Equal(t, CodeTotalCountNegative, ErrorCode(err))
}

func TestNewStatic(t *testing.T) {
	list, err := NewStatic([]string{"k", "l"}, 6, 2, 12)
	require.NoError(t, err)

	assert.Equal(t, []string{"k", "l"}, list.Items())
	assert.Equal(t, 6, list.PageCount())
	assert.True(t, list.IsLastPage())
	assert.Equal(t, 11, list.FirstItemOnPage())
	assert.Equal(t, 12, list.LastItemOnPage())

	_, err = NewStatic([]string{"a", "b", "c"}, 1, 2, 12)
	assert.ErrorIs(t, err, ErrSubsetTooLarge)

	_, err = NewStatic([]string{"a"}, 0, 2, 12)
	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "pagedlist.NewStatic", e.Op)
	assert.ErrorIs(t, err, ErrInvalidPageNumber)
}

func TestNewOrdered(t *testing.T) {
	type person struct {
		name string
		age  int
	}
	people := []person{
		{"dora", 40}, {"al", 31}, {"cy", 31}, {"bo", 25}, {"ed", 52},
	}

	list, err := NewOrdered(people, func(p person) int { return p.age }, 1, 3)
	require.NoError(t, err)

	want := []person{{"bo", 25}, {"al", 31}, {"cy", 31}}
	if diff := cmp.Diff(want, list.Items(), cmp.AllowUnexported(person{})); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	// Source order is untouched.
	assert.Equal(t, "dora", people[0].name)

	_, err = NewOrdered(people, func(p person) string { return p.name }, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidPageSize)
}

func TestRecast(t *testing.T) {
	list, err := New(ints(9), 2, 4)
	require.NoError(t, err)

	names, err := Recast(list, []string{"five", "six", "seven", "eight"})
	require.NoError(t, err)
	assert.Equal(t, list.Metadata, names.Metadata)
	assert.Equal(t, 4, names.Len())

	_, err = Recast(list, []string{"a", "b", "c", "d", "e"})
	assert.ErrorIs(t, err, ErrSubsetTooLarge)
	assert.Equal(t, CodeSubsetTooLarge, ErrorCode(err))
}

func TestMap(t *testing.T) {
	list, err := New(ints(5), 1, 3)
	require.NoError(t, err)

	doubled := Map(list, func(n int) int { return n * 2 })
	assert.Equal(t, []int{2, 4, 6}, doubled.Items())
	assert.Equal(t, list.Metadata, doubled.Metadata)
}

func TestPagedList_Access(t *testing.T) {
	list, err := New([]string{"a", "b", "c", "d"}, 2, 3)
	require.NoError(t, err)

	assert.Equal(t, 1, list.Len())
	assert.Equal(t, "d", list.At(0))

	var seen []string
	for i, s := range list.All() {
		assert.Equal(t, 0, i)
		seen = append(seen, s)
	}
	assert.Equal(t, []string{"d"}, seen)
}

func TestPagedList_JSON(t *testing.T) {
	list, err := New([]string{"a", "b", "c"}, 1, 2)
	require.NoError(t, err)

	data, err := json.Marshal(list)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.JSONEq(t, `["a","b"]`, string(decoded["items"]))
	assert.Contains(t, string(decoded["metadata"]), `"page_count":2`)

	var back PagedList[string]
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, list.Metadata, back.Metadata)
	assert.Equal(t, list.Items(), back.Items())

	empty, err := New[string](nil, 1, 2)
	require.NoError(t, err)
	data, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"items":[]`)
}

func TestPagedList_UnmarshalJSON_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		sentinel error
	}{
		{"no metadata", `{"items":[]}`, ErrMissingMetadata},
		{"null metadata", `{"items":["a"],"metadata":null}`, ErrMissingMetadata},
		{"zero metadata", `{"items":[],"metadata":{}}`, ErrInvalidPageNumber},
		{"zero page size", `{"items":[],"metadata":{"page_number":1,"page_size":0}}`, ErrInvalidPageSize},
		{"too many items", `{"items":["a","b","c"],"metadata":{"page_number":1,"page_size":2,"total_item_count":3}}`, ErrSubsetTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l PagedList[string]
			err := json.Unmarshal([]byte(tt.input), &l)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Zero(t, l.PageNumber())
		})
	}

	assert.Equal(t, CodeMissingMetadata, ErrorCode(&Error{Op: "pagedlist.UnmarshalJSON", Err: ErrMissingMetadata}))
}

// =============================================================================
// Params
// =============================================================================

func TestParseParams(t *testing.T) {
	cfg := ParamsConfig{DefaultPageSize: 20, MaxPageSize: 50}

	tests := []struct {
		query    string
		wantPage int
		wantSize int
	}{
		{"", 1, 20},
		{"page=3", 3, 20},
		{"page=abc&size=xyz", 1, 20},
		{"page=2&size=5", 2, 5},
		{"size=500", 1, 50},
		{"page=0", 0, 20},
		{"page=-2&size=0", -2, 0},
		{"page=%204%20", 4, 20},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			p := ParseParams(q, cfg)
			assert.Equal(t, tt.wantPage, p.PageNumber)
			assert.Equal(t, tt.wantSize, p.PageSize)
		})
	}
}

func TestParseParams_CustomNames(t *testing.T) {
	q := url.Values{"p": {"7"}, "per_page": {"15"}}
	p := ParseParams(q, ParamsConfig{PageParam: "p", SizeParam: "per_page"})
	assert.Equal(t, Params{PageNumber: 7, PageSize: 15}, p)

	p = ParseParams(url.Values{}, ParamsConfig{})
	assert.Equal(t, Params{PageNumber: 1, PageSize: DefaultPageSize}, p)
}
