// Package pager renders page navigation for a pagedlist.Paged value.
//
// The pager is a list of link items wrapped in a container:
//
//	<div class="pagination-container">
//	  <ul class="pagination">
//	    <li class="PagedList-skipToPrevious"><a href="?page=1" rel="prev">&lt;</a></li>
//	    <li><a href="?page=1">1</a></li>
//	    <li class="active"><span>2</span></li>
//	    ...
//	  </ul>
//	</div>
//
// Which items appear is controlled by Options. Output is produced as an
// Element tree, which is also a templ.Component, so it can be embedded in templ
// pages or rendered to a string.
package pager

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/DukeRupert/pagedlist"
)

// Window returns the first and last page numbers shown as individual links.
// With maxPages <= 0, or when every page fits, it is [1, pageCount]. Otherwise
// the window holds maxPages pages, centred on pageNumber and shifted to stay inside
// [1, pageCount].
func Window(pageNumber, pageCount, maxPages int) (first, last int) {
	if maxPages <= 0 || pageCount <= maxPages {
		return 1, pageCount
	}

	first = pageNumber - maxPages/2
	if first < 1 {
		first = 1
	}
	last = first + maxPages - 1
	if last > pageCount {
		first = pageCount - maxPages + 1
		if first < 1 {
			first = 1
		}
		last = pageCount
	}
	return first, last
}

// Suppressed reports whether the pager renders nothing for list.
func Suppressed(list pagedlist.Paged, opts Options) bool {
	m := pagedlist.MetadataOf(list)
	return !opts.Display.show(m.PageCount() > 1)
}

// Items builds the pager's list items in display order. It returns nil when
// the pager is suppressed.
//
// A nil list is treated as an empty first page. A nil pageURL produces
// "?page=N" links.
func Items(list pagedlist.Paged, pageURL func(int) string, opts Options) []*Element {
	m := pagedlist.MetadataOf(list)
	if Suppressed(m, opts) {
		return nil
	}
	if pageURL == nil {
		pageURL = defaultPageURL
	}

	b := &builder{meta: m, pageURL: pageURL, opts: opts}
	first, last := Window(m.PageNumber(), m.PageCount(), opts.MaximumPageNumbersToDisplay)

	var items []*Element

	if opts.DisplayLinkToFirstPage.show(first > 1) {
		items = append(items, b.first())
	}
	if opts.DisplayLinkToPreviousPage.show(!m.IsFirstPage()) {
		items = append(items, b.previous())
	}
	if opts.DisplayPageCountAndCurrentLocation {
		items = append(items, b.pageCountAndLocation())
	}
	if opts.DisplayItemSliceAndTotal && opts.ItemSliceAndTotalPosition == Start {
		items = append(items, b.itemSliceAndTotal())
	}

	if opts.DisplayLinkToIndividualPages {
		showEllipses := opts.DisplayEllipsesWhenNotShowingAllPageNumbers
		if showEllipses && first > 1 {
			items = append(items, b.ellipsis(first-1, m.HasPreviousPage(), "prev", opts.PreviousElementClass))
		}
		for i := first; i <= last; i++ {
			if i > first && opts.DelimiterBetweenPageNumbers != "" {
				items = append(items, b.delimiter())
			}
			items = append(items, b.page(i))
		}
		if showEllipses && last < m.PageCount() {
			items = append(items, b.ellipsis(last+1, m.HasNextPage(), "next", opts.NextElementClass))
		}
	}

	if opts.DisplayItemSliceAndTotal && opts.ItemSliceAndTotalPosition == End {
		items = append(items, b.itemSliceAndTotal())
	}
	if opts.DisplayLinkToNextPage.show(!m.IsLastPage()) {
		items = append(items, b.next())
	}
	if opts.DisplayLinkToLastPage.show(last < m.PageCount()) {
		items = append(items, b.last())
	}

	if len(items) > 0 {
		if opts.ClassToApplyToFirstListItemInPager != "" {
			items[0].AddClass(opts.ClassToApplyToFirstListItemInPager)
		}
		if opts.ClassToApplyToLastListItemInPager != "" {
			items[len(items)-1].AddClass(opts.ClassToApplyToLastListItemInPager)
		}
		for _, li := range items {
			li.AddClass(opts.LiElementClasses...)
		}
	}
	return items
}

// New builds the complete pager, or returns nil when it is suppressed.
func New(list pagedlist.Paged, pageURL func(int) string, opts Options) *Element {
	items := Items(list, pageURL, opts)
	if items == nil {
		return nil
	}

	ul := NewElement("ul").AddClass(opts.UlElementClasses...)
	ul.AppendChild(items...)

	div := NewElement("div").AddClass(opts.ContainerDivClasses...)
	div.AppendChild(ul)
	return div
}

// Component returns the pager as a templ component that renders nothing when
// the pager is suppressed.
func Component(list pagedlist.Paged, pageURL func(int) string, opts Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return Render(ctx, w, list, pageURL, opts)
	})
}

// Render writes the pager to w. Nothing is written when it is suppressed.
func Render(ctx context.Context, w io.Writer, list pagedlist.Paged, pageURL func(int) string, opts Options) error {
	el := New(list, pageURL, opts)
	if el == nil {
		return nil
	}
	return el.Render(ctx, w)
}

// String renders the pager to a string, empty when suppressed.
func String(list pagedlist.Paged, pageURL func(int) string, opts Options) string {
	var buf bytes.Buffer
	_ = Render(context.Background(), &buf, list, pageURL, opts)
	return buf.String()
}

func defaultPageURL(page int) string {
	return fmt.Sprintf("?page=%d", page)
}
