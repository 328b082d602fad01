package pager

import (
	"strings"

	"golang.org/x/text/message"

	"github.com/DukeRupert/pagedlist"
)

// builder creates the individual list items for one pager.
type builder struct {
	meta    pagedlist.Metadata
	pageURL func(int) string
	opts    Options
}

func (b *builder) link(markup string) *Element {
	a := NewElement("a").AppendHTML(markup)
	a.AddClass(b.opts.PageClasses...)
	return a
}

func (b *builder) first() *Element {
	a := b.link(b.opts.LinkToFirstPageFormat)
	if b.meta.IsFirstPage() {
		return b.wrap(a, b.opts.FirstElementClass, b.opts.DisabledLiElementClass)
	}
	a.SetAttr("href", b.pageURL(1))
	return b.wrap(a, b.opts.FirstElementClass)
}

func (b *builder) previous() *Element {
	a := b.link(b.opts.LinkToPreviousPageFormat)
	a.SetAttr("rel", "prev")
	if !b.meta.HasPreviousPage() {
		return b.wrap(a, b.opts.PreviousElementClass, b.opts.DisabledLiElementClass)
	}
	a.SetAttr("href", b.pageURL(b.meta.PageNumber()-1))
	return b.wrap(a, b.opts.PreviousElementClass)
}

func (b *builder) next() *Element {
	a := b.link(b.opts.LinkToNextPageFormat)
	a.SetAttr("rel", "next")
	if !b.meta.HasNextPage() {
		return b.wrap(a, b.opts.NextElementClass, b.opts.DisabledLiElementClass)
	}
	a.SetAttr("href", b.pageURL(b.meta.PageNumber()+1))
	return b.wrap(a, b.opts.NextElementClass)
}

func (b *builder) last() *Element {
	a := b.link(b.opts.LinkToLastPageFormat)
	if b.meta.IsLastPage() {
		return b.wrap(a, b.opts.LastElementClass, b.opts.DisabledLiElementClass)
	}
	a.SetAttr("href", b.pageURL(b.meta.PageCount()))
	return b.wrap(a, b.opts.LastElementClass)
}

// page renders one page number. The current page is a span, not a link.
func (b *builder) page(i int) *Element {
	text := b.opts.LinkToIndividualPageFormat
	if strings.Contains(text, "%") {
		text = b.printer().Sprintf(text, i)
	}
	if b.opts.DisplayPageNumber != nil {
		text = b.opts.DisplayPageNumber(i)
	}

	if i == b.meta.PageNumber() {
		span := NewElement("span").AppendHTML(text)
		span.AddClass(b.opts.PageClasses...)
		span.SetAttr("aria-current", "page")
		return b.wrap(span, b.opts.ActiveLiElementClass)
	}

	a := b.link(text)
	a.SetAttr("href", b.pageURL(i))
	return b.wrap(a)
}

// ellipsis marks page numbers hidden on one side of the window. As a link it
// jumps to target, the first hidden page next to the window.
func (b *builder) ellipsis(target int, enabled bool, rel, class string) *Element {
	a := b.link(b.opts.EllipsesFormat)
	a.SetAttr("rel", rel)
	a.AddClass(class)
	if !b.opts.EllipsesAsLinks || !enabled {
		return b.wrap(a, b.opts.EllipsesElementClass, b.opts.DisabledLiElementClass)
	}
	a.SetAttr("href", b.pageURL(target))
	return b.wrap(a, b.opts.EllipsesElementClass)
}

func (b *builder) delimiter() *Element {
	return NewElement("li").AppendHTML(b.opts.DelimiterBetweenPageNumbers)
}

func (b *builder) pageCountAndLocation() *Element {
	text := b.printer().Sprintf(b.opts.PageCountAndCurrentLocationFormat,
		b.meta.PageNumber(), b.meta.PageCount())
	a := NewElement("a").AppendText(text)
	return b.wrap(a, b.opts.SummaryElementClass, b.opts.DisabledLiElementClass)
}

func (b *builder) itemSliceAndTotal() *Element {
	text := b.printer().Sprintf(b.opts.ItemSliceAndTotalFormat,
		b.meta.FirstItemOnPage(), b.meta.LastItemOnPage(), b.meta.TotalItemCount())
	a := NewElement("a").AppendText(text)
	return b.wrap(a, b.opts.SummaryElementClass, b.opts.DisabledLiElementClass)
}

func (b *builder) printer() *message.Printer {
	return message.NewPrinter(b.opts.Language)
}

// wrap places inner in a list item. When a transform is configured it decides
// the final list item, except for disabled and current-page items.
func (b *builder) wrap(inner *Element, classes ...string) *Element {
	li := NewElement("li").AddClass(classes...)

	if b.opts.TransformLink != nil &&
		!hasClasses(li, b.opts.DisabledLiElementClass) &&
		!hasClasses(li, b.opts.ActiveLiElementClass) {
		if out := b.opts.TransformLink(li, inner); out != nil {
			return out
		}
	}
	return li.AppendChild(inner)
}

// hasClasses reports whether el carries every class in list. An empty list
// never matches.
func hasClasses(el *Element, list string) bool {
	fields := strings.Fields(list)
	if len(fields) == 0 {
		return false
	}
	for _, c := range fields {
		if !el.HasClass(c) {
			return false
		}
	}
	return true
}
