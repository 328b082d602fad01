package handler

import (
	"context"
	"io"
	"maps"
	"net/http"
	"slices"

	"github.com/a-h/templ"
	"golang.org/x/text/message"

	"github.com/DukeRupert/pagedlist"
	"github.com/DukeRupert/pagedlist/pager"
)

const stylesheet = `body{font-family:system-ui,sans-serif;margin:2rem auto;max-width:56rem;color:#1f2937}
table{border-collapse:collapse;width:100%;margin:1rem 0}
th,td{border-bottom:1px solid #e5e7eb;padding:.4rem .6rem;text-align:left}
td.num{text-align:right;font-variant-numeric:tabular-nums}
.summary{color:#6b7280}
.pagination,.inline-flex{display:flex;gap:.25rem;list-style:none;padding:0}
.pagination li{padding:.25rem .5rem;border:1px solid #d1d5db}
.pagination li.active{font-weight:600;background:#eff6ff}
.pagination li.disabled{opacity:.5}
.PagedList-goToPage fieldset{border:0;padding:0}`

// page renders the full HTML document for one page of the list.
func (h *ListHandler[T]) page(r *http.Request, list *pagedlist.PagedList[T]) templ.Component {
	pageURL := pager.QueryPageURL(r.URL, h.cfg.Params.PageParam)

	content := pager.NewElement("main")
	content.AppendChild(pager.NewElement("h1").AppendText(h.cfg.Title))
	content.AppendChild(pager.NewElement("p").AddClass("summary").AppendText(h.summary(list)))
	if list.Len() > 0 {
		content.AppendChild(h.table(list))
	}
	if nav := pager.New(list, pageURL, h.cfg.Pager); nav != nil {
		content.AppendChild(nav)
	}
	if list.PageCount() > 1 {
		content.AppendChild(h.goToForm(r, list))
	}

	head := pager.NewElement("head").AppendChild(
		pager.NewElement("meta").SetAttr("charset", "utf-8"),
		pager.NewElement("meta").SetAttr("name", "viewport").SetAttr("content", "width=device-width, initial-scale=1"),
		pager.NewElement("title").AppendText(h.cfg.Title),
		pager.NewElement("style").AppendHTML(stylesheet),
	)
	doc := pager.NewElement("html").SetAttr("lang", "en").AppendChild(
		head,
		pager.NewElement("body").AppendChild(content),
	)

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<!DOCTYPE html>"); err != nil {
			return err
		}
		return doc.Render(ctx, w)
	})
}

func (h *ListHandler[T]) summary(list *pagedlist.PagedList[T]) string {
	if list.TotalItemCount() == 0 {
		return "No items."
	}
	p := message.NewPrinter(h.cfg.Pager.Language)
	return p.Sprintf("Showing items %d through %d of %d.",
		list.FirstItemOnPage(), list.LastItemOnPage(), list.TotalItemCount())
}

func (h *ListHandler[T]) table(list *pagedlist.PagedList[T]) *pager.Element {
	headRow := pager.NewElement("tr")
	for _, col := range h.cfg.Columns {
		headRow.AppendChild(pager.NewElement("th").AddClass(col.Class).AppendText(col.Header))
	}

	body := pager.NewElement("tbody")
	for _, item := range list.All() {
		row := pager.NewElement("tr")
		for _, col := range h.cfg.Columns {
			row.AppendChild(pager.NewElement("td").AddClass(col.Class).AppendText(col.Value(item)))
		}
		body.AppendChild(row)
	}

	return pager.NewElement("table").AppendChild(
		pager.NewElement("thead").AppendChild(headRow),
		body,
	)
}

// goToForm submits back to the current path. Query values other than the
// page number ride along as hidden inputs so the page size is kept.
func (h *ListHandler[T]) goToForm(r *http.Request, list pagedlist.Paged) *pager.Element {
	form := pager.GoToPageForm(list, r.URL.Path, h.cfg.GoTo)

	query := r.URL.Query()
	for _, key := range slices.Sorted(maps.Keys(query)) {
		if key == h.cfg.GoTo.InputFieldName {
			continue
		}
		for _, v := range query[key] {
			form.AppendChild(pager.NewElement("input").
				SetAttr("type", "hidden").
				SetAttr("name", key).
				SetAttr("value", v))
		}
	}
	return form
}
