// Package handler contains HTTP handlers for the pagedlist demo server.
//
// This file implements the list handlers: an HTML page with a pager and a
// go-to-page form, and a JSON endpoint. Both read one page from a
// pagedlist.Source per request.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/DukeRupert/pagedlist"
	"github.com/DukeRupert/pagedlist/internal/domain"
	"github.com/DukeRupert/pagedlist/internal/metrics"
	"github.com/DukeRupert/pagedlist/internal/middleware"
	"github.com/DukeRupert/pagedlist/pager"
)

// =============================================================================
// Handler Configuration
// =============================================================================

// Column is one table column of a list page.
type Column[T any] struct {
	Header string
	Value  func(T) string
	Class  string // applied to every cell of the column
}

// ListConfig configures a ListHandler.
type ListConfig[T any] struct {
	Name    string // source label for metrics and logs
	Title   string
	Source  pagedlist.Source[T]
	Columns []Column[T]

	Params pagedlist.ParamsConfig
	Pager  pager.Options
	GoTo   pager.GoToFormOptions

	// Timeout bounds a single page load; zero leaves only the request context.
	Timeout time.Duration
}

// ListHandler serves one source as HTML and JSON pages.
type ListHandler[T any] struct {
	cfg    ListConfig[T]
	logger *slog.Logger
}

// NewListHandler creates a new ListHandler.
func NewListHandler[T any](cfg ListConfig[T], logger *slog.Logger) *ListHandler[T] {
	if cfg.Params.PageParam == "" {
		cfg.Params.PageParam = "page"
	}
	if cfg.GoTo.InputFieldName == "" {
		cfg.GoTo.InputFieldName = cfg.Params.PageParam
	}
	return &ListHandler[T]{
		cfg:    cfg,
		logger: logger.With("source", cfg.Name),
	}
}

// RegisterRoutes registers the HTML page at path and the JSON endpoint at
// /api + path, both wrapped in mw.
func (h *ListHandler[T]) RegisterRoutes(mux *http.ServeMux, path string, mw ...func(http.Handler) http.Handler) {
	wrap := middleware.Stack(mw...)
	mux.Handle("GET "+path, wrap(http.HandlerFunc(h.ShowPage)))
	mux.Handle("GET /api"+path, wrap(http.HandlerFunc(h.ListJSON)))
}

// =============================================================================
// GET /items - HTML List Page
// =============================================================================

// ShowPage renders the requested page as a table followed by the pager and
// the go-to-page form.
func (h *ListHandler[T]) ShowPage(w http.ResponseWriter, r *http.Request) {
	const op = "handler.ListHandler.ShowPage"

	list, err := h.load(r, op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	metrics.PagerRendered(pager.Suppressed(list, h.cfg.Pager))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.page(r, list).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render list page", "error", err)
	}
}

// =============================================================================
// GET /api/items - JSON List
// =============================================================================

// ListJSON writes the requested page as JSON. Navigation URLs are returned
// in a Link header.
func (h *ListHandler[T]) ListJSON(w http.ResponseWriter, r *http.Request) {
	const op = "handler.ListHandler.ListJSON"

	list, err := h.load(r, op)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	pageURL := pager.QueryPageURL(r.URL, h.cfg.Params.PageParam)
	if links := linkHeader(list, pageURL); links != "" {
		w.Header().Set("Link", links)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(list); err != nil {
		h.logger.Error("failed to encode list", "error", err)
	}
}

// load reads the page named by the query string. A page past the end of a
// non-empty sequence is reported as not found.
func (h *ListHandler[T]) load(r *http.Request, op string) (*pagedlist.PagedList[T], error) {
	params := pagedlist.ParseParams(r.URL.Query(), h.cfg.Params)

	ctx := r.Context()
	if h.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.Timeout)
		defer cancel()
	}

	list, err := pagedlist.FromSource(ctx, h.cfg.Source, params.PageNumber, params.PageSize)
	if err != nil {
		metrics.PageServed(h.cfg.Name, metrics.Outcome(nil, err))
		return nil, domain.FromPaging(err, op)
	}
	metrics.PageServed(h.cfg.Name, metrics.Outcome(list, nil))

	if list.TotalItemCount() > 0 && list.PageNumber() > list.PageCount() {
		return nil, domain.NotFound(op, fmt.Sprintf("Page %d does not exist. The last page is %d.",
			list.PageNumber(), list.PageCount()))
	}
	return list, nil
}

// linkHeader builds an RFC 8288 Link header for the page.
func linkHeader(list pagedlist.Paged, pageURL func(int) string) string {
	if list.PageCount() == 0 {
		return ""
	}

	var links []string
	add := func(page int, rel string) {
		links = append(links, fmt.Sprintf("<%s>; rel=%q", pageURL(page), rel))
	}

	add(1, "first")
	if list.HasPreviousPage() {
		add(list.PageNumber()-1, "prev")
	}
	if list.HasNextPage() {
		add(list.PageNumber()+1, "next")
	}
	add(list.PageCount(), "last")

	return strings.Join(links, ", ")
}
