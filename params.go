package pagedlist

import (
	"net/url"
	"strconv"
	"strings"
)

// Params is a page request as received from a caller.
type Params struct {
	PageNumber int
	PageSize   int
}

// ParamsConfig controls how ParseParams reads a query string.
type ParamsConfig struct {
	PageParam       string // defaults to "page"
	SizeParam       string // defaults to "size"
	DefaultPageSize int    // defaults to DefaultPageSize
	MaxPageSize     int    // 0 disables the cap
}

// ParseParams reads the page number and size from query values. A missing or
// non-numeric page number means page 1 and a missing or non-numeric size means
// the default size. Explicit values below 1 are returned as-is so that the
// constructors reject them rather than silently serving a different page.
func ParseParams(q url.Values, cfg ParamsConfig) Params {
	pageParam := cfg.PageParam
	if pageParam == "" {
		pageParam = "page"
	}
	sizeParam := cfg.SizeParam
	if sizeParam == "" {
		sizeParam = "size"
	}
	defaultSize := cfg.DefaultPageSize
	if defaultSize < 1 {
		defaultSize = DefaultPageSize
	}

	p := Params{
		PageNumber: parseInt(q.Get(pageParam), 1),
		PageSize:   parseInt(q.Get(sizeParam), defaultSize),
	}
	if cfg.MaxPageSize > 0 && p.PageSize > cfg.MaxPageSize {
		p.PageSize = cfg.MaxPageSize
	}
	return p
}

func parseInt(s string, fallback int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
