package pager

import (
	"net/url"
	"strconv"
)

// QueryPageURL returns a page URL generator that sets param on a copy of base
// and keeps every other query value.
func QueryPageURL(base *url.URL, param string) func(int) string {
	if param == "" {
		param = "page"
	}
	var u url.URL
	if base != nil {
		u = *base
	}
	query := u.Query()

	return func(page int) string {
		q := make(url.Values, len(query)+1)
		for k, v := range query {
			q[k] = v
		}
		q.Set(param, strconv.Itoa(page))

		out := u
		out.RawQuery = q.Encode()
		return out.String()
	}
}
