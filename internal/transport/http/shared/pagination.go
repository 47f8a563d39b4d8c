package shared

import (
	"net/http"
	"strconv"
	"strings"
)

// Pagination is a window over an in-memory result set.
type Pagination struct {
	Limit  int
	Offset int
}

// Pagination reads limit and offset from the query string. Absent values take
// the defaults, limit is capped at maxLimit and malformed values are recorded
// as issues on v.
func (v *Validator) Pagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	page := Pagination{Limit: defaultLimit}
	query := r.URL.Query()

	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			v.Add("limit", "must be a whole number")
		case n < 1:
			v.Add("limit", "must be at least 1")
		default:
			page.Limit = n
		}
	}
	if raw := strings.TrimSpace(query.Get("offset")); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			v.Add("offset", "must be a whole number")
		case n < 0:
			v.Add("offset", "must not be negative")
		default:
			page.Offset = n
		}
	}
	if maxLimit > 0 && page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	return page
}
