package pagination

import (
	"net/http"
	"strconv"
)

const (
	defaultPage  = 1
	defaultCount = 10
	maxCount     = 100
)

// Params holds pagination parameters extracted from query strings.
type Params struct {
	Page  int `json:"page"`
	Count int `json:"count"`
}

// DefaultParams returns sensible pagination defaults.
func DefaultParams() Params {
	return Params{
		Page:  defaultPage,
		Count: defaultCount,
	}
}

// FromRequest extracts pagination parameters from an HTTP request. Values
// that are missing, non-numeric, or out of range fall back to the defaults.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()

	if page := r.URL.Query().Get("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 0 {
			p.Page = v
		}
	}

	if count := r.URL.Query().Get("count"); count != "" {
		if v, err := strconv.Atoi(count); err == nil && v > 0 && v <= maxCount {
			p.Count = v
		}
	}

	return p
}

// Offset returns the row offset implied by the page and count.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Count
}
