// Package paginate computes offset/limit windows and the pagination
// metadata returned alongside list endpoints. Pure functions, no I/O.
package paginate

import (
	"strconv"

	"github.com/andrianfauzi/warungku/pkg/apperr"
)

const (
	// DefaultPage is used when the page query parameter is absent.
	DefaultPage = 1
	// DefaultLimit is used when the limit query parameter is absent.
	DefaultLimit = 10
)

// Params is a validated pagination window. Page is 1-based.
type Params struct {
	Page  int
	Limit int
}

// Meta is the pagination block flattened into the response envelope.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int64 `json:"totalPages"`
}

// Parse builds Params from the raw page/limit query strings. Absent values
// take the defaults; present but non-positive or non-numeric values are
// rejected with a Validation error. Rejection rather than clamping keeps
// list reads deterministic.
func Parse(rawPage, rawLimit string) (Params, error) {
	p := Params{Page: DefaultPage, Limit: DefaultLimit}

	if rawPage != "" {
		n, err := strconv.Atoi(rawPage)
		if err != nil || n < 1 {
			return Params{}, apperr.New(apperr.Validation, "Page and limit must be positive numbers")
		}
		p.Page = n
	}

	if rawLimit != "" {
		n, err := strconv.Atoi(rawLimit)
		if err != nil || n < 1 {
			return Params{}, apperr.New(apperr.Validation, "Page and limit must be positive numbers")
		}
		p.Limit = n
	}

	return p, nil
}

// Offset returns the 0-based row offset for the window.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// MetaFor computes the metadata for a window over totalItems rows.
// TotalPages is ceiling division; zero rows yield zero pages.
func (p Params) MetaFor(totalItems int64) Meta {
	limit := int64(p.Limit)
	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		TotalItems: totalItems,
		TotalPages: (totalItems + limit - 1) / limit,
	}
}
