// Package pagination reads page/per_page query parameters and shapes paged
// list responses for the panel tables.
package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/CemBlt/dent-admin-app/pkg/apperr"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Page is a 1-based page number and its size.
type Page struct {
	Number int
	Size   int
}

// Parse reads page and per_page. Missing values fall back to page 1 and
// DefaultPerPage; per_page above MaxPerPage is clamped. Non-numeric or
// non-positive values are rejected.
func Parse(c echo.Context) (Page, error) {
	p := Page{Number: 1, Size: DefaultPerPage}
	if raw := c.QueryParam("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Page{}, apperr.Invalid("page", "page must be a positive integer")
		}
		p.Number = n
	}
	if raw := c.QueryParam("per_page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Page{}, apperr.Invalid("per_page", "per_page must be a positive integer")
		}
		p.Size = min(n, MaxPerPage)
	}
	return p, nil
}

func (p Page) Limit() int  { return p.Size }
func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// Response is the envelope for paged lists.
type Response struct {
	Data    interface{} `json:"data"`
	Total   int         `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
	Pages   int         `json:"pages"`
}

func NewResponse(data interface{}, total int, p Page) *Response {
	pages := 0
	if p.Size > 0 {
		pages = (total + p.Size - 1) / p.Size
	}
	return &Response{Data: data, Total: total, Page: p.Number, PerPage: p.Size, Pages: pages}
}
