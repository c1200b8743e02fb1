// Package pagination computes offset/limit navigation for paged responses.
package pagination

import (
	"errors"
	"fmt"
	"math"
	"net/url"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultLimit  = 25
	DefaultOffset = 0
)

var ErrInvalidPaginationInput = errors.New("invalid pagination input")

// Descriptor identifies one page by its starting index and page size
type Descriptor struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Window is the navigation metadata of the page the caller already fetched.
// Previous and Next are nil when there is no such page.
type Window struct {
	Previous *Descriptor `json:"previous"`
	Next     *Descriptor `json:"next"`
	Offset   int         `json:"offset"`
	Limit    int         `json:"limit"`
	Total    int         `json:"total"`
}

type OffsetLimitParams struct {
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
	Query  string `json:"query"`
}

// ParseOffsetLimitParams reads offset, limit and query from the request.
// Values are passed through unvalidated; ComputeWindow rejects bad ones.
func ParseOffsetLimitParams(c *fiber.Ctx) OffsetLimitParams {
	return OffsetLimitParams{
		Offset: c.QueryInt("offset", DefaultOffset),
		Limit:  c.QueryInt("limit", DefaultLimit),
		Query:  c.Query("query"),
	}
}

// ValidateWindowInput checks the preconditions of ComputeWindow.
func ValidateWindowInput(offset, limit, total int) error {
	if offset < 0 {
		return fmt.Errorf("%w: offset must not be negative, got %d", ErrInvalidPaginationInput, offset)
	}
	if limit <= 0 {
		return fmt.Errorf("%w: limit must be greater than 0, got %d", ErrInvalidPaginationInput, limit)
	}
	if total < 0 {
		return fmt.Errorf("%w: total must not be negative, got %d", ErrInvalidPaginationInput, total)
	}
	if offset > math.MaxInt-limit {
		return fmt.Errorf("%w: offset %d plus limit %d overflows", ErrInvalidPaginationInput, offset, limit)
	}
	return nil
}

// ComputeWindow derives the previous and next pages from the current offset,
// limit and total result count. It never clamps its inputs and never checks
// that items actually exist at the computed offsets.
func ComputeWindow(offset, limit, total int) (Window, error) {
	if err := ValidateWindowInput(offset, limit, total); err != nil {
		return Window{}, err
	}

	window := Window{
		Offset: offset,
		Limit:  limit,
		Total:  total,
	}
	if total == 0 {
		return window, nil
	}

	if offset > 0 {
		// a partial leading page still starts at 0
		window.Previous = &Descriptor{Offset: max(0, offset-limit), Limit: limit}
	}

	// total-limit cannot overflow since total >= 0 and limit > 0
	if offset < total-limit {
		window.Next = &Descriptor{Offset: offset + limit, Limit: limit}
	}

	return window, nil
}

// GetPaginatedURL renders a navigation link for d against basePath
func GetPaginatedURL(basePath string, d Descriptor, query string) string {
	return fmt.Sprintf("%s?limit=%d&offset=%d&query=%s", basePath, d.Limit, d.Offset, url.QueryEscape(query))
}
