package models

import (
	"math"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 5
)

// ListParams holds normalized pagination and search parameters.
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

// ParseListParams builds ListParams from raw query values.
// Missing, non-numeric or zero values fall back to defaults;
// negative values are clamped to 1.
func ParseListParams(page, limit, search string) ListParams {
	return ListParams{
		Page:   parsePositive(page, DefaultPage),
		Limit:  parsePositive(limit, DefaultLimit),
		Search: search,
	}
}

// Skip returns the number of records preceding the page.
// It saturates at math.MaxInt instead of wrapping for huge pages.
func (p ListParams) Skip() int {
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

func parsePositive(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n == 0 {
		return def
	}
	if n < 0 {
		return 1
	}
	return n
}

// UserPage represents one page of users with pagination metadata
// swagger:model UserPage
type UserPage struct {
	// Current page number
	// example: 1
	Page int `json:"page"`

	// Page size
	// example: 5
	Limit int `json:"limit"`

	// Number of users matching the search
	// example: 12
	Total int `json:"total"`

	// Number of pages for the given limit
	// example: 3
	TotalPages int `json:"totalPages"`

	// Users on this page
	Data []UserDB `json:"data"`
}

// NewUserPage assembles a page and computes the total page count.
func NewUserPage(params ListParams, total int, users []UserDB) *UserPage {
	if users == nil {
		users = []UserDB{}
	}
	totalPages := total / params.Limit
	if total%params.Limit != 0 {
		totalPages++
	}
	return &UserPage{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
		Data:       users,
	}
}
