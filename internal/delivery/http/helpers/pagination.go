package helpers

import (
	"net/http"
	"strconv"

	"iamin/internal/domain"
)

// Pagination query parameter defaults and limits.
const (
	DefaultPage  = 1
	DefaultLimit = 50
	MaxLimit     = 100
)

// ParsePagination reads page and limit from the request query string,
// clamps them to valid ranges, and returns domain.PaginationParams.
// Invalid or missing values fall back to defaults.
func ParsePagination(r *http.Request) domain.PaginationParams {
	page := DefaultPage
	if s := r.URL.Query().Get("page"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			page = v
		}
	}
	limit := DefaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			limit = v
			if limit > MaxLimit {
				limit = MaxLimit
			}
		}
	}
	return domain.PaginationParams{Page: page, PageSize: limit}
}

// ParseEventFilter reads optional creatorFid and participantFid query
// parameters. Absent or non-numeric values leave the filter open.
func ParseEventFilter(r *http.Request) domain.EventFilter {
	var filter domain.EventFilter
	if s := r.URL.Query().Get("creatorFid"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil && v >= 1 {
			filter.CreatorFID = v
		}
	}
	if s := r.URL.Query().Get("participantFid"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil && v >= 1 {
			filter.ParticipantFID = v
		}
	}
	return filter
}
