package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"iamin/internal/domain"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  domain.PaginationParams
	}{
		{"defaults", "", domain.PaginationParams{Page: 1, PageSize: 50}},
		{"explicit", "?page=3&limit=20", domain.PaginationParams{Page: 3, PageSize: 20}},
		{"limit clamped to max", "?limit=500", domain.PaginationParams{Page: 1, PageSize: 100}},
		{"invalid values fall back", "?page=abc&limit=-2", domain.PaginationParams{Page: 1, PageSize: 50}},
		{"zero page falls back", "?page=0", domain.PaginationParams{Page: 1, PageSize: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/events"+tt.query, nil)
			require.Equal(t, tt.want, ParsePagination(r))
		})
	}
}

func TestParseEventFilter(t *testing.T) {
	r := httptest.NewRequest("GET", "/events?creatorFid=7&participantFid=9", nil)
	require.Equal(t, domain.EventFilter{CreatorFID: 7, ParticipantFID: 9}, ParseEventFilter(r))

	r = httptest.NewRequest("GET", "/events?creatorFid=abc&participantFid=-1", nil)
	require.Equal(t, domain.EventFilter{}, ParseEventFilter(r))

	r = httptest.NewRequest("GET", "/events", nil)
	require.Equal(t, domain.EventFilter{}, ParseEventFilter(r))
}
