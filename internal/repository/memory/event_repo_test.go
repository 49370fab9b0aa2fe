package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"iamin/internal/domain"
)

func identity(fid int64) domain.Identity {
	return domain.Identity{
		FID:         fid,
		Username:    fmt.Sprintf("user%d", fid),
		DisplayName: fmt.Sprintf("User %d", fid),
		PfpURL:      fmt.Sprintf("https://example.com/%d.png", fid),
	}
}

func TestAppendParticipant(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository()

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	stored, err := repo.Insert(ctx, domain.NewEvent("Meetup", "Monthly sync", identity(1), nil, base, base))
	require.NoError(t, err)
	id := stored.ID.Hex()

	// Fresh append mutates and advances updatedAt.
	event, created, err := repo.AppendParticipant(ctx, id, identity(2))
	require.NoError(t, err)
	require.True(t, created)
	require.Len(t, event.Participants, 1)
	require.Equal(t, int64(2), event.Participants[0].FID)
	require.True(t, event.UpdatedAt.After(base))
	firstUpdatedAt := event.UpdatedAt

	// Same fid again: no mutation, updatedAt untouched.
	event, created, err = repo.AppendParticipant(ctx, id, identity(2))
	require.NoError(t, err)
	require.False(t, created)
	require.Len(t, event.Participants, 1)
	require.Equal(t, firstUpdatedAt, event.UpdatedAt)

	// Insertion order is kept.
	event, created, err = repo.AppendParticipant(ctx, id, identity(3))
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, []int64{2, 3}, participantFIDs(event))
}

func TestAppendParticipantNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository()

	// Malformed and missing ids are indistinguishable.
	_, _, err := repo.AppendParticipant(ctx, "definitely-not-an-object-id", identity(1))
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = repo.AppendParticipant(ctx, "ffffffffffffffffffffffff", identity(1))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFindByIDNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository()
	_, err := repo.FindByID(ctx, "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.FindByID(ctx, "ffffffffffffffffffffffff")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFindPagination(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository()

	// 41 events with strictly increasing createdAt so the expected order is
	// unambiguous: newest first.
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 41; i++ {
		ts := base.Add(time.Duration(i) * time.Minute)
		_, err := repo.Insert(ctx, domain.NewEvent(fmt.Sprintf("Event %d", i), "d", identity(1), nil, ts, ts))
		require.NoError(t, err)
	}

	// Page 2 of 20 holds records 21-40; the 41st record makes hasMore true.
	page2, hasMore, err := repo.Find(ctx, domain.EventFilter{}, domain.PaginationParams{Page: 2, PageSize: 20})
	require.NoError(t, err)
	require.True(t, hasMore)
	require.Len(t, page2, 20)
	require.Equal(t, "Event 20", page2[0].Title)
	require.Equal(t, "Event 1", page2[19].Title)

	page3, hasMore, err := repo.Find(ctx, domain.EventFilter{}, domain.PaginationParams{Page: 3, PageSize: 20})
	require.NoError(t, err)
	require.False(t, hasMore)
	require.Len(t, page3, 1)
	require.Equal(t, "Event 0", page3[0].Title)

	// Past the end: empty page, no more.
	page4, hasMore, err := repo.Find(ctx, domain.EventFilter{}, domain.PaginationParams{Page: 4, PageSize: 20})
	require.NoError(t, err)
	require.False(t, hasMore)
	require.Empty(t, page4)
}

func TestFindFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository()
	now := time.Now().UTC()

	a, err := repo.Insert(ctx, domain.NewEvent("by alice", "d", identity(1), nil, now, now))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, domain.NewEvent("by bob", "d", identity(2), nil, now.Add(time.Second), now.Add(time.Second)))
	require.NoError(t, err)

	_, _, err = repo.AppendParticipant(ctx, a.ID.Hex(), identity(3))
	require.NoError(t, err)

	byCreator, _, err := repo.Find(ctx, domain.EventFilter{CreatorFID: 1}, domain.PaginationParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, byCreator, 1)
	require.Equal(t, "by alice", byCreator[0].Title)

	byParticipant, _, err := repo.Find(ctx, domain.EventFilter{ParticipantFID: 3}, domain.PaginationParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, byParticipant, 1)
	require.Equal(t, "by alice", byParticipant[0].Title)

	// Conjunction of both filters.
	both, _, err := repo.Find(ctx, domain.EventFilter{CreatorFID: 2, ParticipantFID: 3}, domain.PaginationParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Empty(t, both)
}

func TestCloneIsolation(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository()
	now := time.Now().UTC()

	stored, err := repo.Insert(ctx, domain.NewEvent("Meetup", "d", identity(1), nil, now, now))
	require.NoError(t, err)

	// Mutating a returned aggregate must not leak into the store.
	stored.Participants = append(stored.Participants, identity(99))
	reread, err := repo.FindByID(ctx, stored.ID.Hex())
	require.NoError(t, err)
	require.Empty(t, reread.Participants)
}

func participantFIDs(e *domain.Event) []int64 {
	fids := make([]int64, 0, len(e.Participants))
	for _, p := range e.Participants {
		fids = append(fids, p.FID)
	}
	return fids
}
