// Package memory provides a mutex-guarded in-memory EventRepository that
// mirrors the Mongo adapter's conditional-append contract. It backs service
// and handler tests, including the concurrent-registration ones.
package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"iamin/internal/domain"
)

type EventRepository struct {
	mu     sync.Mutex
	events map[primitive.ObjectID]*domain.Event
}

func NewEventRepository() *EventRepository {
	return &EventRepository{events: make(map[primitive.ObjectID]*domain.Event)}
}

// clone guards against callers mutating stored state through returned
// pointers.
func clone(e *domain.Event) *domain.Event {
	cp := *e
	cp.Participants = append([]domain.Identity(nil), e.Participants...)
	return &cp
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[oid]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(event), nil
}

func (r *EventRepository) Find(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, bool, error) {
	r.mu.Lock()
	matched := make([]*domain.Event, 0, len(r.events))
	for _, event := range r.events {
		if filter.CreatorFID > 0 && event.Creator.FID != filter.CreatorFID {
			continue
		}
		if filter.ParticipantFID > 0 && !event.HasParticipant(filter.ParticipantFID) {
			continue
		}
		matched = append(matched, clone(event))
	}
	r.mu.Unlock()

	// Newest first, _id descending on equal timestamps.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return bytes.Compare(matched[i].ID[:], matched[j].ID[:]) > 0
	})

	offset := params.Offset()
	if offset >= len(matched) {
		return []*domain.Event{}, false, nil
	}
	matched = matched[offset:]
	hasMore := len(matched) > params.PageSize
	if hasMore {
		matched = matched[:params.PageSize]
	}
	return matched, hasMore, nil
}

func (r *EventRepository) Insert(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	r.events[event.ID] = clone(event)
	return clone(event), nil
}

func (r *EventRepository) AppendParticipant(ctx context.Context, id string, p domain.Identity) (*domain.Event, bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false, domain.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[oid]
	if !ok {
		return nil, false, domain.ErrNotFound
	}
	if event.HasParticipant(p.FID) {
		return clone(event), false, nil
	}
	event.Participants = append(event.Participants, p)
	event.UpdatedAt = time.Now().UTC()
	return clone(event), true, nil
}
