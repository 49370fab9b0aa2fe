package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"iamin/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

// NewEventService creates an EventService over the given repository.
func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func (s *eventService) Create(ctx context.Context, title, description string, creator domain.Identity, participants []domain.Identity) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	var msgs []string
	if title == "" {
		msgs = append(msgs, "title is required")
	}
	if description == "" {
		msgs = append(msgs, "description is required")
	}
	creator.Normalize()
	for _, m := range domain.ValidateIdentity(creator) {
		msgs = append(msgs, "creator: "+m)
	}
	for i := range participants {
		participants[i].Normalize()
		for _, m := range domain.ValidateIdentity(participants[i]) {
			msgs = append(msgs, fmt.Sprintf("participants[%d]: %s", i, m))
		}
	}
	if len(msgs) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
	}

	// Seed participants keep first occurrence per fid, in order.
	participants = lo.UniqBy(participants, func(p domain.Identity) int64 { return p.FID })

	now := time.Now().UTC()
	event := domain.NewEvent(title, description, creator, participants, now, now)
	stored, err := s.eventRepo.Insert(ctx, event)
	if err != nil {
		if errors.Is(err, domain.ErrStoreNotConfigured) {
			return nil, domain.ErrStoreNotConfigured
		}
		return nil, fmt.Errorf("create event: %w", err)
	}
	return stored, nil
}

func (s *eventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrStoreNotConfigured) {
			return nil, err
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// List page/limit clamping bounds.
const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

func (s *eventService) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = DefaultPageSize
	}
	if params.PageSize > MaxPageSize {
		params.PageSize = MaxPageSize
	}

	events, hasMore, err := s.eventRepo.Find(ctx, filter, params)
	if err != nil {
		if errors.Is(err, domain.ErrStoreNotConfigured) {
			return nil, false, domain.ErrStoreNotConfigured
		}
		return nil, false, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, hasMore, nil
}
