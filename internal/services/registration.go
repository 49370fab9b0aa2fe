package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	"iamin/internal/domain"
)

// notifyTimeout bounds each individual recipient delivery.
const notifyTimeout = 5 * time.Second

type registrationService struct {
	eventRepo      domain.EventRepository
	notifier       domain.Notifier
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewRegistrationService creates a RegistrationService. A fresh registration
// fans out a best-effort notification to the event creator and every prior
// participant; delivery failures are logged and never affect the result.
func NewRegistrationService(eventRepo domain.EventRepository, notifier domain.Notifier, logger *slog.Logger, timeout time.Duration) domain.RegistrationService {
	return &registrationService{
		eventRepo:      eventRepo,
		notifier:       notifier,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *registrationService) Register(ctx context.Context, eventID string, p domain.Identity) (*domain.Event, bool, error) {
	p.Normalize()
	if msgs := domain.ValidateIdentity(p); len(msgs) > 0 {
		return nil, false, fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
	}
	return s.register(ctx, eventID, p)
}

func (s *registrationService) JoinByFID(ctx context.Context, eventID string, fid int64) (*domain.Event, bool, error) {
	if fid < 1 {
		return nil, false, fmt.Errorf("%w: fid must be a number greater than or equal to 1", domain.ErrInvalidInput)
	}
	// Minimal identity for callers that only know their fid; handle and
	// display name fall back to fid-derived placeholders.
	p := domain.Identity{
		FID:         fid,
		Username:    fmt.Sprintf("user-%d", fid),
		DisplayName: fmt.Sprintf("User %d", fid),
	}
	return s.register(ctx, eventID, p)
}

func (s *registrationService) register(ctx context.Context, eventID string, p domain.Identity) (*domain.Event, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, created, err := s.eventRepo.AppendParticipant(ctx, eventID, p)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrStoreNotConfigured) {
			return nil, false, err
		}
		return nil, false, fmt.Errorf("append participant: %w", err)
	}
	if created {
		s.notifyJoined(event, p)
	}
	return event, created, nil
}

// notifyJoined tells the creator and all prior participants that p joined.
// Deliveries run concurrently and are joined before returning; each failure
// is logged per recipient and aborts nothing.
func (s *registrationService) notifyJoined(event *domain.Event, p domain.Identity) {
	recipients := append([]domain.Identity{event.Creator}, event.Participants...)
	recipients = lo.UniqBy(recipients, func(r domain.Identity) int64 { return r.FID })
	recipients = lo.Filter(recipients, func(r domain.Identity, _ int) bool { return r.FID != p.FID })
	if len(recipients) == 0 {
		return
	}

	subject := fmt.Sprintf("Update for %q", event.Title)
	body := fmt.Sprintf("%s (@%s) joined %q", p.DisplayName, p.Username, event.Title)

	var wg sync.WaitGroup
	for _, recipient := range recipients {
		wg.Add(1)
		go func(recipient domain.Identity) {
			defer wg.Done()
			// Detached from the request context: a caller hang-up must not
			// abort sibling deliveries.
			ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			if err := s.notifier.Notify(ctx, recipient, subject, body); err != nil {
				s.logger.Error("join notification failed",
					"event_id", event.ID.Hex(),
					"recipient_fid", recipient.FID,
					"err", err,
				)
			}
		}(recipient)
	}
	wg.Wait()
}
