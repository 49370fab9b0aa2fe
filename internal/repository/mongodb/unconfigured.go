package mongodb

import (
	"context"

	"iamin/internal/domain"
)

// unconfiguredRepository stands in when no store connection string is set.
// Every operation fails with ErrStoreNotConfigured without attempting a
// connection.
type unconfiguredRepository struct{}

// NewUnconfiguredRepository returns an EventRepository for store-not-
// configured mode.
func NewUnconfiguredRepository() domain.EventRepository {
	return unconfiguredRepository{}
}

func (unconfiguredRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	return nil, domain.ErrStoreNotConfigured
}

func (unconfiguredRepository) Find(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, bool, error) {
	return nil, false, domain.ErrStoreNotConfigured
}

func (unconfiguredRepository) Insert(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	return nil, domain.ErrStoreNotConfigured
}

func (unconfiguredRepository) AppendParticipant(ctx context.Context, id string, p domain.Identity) (*domain.Event, bool, error) {
	return nil, false, domain.ErrStoreNotConfigured
}
