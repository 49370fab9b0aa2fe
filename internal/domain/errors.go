package domain

import "errors"

// Sentinel errors shared across services and repositories.
var (
	// ErrNotFound is returned when an event does not exist. Malformed event
	// ids report the same error so callers cannot distinguish the two cases.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when a request carries malformed data.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreNotConfigured is returned when no store connection string is
	// configured. It is fatal and never retried.
	ErrStoreNotConfigured = errors.New("store not configured")
)
