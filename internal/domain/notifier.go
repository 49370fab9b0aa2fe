package domain

import "context"

// Notifier delivers a message to a single recipient (infrastructure port).
// Delivery is best-effort: callers log failures and never propagate them.
type Notifier interface {
	Notify(ctx context.Context, recipient Identity, subject, body string) error
}
