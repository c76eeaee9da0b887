package ports

import (
	"context"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
)

// NotificationRepository defines persistence operations for notifications.
type NotificationRepository interface {
	Insert(ctx context.Context, n *domain.Notification) error
	// ListByRecipient returns the recipient's notifications newest-first.
	ListByRecipient(ctx context.Context, recipientID string) ([]*domain.Notification, error)
	// MarkRead toggles one notification owned by the recipient.
	MarkRead(ctx context.Context, id, recipientID string) error
	MarkAllRead(ctx context.Context, recipientID string) error
}

// Notifier is the fire-and-forget entry point services use to publish
// domain events. Implementations must never block the caller or propagate
// failures into the triggering operation.
type Notifier interface {
	Notify(event domain.Event)
}

// EventPublisher streams domain events to an external audit sink.
// Best-effort: errors are the caller's to log and swallow.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// NotificationService creates notification records from events and serves
// the pull-based delivery endpoints.
type NotificationService interface {
	// Dispatch creates the notification for one event. Called by the
	// queue workers, never by handlers.
	Dispatch(ctx context.Context, event domain.Event) error
	List(ctx context.Context, actor domain.Actor) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, actor domain.Actor, id string) error
	MarkAllRead(ctx context.Context, actor domain.Actor) error
}
