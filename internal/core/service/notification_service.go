package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
	"github.com/cargoconnect/marketplace-api/internal/core/ports"
	"github.com/cargoconnect/marketplace-api/internal/observability"
)

// NotificationService turns domain events into per-recipient notification
// records and serves the pull-based delivery endpoints. Creation is
// best-effort create-once: a failure is logged by the dispatcher and never
// rolls back the triggering operation.
type NotificationService struct {
	notifications ports.NotificationRepository
	logger        zerolog.Logger
}

func NewNotificationService(notifications ports.NotificationRepository, logger zerolog.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, logger: logger}
}

// Dispatch creates the notification for one event. Events without a
// recipient (or self-addressed ones) are dropped: the actor is never
// notified of their own action.
func (s *NotificationService) Dispatch(ctx context.Context, event domain.Event) error {
	if event.RecipientID == "" || event.RecipientID == event.ActorID {
		return nil
	}

	n := &domain.Notification{
		ID:          uuid.NewString(),
		RecipientID: event.RecipientID,
		Type:        event.NotificationType(),
		Title:       event.Title,
		Body:        event.Body,
		Link:        event.Link,
		CreatedAt:   event.OccurredAt,
	}
	if err := s.notifications.Insert(ctx, n); err != nil {
		return fmt.Errorf("dispatch %s: %w", event.Type, err)
	}

	observability.NotificationsCreatedTotal.WithLabelValues(string(n.Type)).Inc()
	s.logger.Debug().
		Str("recipient_id", n.RecipientID).
		Str("type", string(n.Type)).
		Msg("notification created")
	return nil
}

func (s *NotificationService) List(ctx context.Context, actor domain.Actor) ([]*domain.Notification, error) {
	return s.notifications.ListByRecipient(ctx, actor.ID)
}

func (s *NotificationService) MarkRead(ctx context.Context, actor domain.Actor, id string) error {
	return s.notifications.MarkRead(ctx, id, actor.ID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, actor domain.Actor) error {
	return s.notifications.MarkAllRead(ctx, actor.ID)
}
