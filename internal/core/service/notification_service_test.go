package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
)

func TestNotificationService_Dispatch(t *testing.T) {
	repo := newStubNotificationRepo()
	svc := NewNotificationService(repo, discardLogger)
	ctx := context.Background()

	event := domain.Event{
		Type:        domain.EventOfferSubmitted,
		ActorID:     "t1",
		RecipientID: "c1",
		RequestID:   "r1",
		Title:       "New offer received",
		Body:        "Luis offered 200.00",
		Link:        "/requests/r1",
		OccurredAt:  time.Now().UTC(),
	}
	if err := svc.Dispatch(ctx, event); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	list, err := svc.List(ctx, clientActor("c1"))
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("notifications = %d, want 1", len(list))
	}
	n := list[0]
	if n.Type != domain.NotificationOffer {
		t.Errorf("type = %s, want %s", n.Type, domain.NotificationOffer)
	}
	if n.Read {
		t.Error("new notification already read")
	}

	t.Run("self-addressed events dropped", func(t *testing.T) {
		self := event
		self.RecipientID = self.ActorID
		if err := svc.Dispatch(ctx, self); err != nil {
			t.Fatalf("Dispatch() error = %v", err)
		}
		list, _ := svc.List(ctx, transporterActor("t1"))
		if len(list) != 0 {
			t.Errorf("actor received their own event: %+v", list)
		}
	})

	t.Run("empty recipient dropped", func(t *testing.T) {
		blank := event
		blank.RecipientID = ""
		if err := svc.Dispatch(ctx, blank); err != nil {
			t.Fatalf("Dispatch() error = %v", err)
		}
	})
}

func TestNotificationService_EventTypeMapping(t *testing.T) {
	cases := []struct {
		event domain.EventType
		want  domain.NotificationType
	}{
		{domain.EventOfferSubmitted, domain.NotificationOffer},
		{domain.EventOfferAccepted, domain.NotificationOffer},
		{domain.EventOfferRejected, domain.NotificationOffer},
		{domain.EventMessagePosted, domain.NotificationMessage},
		{domain.EventVerificationAdjudicated, domain.NotificationVerification},
		{domain.EventPaymentSettled, domain.NotificationPayment},
	}
	for _, tc := range cases {
		e := domain.Event{Type: tc.event}
		if got := e.NotificationType(); got != tc.want {
			t.Errorf("NotificationType(%s) = %s, want %s", tc.event, got, tc.want)
		}
	}
}

func TestNotificationService_ReadFlags(t *testing.T) {
	repo := newStubNotificationRepo()
	svc := NewNotificationService(repo, discardLogger)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.Dispatch(ctx, domain.Event{
			Type:        domain.EventMessagePosted,
			ActorID:     "t1",
			RecipientID: "c1",
			Title:       "New message",
			OccurredAt:  time.Now().UTC(),
		}); err != nil {
			t.Fatal(err)
		}
	}

	list, _ := svc.List(ctx, clientActor("c1"))
	if err := svc.MarkRead(ctx, clientActor("c1"), list[0].ID); err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}

	t.Run("recipient scoping", func(t *testing.T) {
		err := svc.MarkRead(ctx, clientActor("c2"), list[1].ID)
		if !errors.Is(err, domain.ErrNotificationNotFound) {
			t.Errorf("error = %v, want ErrNotificationNotFound", err)
		}
	})

	if err := svc.MarkAllRead(ctx, clientActor("c1")); err != nil {
		t.Fatalf("MarkAllRead() error = %v", err)
	}
	list, _ = svc.List(ctx, clientActor("c1"))
	for _, n := range list {
		if !n.Read {
			t.Errorf("notification %s still unread", n.ID)
		}
	}
}
