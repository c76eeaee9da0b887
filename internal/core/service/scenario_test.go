package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
	"github.com/cargoconnect/marketplace-api/internal/core/moderation"
	"github.com/cargoconnect/marketplace-api/internal/core/ports"
)

// syncNotifier dispatches events inline so scenario assertions can read the
// resulting notifications without a running worker pool.
type syncNotifier struct {
	svc *NotificationService
}

func (n *syncNotifier) Notify(event domain.Event) {
	_ = n.svc.Dispatch(context.Background(), event)
}

// TestNegotiationScenario walks one request through its full life: posting,
// two competing offers, acceptance with cascade, chat between the matched
// pair, delivery, and mutual ratings.
func TestNegotiationScenario(t *testing.T) {
	ctx := context.Background()

	requests := newStubRequestRepo()
	offers := newStubOfferRepo()
	messages := newStubChatRepo()
	ratings := newStubRatingRepo()
	users := newStubUserRepo()
	notifications := newStubNotificationRepo()

	notifier := &syncNotifier{svc: NewNotificationService(notifications, discardLogger)}

	locker := newMemLocker()
	requestSvc := NewRequestService(requests, offers, locker, discardLogger)
	offerSvc := NewOfferService(offers, requests, locker, notifier, discardLogger)
	chatSvc := NewChatService(messages, requests, offers,
		moderation.New(moderation.DefaultConfig()), notifier, discardLogger)
	ratingSvc := NewRatingService(ratings, requests, offers, users, discardLogger)

	client := clientActor("c1")
	t1 := transporterActor("t1")
	t2 := transporterActor("t2")

	for _, u := range []*domain.User{
		{ID: "c1", Email: "c1@example.com", Name: client.Name, Roles: []string{domain.RoleClient}},
		{ID: "t1", Email: "t1@example.com", Name: t1.Name, Roles: []string{domain.RoleTransporter}},
		{ID: "t2", Email: "t2@example.com", Name: t2.Name, Roles: []string{domain.RoleTransporter}},
	} {
		if err := users.Create(ctx, u); err != nil {
			t.Fatal(err)
		}
	}

	// Client posts a request.
	req, err := requestSvc.Create(ctx, client, ports.CreateRequestInput{
		Title:        "Machinery to Bilbao",
		Origin:       "Zaragoza",
		Destination:  "Bilbao",
		CargoType:    "machinery",
		OfferedPrice: 300,
	})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	// Two transporters bid; the second undercuts the first.
	o1, err := offerSvc.Submit(ctx, t1, ports.SubmitOfferInput{RequestID: req.ID, Price: 100})
	if err != nil {
		t.Fatalf("first offer: %v", err)
	}
	o2, err := offerSvc.Submit(ctx, t2, ports.SubmitOfferInput{RequestID: req.ID, Price: 90})
	if err != nil {
		t.Fatalf("second offer: %v", err)
	}

	got, _ := requests.FindByID(ctx, req.ID)
	if got.Status != domain.RequestNegotiating {
		t.Fatalf("request status = %s, want negotiating", got.Status)
	}

	// Chat stays locked while negotiation is open.
	if _, err := chatSvc.Post(ctx, t2, req.ID, "hello"); !errors.Is(err, domain.ErrChannelLocked) {
		t.Fatalf("pre-accept chat error = %v, want ErrChannelLocked", err)
	}

	// Client takes the cheaper offer; the other is rejected in cascade.
	res, err := offerSvc.Accept(ctx, client, o2.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if len(res.RejectedIDs) != 1 || res.RejectedIDs[0] != o1.ID {
		t.Fatalf("rejected ids = %v, want [%s]", res.RejectedIDs, o1.ID)
	}

	// The losing transporter is out of the channel; the winner is in.
	if _, err := chatSvc.Post(ctx, t1, req.ID, "reconsider?"); !errors.Is(err, domain.ErrChannelLocked) {
		t.Fatalf("loser chat error = %v, want ErrChannelLocked", err)
	}
	post, err := chatSvc.Post(ctx, t2, req.ID, "I can load tomorrow at 9, call me at 612345678")
	if err != nil {
		t.Fatalf("winner chat: %v", err)
	}
	if !post.Message.Blocked || strings.Contains(post.Message.Content, "612345678") {
		t.Fatalf("phone number not filtered: %q", post.Message.Content)
	}

	// Delivery happens.
	if _, err := requestSvc.MarkInTransit(ctx, t2, req.ID); err != nil {
		t.Fatalf("mark in transit: %v", err)
	}
	if _, err := requestSvc.MarkCompleted(ctx, client, req.ID); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	// Both parties rate each other, once.
	if _, err := ratingSvc.Submit(ctx, client, ports.SubmitRatingInput{
		RequestID: req.ID, ToUserID: "t2", Score: 5,
	}); err != nil {
		t.Fatalf("client rating: %v", err)
	}
	if _, err := ratingSvc.Submit(ctx, t2, ports.SubmitRatingInput{
		RequestID: req.ID, ToUserID: "c1", Score: 4,
	}); err != nil {
		t.Fatalf("transporter rating: %v", err)
	}
	if _, err := ratingSvc.Submit(ctx, client, ports.SubmitRatingInput{
		RequestID: req.ID, ToUserID: "t2", Score: 1,
	}); !errors.Is(err, domain.ErrAlreadyRated) {
		t.Fatalf("double rating error = %v, want ErrAlreadyRated", err)
	}

	transporter, _ := users.FindByID(ctx, "t2")
	if transporter.AverageRating() != 5 {
		t.Errorf("transporter average = %v, want 5", transporter.AverageRating())
	}

	// Notification trail: the client saw both offers, the winner the accept
	// and the message, the loser nothing about the acceptance.
	clientNotes, _ := notifications.ListByRecipient(ctx, "c1")
	var offerNotes int
	for _, n := range clientNotes {
		if n.Type == domain.NotificationOffer {
			offerNotes++
		}
	}
	if offerNotes != 2 {
		t.Errorf("client offer notifications = %d, want 2", offerNotes)
	}

	winnerNotes, _ := notifications.ListByRecipient(ctx, "t2")
	var sawAccept bool
	for _, n := range winnerNotes {
		if n.Title == "Offer accepted" {
			sawAccept = true
		}
	}
	if !sawAccept {
		t.Error("winning transporter never notified of acceptance")
	}

	loserNotes, _ := notifications.ListByRecipient(ctx, "t1")
	for _, n := range loserNotes {
		if n.Title == "Offer accepted" {
			t.Error("losing transporter notified of someone else's acceptance")
		}
	}
}
