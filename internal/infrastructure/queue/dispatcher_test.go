package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
)

type recordingService struct {
	mu     sync.Mutex
	events []domain.Event
}

func (s *recordingService) Dispatch(_ context.Context, event domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingService) List(context.Context, domain.Actor) ([]*domain.Notification, error) {
	return nil, nil
}
func (s *recordingService) MarkRead(context.Context, domain.Actor, string) error { return nil }
func (s *recordingService) MarkAllRead(context.Context, domain.Actor) error { return nil }

func (s *recordingService) forRecipient(recipientID string) []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Event
	for _, e := range s.events {
		if e.RecipientID == recipientID {
			out = append(out, e)
		}
	}
	return out
}

func (s *recordingService) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestDispatcher_FanOut(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := &recordingService{}
	d := NewDispatcher(4, svc, nil, zerolog.Nop())
	d.Start(ctx)

	const perRecipient = 20
	recipients := []string{"u1", "u2", "u3"}
	for i := 0; i < perRecipient; i++ {
		for _, r := range recipients {
			d.Notify(domain.Event{
				Type:        domain.EventMessagePosted,
				RecipientID: r,
				Body:        r,
				OccurredAt:  time.Now().UTC().Add(time.Duration(i) * time.Millisecond),
			})
		}
	}

	waitFor(t, func() bool { return svc.count() == perRecipient*len(recipients) })

	// Sharding by recipient keeps each recipient's events in send order.
	for _, r := range recipients {
		events := svc.forRecipient(r)
		if len(events) != perRecipient {
			t.Fatalf("recipient %s got %d events, want %d", r, len(events), perRecipient)
		}
		for i := 1; i < len(events); i++ {
			if events[i].OccurredAt.Before(events[i-1].OccurredAt) {
				t.Fatalf("recipient %s events out of order at %d", r, i)
			}
		}
	}
}

func TestDispatcher_SameRecipientSameWorker(t *testing.T) {
	d := NewDispatcher(8, &recordingService{}, nil, zerolog.Nop())
	for _, id := range []string{"u1", "u2", "client-abc", ""} {
		a := d.shardIndex(id)
		b := d.shardIndex(id)
		if a != b {
			t.Errorf("shardIndex(%q) not deterministic: %d vs %d", id, a, b)
		}
		if a < 0 || a >= 8 {
			t.Errorf("shardIndex(%q) = %d out of range", id, a)
		}
	}
}
