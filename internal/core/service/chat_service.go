package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
	"github.com/cargoconnect/marketplace-api/internal/core/moderation"
	"github.com/cargoconnect/marketplace-api/internal/core/ports"
	"github.com/cargoconnect/marketplace-api/internal/observability"
)

// ChatService is the per-request private channel between the client and the
// accepted transporter. Every message passes the moderation filter before
// persistence; stored content is immutable afterwards.
type ChatService struct {
	messages ports.ChatRepository
	requests ports.RequestRepository
	offers   ports.OfferRepository
	filter   *moderation.Filter
	notifier ports.Notifier
	logger   zerolog.Logger
}

func NewChatService(
	messages ports.ChatRepository,
	requests ports.RequestRepository,
	offers ports.OfferRepository,
	filter *moderation.Filter,
	notifier ports.Notifier,
	logger zerolog.Logger,
) *ChatService {
	return &ChatService{
		messages: messages,
		requests: requests,
		offers:   offers,
		filter:   filter,
		notifier: notifier,
		logger:   logger,
	}
}

// Post stores one message in the request's channel. The moderation warning,
// if any, is returned to the sender only and never broadcast.
func (s *ChatService) Post(ctx context.Context, actor domain.Actor, requestID, text string) (*ports.PostMessageResult, error) {
	req, counterparty, err := s.authorize(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}

	res := s.filter.Apply(text)
	for _, hit := range res.Hits {
		observability.ModerationHitsTotal.WithLabelValues(hit).Inc()
	}
	observability.ChatMessagesTotal.WithLabelValues(strconv.FormatBool(res.Blocked)).Inc()

	now := time.Now().UTC()
	msg := &domain.ChatMessage{
		ID:         uuid.NewString(),
		RequestID:  requestID,
		SenderID:   actor.ID,
		SenderName: actor.Name,
		Content:    res.Content,
		Blocked:    res.Blocked,
		CreatedAt:  now,
	}
	if err := s.messages.Insert(ctx, msg); err != nil {
		s.logger.Error().Err(err).Str("request_id", requestID).Msg("failed to store message")
		return nil, err
	}

	if res.Blocked {
		s.logger.Warn().
			Str("request_id", requestID).
			Str("sender_id", actor.ID).
			Strs("patterns", res.Hits).
			Msg("message content filtered")
	}

	s.notifier.Notify(domain.Event{
		Type:        domain.EventMessagePosted,
		ActorID:     actor.ID,
		RecipientID: counterparty,
		RequestID:   requestID,
		Title:       "New message",
		Body:        fmt.Sprintf("%s sent a message about %q", actor.Name, req.Title),
		Link:        "/requests/" + requestID,
		OccurredAt:  now,
	})

	return &ports.PostMessageResult{Message: msg, Warning: res.Warning}, nil
}

// List returns the channel history in creation order and marks the
// counterparty's messages read for the caller (advisory display state).
func (s *ChatService) List(ctx context.Context, actor domain.Actor, requestID string) ([]*domain.ChatMessage, error) {
	if _, _, err := s.authorize(ctx, actor, requestID); err != nil {
		return nil, err
	}

	msgs, err := s.messages.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	// Read state is advisory; a failed toggle is not worth failing the read.
	if err := s.messages.MarkRead(ctx, requestID, actor.ID); err != nil {
		s.logger.Warn().Err(err).Str("request_id", requestID).Msg("failed to mark messages read")
	}
	return msgs, nil
}

// authorize admits exactly the request's client and the accepted offer's
// transporter, and only once the request status grants chat access. It
// returns the request and the counterparty's user id.
func (s *ChatService) authorize(ctx context.Context, actor domain.Actor, requestID string) (*domain.TransportRequest, string, error) {
	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, "", err
	}
	if !req.Status.ChatOpen() {
		return nil, "", fmt.Errorf("request %s is %s: %w", requestID, req.Status, domain.ErrChannelLocked)
	}

	accepted, err := s.offers.FindAcceptedByRequest(ctx, requestID)
	if err != nil || accepted == nil {
		return nil, "", fmt.Errorf("request %s has no accepted offer: %w", requestID, domain.ErrChannelLocked)
	}

	switch actor.ID {
	case req.ClientID:
		return req, accepted.TransporterID, nil
	case accepted.TransporterID:
		return req, req.ClientID, nil
	}
	return nil, "", fmt.Errorf("request %s: %w", requestID, domain.ErrChannelLocked)
}
