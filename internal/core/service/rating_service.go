package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
	"github.com/cargoconnect/marketplace-api/internal/core/ports"
)

// RatingService accepts post-completion ratings and maintains the
// recipient's running sum/count aggregate.
type RatingService struct {
	ratings  ports.RatingRepository
	requests ports.RequestRepository
	offers   ports.OfferRepository
	users    ports.UserRepository
	logger   zerolog.Logger
}

func NewRatingService(
	ratings ports.RatingRepository,
	requests ports.RequestRepository,
	offers ports.OfferRepository,
	users ports.UserRepository,
	logger zerolog.Logger,
) *RatingService {
	return &RatingService{ratings: ratings, requests: requests, offers: offers, users: users, logger: logger}
}

// Submit records one 1-5 score from a participant of a completed request
// toward the counterparty. Exactly one rating per (rater, request).
func (s *RatingService) Submit(ctx context.Context, actor domain.Actor, in ports.SubmitRatingInput) (*domain.Rating, error) {
	if in.Score < 1 || in.Score > 5 {
		return nil, fmt.Errorf("submit rating: score must be 1-5: %w", domain.ErrIncompleteSubmission)
	}

	req, err := s.requests.FindByID(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}
	if req.Status != domain.RequestCompleted {
		return nil, fmt.Errorf("request %s is %s: %w", req.ID, req.Status, domain.ErrRatingNotUnlocked)
	}

	accepted, err := s.offers.FindAcceptedByRequest(ctx, in.RequestID)
	if err != nil || accepted == nil {
		return nil, fmt.Errorf("submit rating: %w", domain.ErrRatingNotUnlocked)
	}

	// Rater and ratee must be the matched pair, in either direction.
	pair := map[string]string{
		req.ClientID:           accepted.TransporterID,
		accepted.TransporterID: req.ClientID,
	}
	if counterparty, ok := pair[actor.ID]; !ok || counterparty != in.ToUserID {
		return nil, fmt.Errorf("submit rating: %w", domain.ErrForbidden)
	}

	exists, err := s.ratings.ExistsForRequest(ctx, actor.ID, in.RequestID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("request %s: %w", in.RequestID, domain.ErrAlreadyRated)
	}

	rating := &domain.Rating{
		ID:        uuid.NewString(),
		FromID:    actor.ID,
		FromName:  actor.Name,
		ToID:      in.ToUserID,
		RequestID: in.RequestID,
		Score:     in.Score,
		Comment:   in.Comment,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.ratings.Insert(ctx, rating); err != nil {
		s.logger.Error().Err(err).Str("request_id", in.RequestID).Msg("failed to store rating")
		return nil, err
	}

	if err := s.users.ApplyRating(ctx, in.ToUserID, in.Score); err != nil {
		s.logger.Error().Err(err).Str("user_id", in.ToUserID).Msg("failed to update rating aggregate")
	}

	s.logger.Info().
		Str("request_id", in.RequestID).
		Str("from", actor.ID).
		Str("to", in.ToUserID).
		Int("score", in.Score).
		Msg("rating submitted")
	return rating, nil
}

func (s *RatingService) ListForUser(ctx context.Context, userID string) ([]*domain.Rating, error) {
	return s.ratings.ListForUser(ctx, userID)
}
