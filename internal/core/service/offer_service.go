package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
	"github.com/cargoconnect/marketplace-api/internal/core/ports"
	"github.com/cargoconnect/marketplace-api/internal/observability"
)

// OfferService manages the lifecycle of a request's offers. The request is
// the only contended entity in the system: submit, accept and cancel are
// serialized per request through a bounded lock, with a conditional request
// transition as the accept commit point.
type OfferService struct {
	offers   ports.OfferRepository
	requests ports.RequestRepository
	locker   ports.RequestLocker
	notifier ports.Notifier
	logger   zerolog.Logger
}

func NewOfferService(
	offers ports.OfferRepository,
	requests ports.RequestRepository,
	locker ports.RequestLocker,
	notifier ports.Notifier,
	logger zerolog.Logger,
) *OfferService {
	return &OfferService{
		offers:   offers,
		requests: requests,
		locker:   locker,
		notifier: notifier,
		logger:   logger,
	}
}

// Submit records a pending offer against a negotiable request. The first
// offer on an open request drives the open → negotiating transition.
func (s *OfferService) Submit(ctx context.Context, actor domain.Actor, in ports.SubmitOfferInput) (*domain.Offer, error) {
	if !actor.HasRole(domain.RoleTransporter) {
		return nil, fmt.Errorf("submit offer: %w", domain.ErrForbidden)
	}
	if in.Price <= 0 {
		return nil, fmt.Errorf("submit offer: price must be positive: %w", domain.ErrIncompleteSubmission)
	}

	// Same lock as Accept and Cancel: a decision landing between the
	// negotiability check and the insert would strand a forever-pending
	// offer on a decided request.
	release, err := s.locker.Acquire(ctx, in.RequestID)
	if err != nil {
		return nil, fmt.Errorf("submit offer: %w", err)
	}
	defer release()

	req, err := s.requests.FindByID(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}
	if req.ClientID == actor.ID {
		return nil, fmt.Errorf("submit offer: owner cannot bid on own request: %w", domain.ErrForbidden)
	}
	if !req.Status.Negotiable() {
		return nil, fmt.Errorf("request %s is %s: %w", req.ID, req.Status, domain.ErrRequestNotNegotiable)
	}

	kind := in.Kind
	if kind == "" {
		kind = domain.OfferKindInitial
	}

	now := time.Now().UTC()
	offer := &domain.Offer{
		ID:              uuid.NewString(),
		RequestID:       in.RequestID,
		TransporterID:   actor.ID,
		TransporterName: actor.Name,
		Price:           in.Price,
		Message:         in.Message,
		Kind:            kind,
		Status:          domain.OfferPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.offers.Create(ctx, offer); err != nil {
		s.logger.Error().Err(err).Str("request_id", in.RequestID).Msg("failed to create offer")
		return nil, err
	}

	// First offer opens negotiation. Under the lock the conditional cannot
	// be lost to a concurrent decision.
	if req.Status == domain.RequestOpen {
		moved, err := s.requests.TransitionStatus(ctx, req.ID,
			[]domain.RequestStatus{domain.RequestOpen}, domain.RequestNegotiating)
		if err != nil {
			s.logger.Warn().Err(err).Str("request_id", req.ID).Msg("failed to open negotiation")
		} else if moved {
			observability.RequestTransitionsTotal.WithLabelValues(string(domain.RequestNegotiating)).Inc()
		}
	}

	observability.OffersSubmittedTotal.WithLabelValues(string(kind)).Inc()
	s.logger.Info().
		Str("offer_id", offer.ID).
		Str("request_id", in.RequestID).
		Str("transporter_id", actor.ID).
		Float64("price", in.Price).
		Msg("offer submitted")

	s.notifier.Notify(domain.Event{
		Type:        domain.EventOfferSubmitted,
		ActorID:     actor.ID,
		RecipientID: req.ClientID,
		RequestID:   req.ID,
		Title:       "New offer received",
		Body:        fmt.Sprintf("%s offered %.2f for %q", actor.Name, in.Price, req.Title),
		Link:        "/requests/" + req.ID,
		OccurredAt:  now,
	})

	return offer, nil
}

// Accept atomically accepts one offer: the target becomes accepted, every
// other pending offer on the request is rejected, and the request moves to
// accepted. Exactly one of any set of concurrent accept attempts succeeds;
// the rest fail fast with ErrRequestAlreadyAccepted or ErrConflict.
func (s *OfferService) Accept(ctx context.Context, actor domain.Actor, offerID string) (*ports.AcceptOfferResult, error) {
	offer, err := s.offers.FindByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	req, err := s.requests.FindByID(ctx, offer.RequestID)
	if err != nil {
		return nil, err
	}
	if req.ClientID != actor.ID {
		return nil, fmt.Errorf("accept offer %s: %w", offerID, domain.ErrForbidden)
	}

	release, err := s.locker.Acquire(ctx, req.ID)
	if err != nil {
		observability.AcceptConflictsTotal.Inc()
		return nil, fmt.Errorf("accept offer %s: %w", offerID, err)
	}
	defer release()

	// Re-read under the lock: the pre-lock snapshot may be stale.
	offer, err = s.offers.FindByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	req, err = s.requests.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	switch {
	case req.Status == domain.RequestAccepted,
		req.Status == domain.RequestInTransit,
		req.Status == domain.RequestCompleted:
		observability.AcceptConflictsTotal.Inc()
		return nil, fmt.Errorf("accept offer %s: %w", offerID, domain.ErrRequestAlreadyAccepted)
	case offer.Status != domain.OfferPending, !req.Status.Negotiable():
		return nil, fmt.Errorf("accept offer %s: %w", offerID, domain.ErrOfferNotPending)
	}

	// Commit point: the conditional transition serializes winners even if
	// the lock were ever bypassed. Only the winner touches offers, so no
	// read can observe two accepted offers, or an accepted offer on a
	// still-negotiable request.
	moved, err := s.requests.TransitionStatus(ctx, req.ID,
		[]domain.RequestStatus{domain.RequestOpen, domain.RequestNegotiating}, domain.RequestAccepted)
	if err != nil {
		return nil, err
	}
	if !moved {
		observability.AcceptConflictsTotal.Inc()
		return nil, fmt.Errorf("accept offer %s: %w", offerID, domain.ErrRequestAlreadyAccepted)
	}

	if _, err := s.offers.UpdateStatus(ctx, offerID, domain.OfferPending, domain.OfferAccepted); err != nil {
		// Past the commit point a partial accept is an invariant violation;
		// surface it loudly rather than pretending the accept failed.
		s.logger.Error().Err(err).Str("offer_id", offerID).Msg("invariant: request accepted but offer update failed")
		return nil, err
	}
	rejected, err := s.offers.RejectOtherPending(ctx, req.ID, offerID)
	if err != nil {
		s.logger.Error().Err(err).Str("request_id", req.ID).Msg("invariant: accept cascade rejection failed")
		return nil, err
	}

	observability.RequestTransitionsTotal.WithLabelValues(string(domain.RequestAccepted)).Inc()
	observability.OfferDecisionsTotal.WithLabelValues(string(domain.OfferAccepted)).Inc()
	for range rejected {
		observability.OfferDecisionsTotal.WithLabelValues(string(domain.OfferRejected)).Inc()
	}

	s.logger.Info().
		Str("offer_id", offerID).
		Str("request_id", req.ID).
		Int("rejected", len(rejected)).
		Msg("offer accepted")

	now := time.Now().UTC()
	s.notifier.Notify(domain.Event{
		Type:        domain.EventOfferAccepted,
		ActorID:     actor.ID,
		RecipientID: offer.TransporterID,
		RequestID:   req.ID,
		Title:       "Offer accepted",
		Body:        fmt.Sprintf("Your offer of %.2f for %q was accepted", offer.Price, req.Title),
		Link:        "/requests/" + req.ID,
		OccurredAt:  now,
	})

	offer.Status = domain.OfferAccepted
	offer.UpdatedAt = now
	return &ports.AcceptOfferResult{
		Offer:         offer,
		RejectedIDs:   rejected,
		RequestStatus: domain.RequestAccepted,
	}, nil
}

// Reject declines a pending offer with no further side effects. A second
// reject on the same offer fails with ErrOfferNotPending, state unchanged.
func (s *OfferService) Reject(ctx context.Context, actor domain.Actor, offerID string) (*domain.Offer, error) {
	offer, err := s.offers.FindByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	req, err := s.requests.FindByID(ctx, offer.RequestID)
	if err != nil {
		return nil, err
	}
	if req.ClientID != actor.ID {
		return nil, fmt.Errorf("reject offer %s: %w", offerID, domain.ErrForbidden)
	}

	ok, err := s.offers.UpdateStatus(ctx, offerID, domain.OfferPending, domain.OfferRejected)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("reject offer %s: %w", offerID, domain.ErrOfferNotPending)
	}

	observability.OfferDecisionsTotal.WithLabelValues(string(domain.OfferRejected)).Inc()
	s.logger.Info().Str("offer_id", offerID).Str("request_id", req.ID).Msg("offer rejected")

	now := time.Now().UTC()
	s.notifier.Notify(domain.Event{
		Type:        domain.EventOfferRejected,
		ActorID:     actor.ID,
		RecipientID: offer.TransporterID,
		RequestID:   req.ID,
		Title:       "Offer rejected",
		Body:        fmt.Sprintf("Your offer for %q was rejected", req.Title),
		Link:        "/requests/" + req.ID,
		OccurredAt:  now,
	})

	offer.Status = domain.OfferRejected
	offer.UpdatedAt = now
	return offer, nil
}

func (s *OfferService) ListByRequest(ctx context.Context, requestID string) ([]*domain.Offer, error) {
	return s.offers.ListByRequest(ctx, requestID)
}

func (s *OfferService) ListMine(ctx context.Context, actor domain.Actor) ([]*domain.Offer, error) {
	return s.offers.ListByTransporter(ctx, actor.ID)
}

// errIsConflict reports whether err is one of the lost-race sentinels.
func errIsConflict(err error) bool {
	return errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrRequestAlreadyAccepted)
}
