package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
	"github.com/cargoconnect/marketplace-api/internal/core/ports"
	"github.com/cargoconnect/marketplace-api/internal/observability"
)

// RequestService owns the request state machine and its transition guards.
// Status moves only through here (and through the offer accept protocol,
// which drives the →accepted transition as its side effect).
type RequestService struct {
	requests ports.RequestRepository
	offers   ports.OfferRepository
	locker   ports.RequestLocker
	logger   zerolog.Logger
}

func NewRequestService(requests ports.RequestRepository, offers ports.OfferRepository, locker ports.RequestLocker, logger zerolog.Logger) *RequestService {
	return &RequestService{requests: requests, offers: offers, locker: locker, logger: logger}
}

// Create posts a new transport request owned by the acting client.
func (s *RequestService) Create(ctx context.Context, actor domain.Actor, in ports.CreateRequestInput) (*domain.TransportRequest, error) {
	if !actor.HasRole(domain.RoleClient) {
		return nil, fmt.Errorf("create request: %w", domain.ErrForbidden)
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Origin) == "" || strings.TrimSpace(in.Destination) == "" {
		return nil, fmt.Errorf("create request: %w", domain.ErrIncompleteSubmission)
	}
	if in.OfferedPrice <= 0 {
		return nil, fmt.Errorf("create request: price must be positive: %w", domain.ErrIncompleteSubmission)
	}

	now := time.Now().UTC()
	req := &domain.TransportRequest{
		ID:           uuid.NewString(),
		ClientID:     actor.ID,
		ClientName:   actor.Name,
		Title:        in.Title,
		Description:  in.Description,
		Origin:       in.Origin,
		Destination:  in.Destination,
		CargoType:    in.CargoType,
		OfferedPrice: in.OfferedPrice,
		Status:       domain.RequestOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		s.logger.Error().Err(err).Str("client_id", actor.ID).Msg("failed to create request")
		return nil, err
	}

	s.logger.Info().Str("request_id", req.ID).Str("client_id", actor.ID).Msg("request created")
	return req, nil
}

func (s *RequestService) Get(ctx context.Context, id string) (*domain.TransportRequest, error) {
	return s.requests.FindByID(ctx, id)
}

func (s *RequestService) List(ctx context.Context, status string) ([]*domain.TransportRequest, error) {
	return s.requests.List(ctx, domain.RequestStatus(status))
}

func (s *RequestService) ListMine(ctx context.Context, actor domain.Actor) ([]*domain.TransportRequest, error) {
	return s.requests.ListByClient(ctx, actor.ID)
}

// MarkInTransit moves an accepted request into transit. Invocable by the
// owning client or the transporter holding the accepted offer.
func (s *RequestService) MarkInTransit(ctx context.Context, actor domain.Actor, id string) (*domain.TransportRequest, error) {
	return s.transit(ctx, actor, id, domain.RequestAccepted, domain.RequestInTransit)
}

// MarkCompleted finishes an in-transit request, unlocking rating submission.
func (s *RequestService) MarkCompleted(ctx context.Context, actor domain.Actor, id string) (*domain.TransportRequest, error) {
	return s.transit(ctx, actor, id, domain.RequestInTransit, domain.RequestCompleted)
}

func (s *RequestService) transit(ctx context.Context, actor domain.Actor, id string, from, to domain.RequestStatus) (*domain.TransportRequest, error) {
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorizePair(ctx, actor, req); err != nil {
		return nil, err
	}
	if !req.Status.CanTransitionTo(to) {
		return nil, domain.TransitionError(req.Status, to)
	}

	ok, err := s.requests.TransitionStatus(ctx, id, []domain.RequestStatus{from}, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("transition %s -> %s: %w", from, to, domain.ErrConflict)
	}

	observability.RequestTransitionsTotal.WithLabelValues(string(to)).Inc()
	s.logger.Info().Str("request_id", id).Str("to", string(to)).Str("actor_id", actor.ID).Msg("request transitioned")

	req.Status = to
	req.UpdatedAt = time.Now().UTC()
	return req, nil
}

// authorizePair admits the owning client or the accepted transporter.
func (s *RequestService) authorizePair(ctx context.Context, actor domain.Actor, req *domain.TransportRequest) error {
	if actor.ID == req.ClientID {
		return nil
	}
	accepted, err := s.offers.FindAcceptedByRequest(ctx, req.ID)
	if err == nil && accepted != nil && accepted.TransporterID == actor.ID {
		return nil
	}
	return fmt.Errorf("request %s: %w", req.ID, domain.ErrForbidden)
}

// Cancel terminalizes an open or negotiating request. Owner only. Every
// pending offer on the request becomes voided so none is left dangling.
func (s *RequestService) Cancel(ctx context.Context, actor domain.Actor, id string) (*domain.TransportRequest, error) {
	// Same lock as submit and accept, so no offer slips in between the
	// transition and the void cascade.
	release, err := s.locker.Acquire(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cancel request %s: %w", id, err)
	}
	defer release()

	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ClientID != actor.ID {
		return nil, fmt.Errorf("cancel request %s: %w", id, domain.ErrForbidden)
	}
	if !req.Status.CanTransitionTo(domain.RequestCancelled) {
		return nil, domain.TransitionError(req.Status, domain.RequestCancelled)
	}

	ok, err := s.requests.TransitionStatus(ctx, id,
		[]domain.RequestStatus{domain.RequestOpen, domain.RequestNegotiating}, domain.RequestCancelled)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("cancel request %s: %w", id, domain.ErrConflict)
	}

	voided, err := s.offers.VoidPending(ctx, id)
	if err != nil {
		// The request is already terminal. A failed void leaves offers
		// pending on a cancelled request; they are inert (nothing accepts
		// on a cancelled request) but the log line is the repair signal.
		s.logger.Error().Err(err).Str("request_id", id).Msg("failed to void pending offers")
	}
	for range voided {
		observability.OfferDecisionsTotal.WithLabelValues(string(domain.OfferVoided)).Inc()
	}
	observability.RequestTransitionsTotal.WithLabelValues(string(domain.RequestCancelled)).Inc()

	s.logger.Info().
		Str("request_id", id).
		Int("voided_offers", len(voided)).
		Msg("request cancelled")

	req.Status = domain.RequestCancelled
	req.UpdatedAt = time.Now().UTC()
	return req, nil
}
