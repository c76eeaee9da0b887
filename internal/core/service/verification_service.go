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

// VerificationService manages credential submissions and admin adjudication.
// Adjudication is the only path by which a user's verified badge changes.
type VerificationService struct {
	records  ports.VerificationRepository
	users    ports.UserRepository
	notifier ports.Notifier
	logger   zerolog.Logger
}

func NewVerificationService(
	records ports.VerificationRepository,
	users ports.UserRepository,
	notifier ports.Notifier,
	logger zerolog.Logger,
) *VerificationService {
	return &VerificationService{records: records, users: users, notifier: notifier, logger: logger}
}

// SubmitIdentity files a pending identity record. Any prior identity record
// is deactivated so exactly one is active; its terminal data stays for audit.
func (s *VerificationService) SubmitIdentity(ctx context.Context, actor domain.Actor, in ports.SubmitIdentityInput) (*domain.VerificationRecord, error) {
	if missing(in.DocumentType, in.DocumentNumber, in.DocumentImage) {
		return nil, fmt.Errorf("submit identity: %w", domain.ErrIncompleteSubmission)
	}

	if err := s.records.DeactivateIdentity(ctx, actor.ID); err != nil {
		return nil, fmt.Errorf("submit identity: %w", err)
	}

	rec := &domain.VerificationRecord{
		ID:             uuid.NewString(),
		UserID:         actor.ID,
		Kind:           domain.VerificationIdentity,
		DocumentType:   in.DocumentType,
		DocumentNumber: in.DocumentNumber,
		DocumentImage:  in.DocumentImage,
		SelfieImage:    in.SelfieImage,
		Status:         domain.VerificationPending,
		Active:         true,
		SubmittedAt:    time.Now().UTC(),
	}
	if err := s.records.Insert(ctx, rec); err != nil {
		s.logger.Error().Err(err).Str("user_id", actor.ID).Msg("failed to store identity submission")
		return nil, err
	}

	s.logger.Info().Str("record_id", rec.ID).Str("user_id", actor.ID).Msg("identity verification submitted")
	return rec, nil
}

// SubmitVehicle files a pending vehicle record. Transporter role required;
// vehicle records are additive, one per vehicle.
func (s *VerificationService) SubmitVehicle(ctx context.Context, actor domain.Actor, in ports.SubmitVehicleInput) (*domain.VerificationRecord, error) {
	if !actor.HasRole(domain.RoleTransporter) {
		return nil, fmt.Errorf("submit vehicle: %w", domain.ErrForbidden)
	}
	if missing(in.VehicleType, in.Brand, in.Model, in.Plate) || len(in.Photos) == 0 {
		return nil, fmt.Errorf("submit vehicle: %w", domain.ErrIncompleteSubmission)
	}

	rec := &domain.VerificationRecord{
		ID:           uuid.NewString(),
		UserID:       actor.ID,
		Kind:         domain.VerificationVehicle,
		VehicleType:  in.VehicleType,
		VehicleBrand: in.Brand,
		VehicleModel: in.Model,
		VehiclePlate: in.Plate,
		Photos:       in.Photos,
		Status:       domain.VerificationPending,
		Active:       true,
		SubmittedAt:  time.Now().UTC(),
	}
	if err := s.records.Insert(ctx, rec); err != nil {
		s.logger.Error().Err(err).Str("user_id", actor.ID).Msg("failed to store vehicle submission")
		return nil, err
	}

	s.logger.Info().Str("record_id", rec.ID).Str("user_id", actor.ID).Msg("vehicle verification submitted")
	return rec, nil
}

// Adjudicate decides one pending record. Admin only; a record that is no
// longer pending fails with ErrAlreadyAdjudicated, state unchanged.
func (s *VerificationService) Adjudicate(ctx context.Context, actor domain.Actor, recordID string, decision domain.VerificationStatus, notes string) (*domain.VerificationRecord, error) {
	if !actor.HasRole(domain.RoleAdmin) {
		return nil, fmt.Errorf("adjudicate: %w", domain.ErrForbidden)
	}
	if decision != domain.VerificationApproved && decision != domain.VerificationRejected {
		return nil, fmt.Errorf("adjudicate: decision must be approved or rejected: %w", domain.ErrIncompleteSubmission)
	}

	rec, err := s.records.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}

	ok, err := s.records.Adjudicate(ctx, recordID, decision, notes, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("record %s: %w", recordID, domain.ErrAlreadyAdjudicated)
	}

	// The identity badge follows the active identity record's decision.
	if rec.Kind == domain.VerificationIdentity && rec.Active {
		if err := s.users.SetIdentityVerified(ctx, rec.UserID, decision == domain.VerificationApproved); err != nil {
			s.logger.Error().Err(err).Str("user_id", rec.UserID).Msg("failed to update verified badge")
		}
	}

	observability.VerificationDecisionsTotal.WithLabelValues(string(rec.Kind), string(decision)).Inc()
	s.logger.Info().
		Str("record_id", recordID).
		Str("admin_id", actor.ID).
		Str("decision", string(decision)).
		Msg("verification adjudicated")

	now := time.Now().UTC()
	title := "Verification approved"
	if decision == domain.VerificationRejected {
		title = "Verification rejected"
	}
	s.notifier.Notify(domain.Event{
		Type:        domain.EventVerificationAdjudicated,
		ActorID:     actor.ID,
		RecipientID: rec.UserID,
		Title:       title,
		Body:        fmt.Sprintf("Your %s verification was %s", rec.Kind, decision),
		Link:        "/profile/verification",
		OccurredAt:  now,
	})

	rec.Status = decision
	rec.AdminNotes = notes
	rec.ReviewedBy = actor.ID
	rec.ReviewedAt = &now
	return rec, nil
}

// MyStatus summarizes the caller's active identity record and all vehicle
// records for display.
func (s *VerificationService) MyStatus(ctx context.Context, actor domain.Actor) (*ports.VerificationStatusView, error) {
	recs, err := s.records.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	view := &ports.VerificationStatusView{}
	for _, r := range recs {
		switch r.Kind {
		case domain.VerificationIdentity:
			if r.Active {
				view.Identity = r
			}
		case domain.VerificationVehicle:
			view.Vehicles = append(view.Vehicles, r)
		}
	}
	return view, nil
}

// ListAll is the admin review queue, filtered by status and kind and
// ordered by submission time.
func (s *VerificationService) ListAll(ctx context.Context, actor domain.Actor, status, kind string) ([]*domain.VerificationRecord, error) {
	if !actor.HasRole(domain.RoleAdmin) {
		return nil, fmt.Errorf("list verifications: %w", domain.ErrForbidden)
	}
	return s.records.ListAdmin(ctx, domain.VerificationStatus(status), domain.VerificationKind(kind))
}

func missing(fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return true
		}
	}
	return false
}
