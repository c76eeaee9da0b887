package ports

import (
	"context"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
)

// VerificationRepository defines persistence operations for verification
// records.
type VerificationRepository interface {
	Insert(ctx context.Context, r *domain.VerificationRecord) error
	FindByID(ctx context.Context, id string) (*domain.VerificationRecord, error)
	// DeactivateIdentity clears the Active flag on the user's current
	// identity records; their terminal data is preserved for audit.
	DeactivateIdentity(ctx context.Context, userID string) error
	ListByUser(ctx context.Context, userID string) ([]*domain.VerificationRecord, error)
	// ListAdmin filters by status and kind (empty string = no filter),
	// ordered by submission time.
	ListAdmin(ctx context.Context, status domain.VerificationStatus, kind domain.VerificationKind) ([]*domain.VerificationRecord, error)
	// Adjudicate conditionally decides a pending record, reporting false
	// when the record was no longer pending.
	Adjudicate(ctx context.Context, id string, status domain.VerificationStatus, notes, adminID string) (bool, error)
}

// SubmitIdentityInput carries an identity verification submission.
type SubmitIdentityInput struct {
	DocumentType   string
	DocumentNumber string
	DocumentImage  string
	SelfieImage    string
}

// SubmitVehicleInput carries a vehicle verification submission.
type SubmitVehicleInput struct {
	VehicleType string
	Brand       string
	Model       string
	Plate       string
	Photos      []string
}

// VerificationStatusView summarizes a user's verification state for display.
type VerificationStatusView struct {
	Identity *domain.VerificationRecord   `json:"identity,omitempty"`
	Vehicles []*domain.VerificationRecord `json:"vehicles"`
}

// VerificationService manages credential submissions and admin adjudication,
// the only path by which a user's verified badge changes.
type VerificationService interface {
	SubmitIdentity(ctx context.Context, actor domain.Actor, in SubmitIdentityInput) (*domain.VerificationRecord, error)
	SubmitVehicle(ctx context.Context, actor domain.Actor, in SubmitVehicleInput) (*domain.VerificationRecord, error)
	Adjudicate(ctx context.Context, actor domain.Actor, recordID string, decision domain.VerificationStatus, notes string) (*domain.VerificationRecord, error)
	MyStatus(ctx context.Context, actor domain.Actor) (*VerificationStatusView, error)
	ListAll(ctx context.Context, actor domain.Actor, status, kind string) ([]*domain.VerificationRecord, error)
}
