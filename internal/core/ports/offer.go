package ports

import (
	"context"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
)

// OfferRepository defines persistence operations for offers.
type OfferRepository interface {
	Create(ctx context.Context, o *domain.Offer) error
	FindByID(ctx context.Context, id string) (*domain.Offer, error)
	ListByRequest(ctx context.Context, requestID string) ([]*domain.Offer, error)
	ListByTransporter(ctx context.Context, transporterID string) ([]*domain.Offer, error)
	FindAcceptedByRequest(ctx context.Context, requestID string) (*domain.Offer, error)
	// UpdateStatus conditionally moves one offer from a status to another,
	// reporting false when the offer was not in the from status.
	UpdateStatus(ctx context.Context, id string, from, to domain.OfferStatus) (bool, error)
	// RejectOtherPending marks every pending offer on the request except the
	// given one as rejected, returning the affected offer ids.
	RejectOtherPending(ctx context.Context, requestID, exceptID string) ([]string, error)
	// VoidPending marks every pending offer on the request as voided,
	// returning the affected offer ids.
	VoidPending(ctx context.Context, requestID string) ([]string, error)
}

// RequestLocker serializes the accept protocol per request. Acquire is
// bounded and fails fast: a held lock surfaces as domain.ErrConflict rather
// than queueing.
type RequestLocker interface {
	Acquire(ctx context.Context, requestID string) (release func(), err error)
}

// SubmitOfferInput carries a transporter's proposal against a request.
type SubmitOfferInput struct {
	RequestID string
	Price     float64
	Message   string
	Kind      domain.OfferKind
}

// AcceptOfferResult is the full delta set applied by the atomic accept:
// the accepted offer, every offer rejected in the cascade, and the
// request's new status.
type AcceptOfferResult struct {
	Offer         *domain.Offer
	RejectedIDs   []string
	RequestStatus domain.RequestStatus
}

// OfferService manages the lifecycle of a request's offers, including the
// atomic accept operation.
type OfferService interface {
	Submit(ctx context.Context, actor domain.Actor, in SubmitOfferInput) (*domain.Offer, error)
	Accept(ctx context.Context, actor domain.Actor, offerID string) (*AcceptOfferResult, error)
	Reject(ctx context.Context, actor domain.Actor, offerID string) (*domain.Offer, error)
	ListByRequest(ctx context.Context, requestID string) ([]*domain.Offer, error)
	ListMine(ctx context.Context, actor domain.Actor) ([]*domain.Offer, error)
}
