package ports

import (
	"context"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
)

// RequestRepository defines persistence operations for transport requests.
type RequestRepository interface {
	Create(ctx context.Context, r *domain.TransportRequest) error
	FindByID(ctx context.Context, id string) (*domain.TransportRequest, error)
	// List returns requests newest-first, optionally filtered by status.
	List(ctx context.Context, status domain.RequestStatus) ([]*domain.TransportRequest, error)
	ListByClient(ctx context.Context, clientID string) ([]*domain.TransportRequest, error)
	// TransitionStatus conditionally moves the request from any of the given
	// states to the target state. It reports false when the request was not
	// in one of the from states, which is how lost races surface.
	TransitionStatus(ctx context.Context, id string, from []domain.RequestStatus, to domain.RequestStatus) (bool, error)
}

// CreateRequestInput carries the client-owned content of a new request.
type CreateRequestInput struct {
	Title        string
	Description  string
	Origin       string
	Destination  string
	CargoType    string
	OfferedPrice float64
}

// RequestService owns the request lifecycle state machine and its guards.
type RequestService interface {
	Create(ctx context.Context, actor domain.Actor, in CreateRequestInput) (*domain.TransportRequest, error)
	Get(ctx context.Context, id string) (*domain.TransportRequest, error)
	List(ctx context.Context, status string) ([]*domain.TransportRequest, error)
	ListMine(ctx context.Context, actor domain.Actor) ([]*domain.TransportRequest, error)
	// MarkInTransit and MarkCompleted are invocable by the owning client or
	// the accepted transporter.
	MarkInTransit(ctx context.Context, actor domain.Actor, id string) (*domain.TransportRequest, error)
	MarkCompleted(ctx context.Context, actor domain.Actor, id string) (*domain.TransportRequest, error)
	// Cancel is invocable by the owning client from open or negotiating;
	// all pending offers on the request become voided.
	Cancel(ctx context.Context, actor domain.Actor, id string) (*domain.TransportRequest, error)
}
