package ports

import (
	"context"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
)

// PaymentRepository defines persistence operations for payment transactions.
type PaymentRepository interface {
	Insert(ctx context.Context, t *domain.PaymentTransaction) error
	FindBySessionID(ctx context.Context, sessionID string) (*domain.PaymentTransaction, error)
	UpdateStatus(ctx context.Context, sessionID string, status domain.PaymentStatus) error
}

// CheckoutSession is what the external gateway returns for a new session.
type CheckoutSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// CheckoutGateway is the boundary contract with the external payment
// provider: create a session, later poll its settlement status. The core
// never models money movement.
type CheckoutGateway interface {
	CreateSession(ctx context.Context, amount float64, currency, successURL, cancelURL string, metadata map[string]string) (*CheckoutSession, error)
	// SessionStatus returns paid, expired or pending.
	SessionStatus(ctx context.Context, sessionID string) (domain.PaymentStatus, error)
}

// PaymentService wraps the gateway and records session outcomes for display.
type PaymentService interface {
	StartSubscription(ctx context.Context, actor domain.Actor, originURL string) (*CheckoutSession, error)
	StartCommission(ctx context.Context, actor domain.Actor, requestID, originURL string) (*CheckoutSession, error)
	PollStatus(ctx context.Context, actor domain.Actor, sessionID string) (*domain.PaymentTransaction, error)
}
