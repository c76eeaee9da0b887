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

const (
	subscriptionPrice = 4.99
	commissionRate    = 0.10
	paymentCurrency   = "eur"
)

// PaymentService is a thin wrapper over the external checkout gateway:
// create a session, record it, poll its settlement status for display.
type PaymentService struct {
	payments ports.PaymentRepository
	offers   ports.OfferRepository
	gateway  ports.CheckoutGateway
	notifier ports.Notifier
	logger   zerolog.Logger
}

func NewPaymentService(
	payments ports.PaymentRepository,
	offers ports.OfferRepository,
	gateway ports.CheckoutGateway,
	notifier ports.Notifier,
	logger zerolog.Logger,
) *PaymentService {
	return &PaymentService{payments: payments, offers: offers, gateway: gateway, notifier: notifier, logger: logger}
}

// StartSubscription opens a checkout session for the transporter's monthly
// subscription.
func (s *PaymentService) StartSubscription(ctx context.Context, actor domain.Actor, originURL string) (*ports.CheckoutSession, error) {
	if !actor.HasRole(domain.RoleTransporter) {
		return nil, fmt.Errorf("start subscription: %w", domain.ErrForbidden)
	}
	return s.start(ctx, actor, subscriptionPrice, domain.PaymentSubscription, "", originURL)
}

// StartCommission opens a checkout session for the platform commission on a
// request's accepted price.
func (s *PaymentService) StartCommission(ctx context.Context, actor domain.Actor, requestID, originURL string) (*ports.CheckoutSession, error) {
	accepted, err := s.offers.FindAcceptedByRequest(ctx, requestID)
	if err != nil || accepted == nil {
		return nil, fmt.Errorf("start commission: %w", domain.ErrOfferNotFound)
	}
	if accepted.TransporterID != actor.ID {
		return nil, fmt.Errorf("start commission: %w", domain.ErrForbidden)
	}
	amount := accepted.Price * commissionRate
	return s.start(ctx, actor, amount, domain.PaymentCommission, requestID, originURL)
}

func (s *PaymentService) start(ctx context.Context, actor domain.Actor, amount float64, kind domain.PaymentType, requestID, originURL string) (*ports.CheckoutSession, error) {
	session, err := s.gateway.CreateSession(ctx, amount, paymentCurrency,
		originURL+"/payment/success?session_id={CHECKOUT_SESSION_ID}",
		originURL+"/payment/cancel",
		map[string]string{
			"user_id":      actor.ID,
			"payment_type": string(kind),
			"request_id":   requestID,
		})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", actor.ID).Msg("failed to create checkout session")
		return nil, err
	}

	now := time.Now().UTC()
	tx := &domain.PaymentTransaction{
		ID:        uuid.NewString(),
		UserID:    actor.ID,
		SessionID: session.SessionID,
		RequestID: requestID,
		Amount:    amount,
		Currency:  paymentCurrency,
		Type:      kind,
		Status:    domain.PaymentPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.payments.Insert(ctx, tx); err != nil {
		s.logger.Error().Err(err).Str("session_id", session.SessionID).Msg("failed to record payment transaction")
		return nil, err
	}

	s.logger.Info().
		Str("session_id", session.SessionID).
		Str("type", string(kind)).
		Float64("amount", amount).
		Msg("checkout session created")
	return session, nil
}

// PollStatus re-reads the gateway session and records the settled status.
// Callers poll this after returning from checkout.
func (s *PaymentService) PollStatus(ctx context.Context, actor domain.Actor, sessionID string) (*domain.PaymentTransaction, error) {
	tx, err := s.payments.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if tx.UserID != actor.ID {
		return nil, fmt.Errorf("payment session %s: %w", sessionID, domain.ErrForbidden)
	}
	if tx.Status != domain.PaymentPending {
		return tx, nil
	}

	status, err := s.gateway.SessionStatus(ctx, sessionID)
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("gateway status poll failed")
		return tx, nil
	}
	if status == tx.Status {
		return tx, nil
	}

	if err := s.payments.UpdateStatus(ctx, sessionID, status); err != nil {
		return nil, err
	}
	tx.Status = status
	tx.UpdatedAt = time.Now().UTC()

	if status == domain.PaymentPaid {
		s.notifier.Notify(domain.Event{
			Type:        domain.EventPaymentSettled,
			RecipientID: tx.UserID,
			RequestID:   tx.RequestID,
			Title:       "Payment confirmed",
			Body:        fmt.Sprintf("Your %s payment of %.2f was received", tx.Type, tx.Amount),
			OccurredAt:  tx.UpdatedAt,
		})
	}

	s.logger.Info().Str("session_id", sessionID).Str("status", string(status)).Msg("payment status updated")
	return tx, nil
}
