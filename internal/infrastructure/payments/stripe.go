// Package payments wraps the Stripe Checkout API behind the core's gateway
// contract. The core never sees Stripe types; it records session ids and
// polls their status.
package payments

import (
	"context"
	"math"

	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
	"github.com/cargoconnect/marketplace-api/internal/core/ports"
)

// StripeGateway is a thin wrapper over Stripe hosted checkout sessions.
type StripeGateway struct{}

// NewStripeGateway sets the package-level API key and returns the gateway.
func NewStripeGateway(apiKey string) *StripeGateway {
	stripe.Key = apiKey
	return &StripeGateway{}
}

func (g *StripeGateway) CreateSession(_ context.Context, amount float64, currency, successURL, cancelURL string, metadata map[string]string) (*ports.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(metadata["payment_type"]),
					},
					// Stripe wants minor units.
					UnitAmount: stripe.Int64(int64(math.Round(amount * 100))),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	for k, v := range metadata {
		if v != "" {
			params.AddMetadata(k, v)
		}
	}

	s, err := session.New(params)
	if err != nil {
		return nil, err
	}
	return &ports.CheckoutSession{SessionID: s.ID, URL: s.URL}, nil
}

func (g *StripeGateway) SessionStatus(_ context.Context, sessionID string) (domain.PaymentStatus, error) {
	s, err := session.Get(sessionID, nil)
	if err != nil {
		return "", err
	}
	switch {
	case s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid:
		return domain.PaymentPaid, nil
	case s.Status == stripe.CheckoutSessionStatusExpired:
		return domain.PaymentExpired, nil
	default:
		return domain.PaymentPending, nil
	}
}
