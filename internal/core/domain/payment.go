package domain

import "time"

// PaymentType distinguishes the two checkout flows.
type PaymentType string

const (
	PaymentSubscription PaymentType = "subscription"
	PaymentCommission   PaymentType = "commission"
)

// PaymentStatus mirrors the gateway's session status; the core records it
// for display only and models no money movement.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentExpired PaymentStatus = "expired"
)

// PaymentTransaction records one external checkout session and its last
// polled status.
type PaymentTransaction struct {
	ID        string        `json:"id" bson:"_id"`
	UserID    string        `json:"user_id" bson:"user_id"`
	SessionID string        `json:"session_id" bson:"session_id"`
	RequestID string        `json:"request_id,omitempty" bson:"request_id,omitempty"`
	Amount    float64       `json:"amount" bson:"amount"`
	Currency  string        `json:"currency" bson:"currency"`
	Type      PaymentType   `json:"type" bson:"type"`
	Status    PaymentStatus `json:"status" bson:"status"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
}
