package domain

import "time"

// OfferStatus represents the state of a transporter's offer.
type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferRejected OfferStatus = "rejected"
	// OfferVoided marks pending offers invalidated by request cancellation.
	OfferVoided OfferStatus = "voided"
)

// OfferKind distinguishes an initial offer from a negotiation counteroffer.
type OfferKind string

const (
	OfferKindInitial      OfferKind = "offer"
	OfferKindCounteroffer OfferKind = "counteroffer"
)

// Offer is a transporter's proposed price against a request.
//
// Invariant: at most one offer per request holds OfferAccepted at any time;
// once one does, the request stops accepting new offers. Rejected and voided
// offers are retained for history and never resurrected.
type Offer struct {
	ID              string      `json:"id" bson:"_id"`
	RequestID       string      `json:"request_id" bson:"request_id"`
	TransporterID   string      `json:"transporter_id" bson:"transporter_id"`
	TransporterName string      `json:"transporter_name" bson:"transporter_name"`
	Price           float64     `json:"price" bson:"price"`
	Message         string      `json:"message,omitempty" bson:"message,omitempty"`
	Kind            OfferKind   `json:"kind" bson:"kind"`
	Status          OfferStatus `json:"status" bson:"status"`
	CreatedAt       time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" bson:"updated_at"`
}
