package domain

import "time"

// NotificationType is the display category of a notification.
type NotificationType string

const (
	NotificationOffer        NotificationType = "offer"
	NotificationMessage      NotificationType = "message"
	NotificationVerification NotificationType = "verification"
	NotificationPayment      NotificationType = "payment"
)

// Notification is a per-user record of a domain event requiring the
// recipient's attention. Created only by the dispatcher; end users can
// mutate nothing but the read flag.
type Notification struct {
	ID          string           `json:"id" bson:"_id"`
	RecipientID string           `json:"recipient_id" bson:"recipient_id"`
	Type        NotificationType `json:"type" bson:"type"`
	Title       string           `json:"title" bson:"title"`
	Body        string           `json:"body" bson:"body"`
	Link        string           `json:"link,omitempty" bson:"link,omitempty"`
	Read        bool             `json:"read" bson:"read"`
	CreatedAt   time.Time        `json:"created_at" bson:"created_at"`
}

// EventType identifies a domain event feeding the notification dispatcher
// and the audit stream.
type EventType string

const (
	EventOfferSubmitted          EventType = "offer_submitted"
	EventOfferAccepted           EventType = "offer_accepted"
	EventOfferRejected           EventType = "offer_rejected"
	EventMessagePosted           EventType = "message_posted"
	EventVerificationAdjudicated EventType = "verification_adjudicated"
	EventPaymentSettled          EventType = "payment_settled"
)

// Event is the dispatcher's unit of fan-out: one event produces one
// notification for the counterparty (never the actor).
type Event struct {
	Type        EventType `json:"type"`
	ActorID     string    `json:"actor_id"`
	RecipientID string    `json:"recipient_id"`
	RequestID   string    `json:"request_id,omitempty"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Link        string    `json:"link,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NotificationType maps the event to its display category.
func (e Event) NotificationType() NotificationType {
	switch e.Type {
	case EventMessagePosted:
		return NotificationMessage
	case EventVerificationAdjudicated:
		return NotificationVerification
	case EventPaymentSettled:
		return NotificationPayment
	default:
		return NotificationOffer
	}
}
